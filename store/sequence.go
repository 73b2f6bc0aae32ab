package store

import (
	"context"

	"docmapper/errors"
)

// SequenceCollection is the default collection backing named counters.
const SequenceCollection = "sequences"

// Sequence hands out monotonically increasing integers per counter name,
// using the store's atomic find-and-modify so concurrent callers across
// processes never see the same value twice.
type Sequence struct {
	col Collection
}

// NewSequence returns a sequence generator backed by the named collection of
// db, defaulting to SequenceCollection.
func NewSequence(db Database, collection string) *Sequence {
	if collection == "" {
		collection = SequenceCollection
	}
	return &Sequence{col: db.Collection(collection)}
}

// Next increments and returns the counter with the given name, starting at 1
// for a counter that does not exist yet.
func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	if err := s.col.EnsureIndex(ctx, "name"); err != nil {
		return 0, errors.Wrap(err, "sequence: ensuring index")
	}

	doc, err := s.col.FindAndModify(ctx,
		Query{"name": name},
		Update{"$inc": {"seq": int64(1)}},
		FindAndModifyOptions{Upsert: true, ReturnNew: true})
	if err != nil {
		return 0, errors.Wrapf(err, "sequence: incrementing %q", name)
	}

	seq, ok := doc["seq"].(int64)
	if !ok {
		return 0, errors.Newf(ErrPersistence, "sequence %q holds non-integer %T", name, doc["seq"])
	}
	return seq, nil
}
