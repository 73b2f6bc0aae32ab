// Package store defines the boundary to the document store: the atomic
// find-apply-return primitive the persistence protocol needs, removal by
// query, and connection/collection resolution by logical names. It also
// ships an in-process Memory engine implementing the boundary, which backs
// tests and embedded use; network drivers are external collaborators that
// register their connections with the Manager.
package store

import (
	"context"

	"docmapper/errors"
)

const (
	// ErrNoConnection reports a logical connection name with no registered
	// connection and no default to fall back to.
	ErrNoConnection errors.Code = "NoConnection"
	// ErrPersistence reports a failed store round trip.
	ErrPersistence errors.Code = "PersistenceError"
)

// Doc is a storage document: short field names mapped to collapsed values.
type Doc = map[string]any

// Query matches documents by field equality.
type Query = map[string]any

// Update is an update operator document: operator names mapped to
// per-storage-field operands.
type Update = map[string]map[string]any

// Conn is a connection to a store.
type Conn interface {
	// Database resolves a database by name.
	Database(name string) Database
	// Close releases the connection.
	Close() error
}

// Database resolves collections by name.
type Database interface {
	Collection(name string) Collection
}

// FindAndModifyOptions controls the atomic find-and-modify primitive.
type FindAndModifyOptions struct {
	// Upsert inserts a new document seeded from the query when nothing
	// matches.
	Upsert bool
	// ReturnNew returns the post-update document instead of the original.
	ReturnNew bool
}

// Collection is one named collection of documents.
type Collection interface {
	// FindAndModify atomically applies update operators to the first
	// document matching query and returns it. A nil document with a nil
	// error means nothing matched and no upsert was requested.
	FindAndModify(ctx context.Context, query Query, update Update, opts FindAndModifyOptions) (Doc, error)
	// FindOne returns the first document matching query, or nil.
	FindOne(ctx context.Context, query Query) (Doc, error)
	// Find returns a cursor over all documents matching query.
	Find(ctx context.Context, query Query) (Cursor, error)
	// Remove deletes all documents matching query, reporting how many.
	Remove(ctx context.Context, query Query) (int, error)
	// EnsureIndex makes sure an index exists on the given field.
	EnsureIndex(ctx context.Context, key string) error
}

// Cursor iterates storage documents.
type Cursor interface {
	// Next advances the cursor, reporting whether a document is available.
	Next() bool
	// Doc returns the current document.
	Doc() Doc
	// Err returns the first error hit during iteration.
	Err() error
	// Close releases the cursor.
	Close() error
}
