package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/errors"
	"docmapper/store"
)

func testCollection(t *testing.T) store.Collection {
	t.Helper()
	return store.NewMemory().Database("testdb").Collection("things")
}

func TestFindAndModifyUpsertSeedsFromQuery(t *testing.T) {
	ctx := context.Background()
	col := testCollection(t)

	doc, err := col.FindAndModify(ctx,
		store.Query{"_id": "a1"},
		store.Update{"$set": {"name": "first"}},
		store.FindAndModifyOptions{Upsert: true, ReturnNew: true})
	require.NoError(t, err)

	assert.Equal(t, "a1", doc["_id"])
	assert.Equal(t, "first", doc["name"])

	found, err := col.FindOne(ctx, store.Query{"_id": "a1"})
	require.NoError(t, err)
	assert.Equal(t, doc, found)
}

func TestFindAndModifyNoMatchNoUpsert(t *testing.T) {
	ctx := context.Background()
	col := testCollection(t)

	doc, err := col.FindAndModify(ctx,
		store.Query{"_id": "missing"},
		store.Update{"$set": {"name": "x"}},
		store.FindAndModifyOptions{})
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestOperatorApplication(t *testing.T) {
	ctx := context.Background()
	col := testCollection(t)

	seed := func() {
		_, err := col.FindAndModify(ctx,
			store.Query{"_id": "a1"},
			store.Update{"$set": {
				"count": int64(10),
				"tags":  []any{"a", "b"},
				"tmp":   "drop me",
			}},
			store.FindAndModifyOptions{Upsert: true, ReturnNew: true})
		require.NoError(t, err)
	}
	seed()

	doc, err := col.FindAndModify(ctx,
		store.Query{"_id": "a1"},
		store.Update{
			"$inc":      {"count": int64(5)},
			"$unset":    {"tmp": 1},
			"$pushAll":  {"tags": []any{"c", "a"}},
			"$addToSet": {"uniq": map[string]any{"$each": []any{"x", "x", "y"}}},
			"$pullAll":  {"tags": []any{"b"}},
		},
		store.FindAndModifyOptions{ReturnNew: true})
	require.NoError(t, err)

	assert.Equal(t, int64(15), doc["count"])
	assert.NotContains(t, doc, "tmp")
	assert.Equal(t, []any{"a", "c", "a"}, doc["tags"])
	assert.Equal(t, []any{"x", "y"}, doc["uniq"])
}

func TestUnknownOperatorFails(t *testing.T) {
	ctx := context.Background()
	col := testCollection(t)

	_, err := col.FindAndModify(ctx,
		store.Query{"_id": "a1"},
		store.Update{"$rename": {"a": "b"}},
		store.FindAndModifyOptions{Upsert: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrPersistence))
}

func TestReturnOldDocument(t *testing.T) {
	ctx := context.Background()
	col := testCollection(t)

	_, err := col.FindAndModify(ctx,
		store.Query{"_id": "a1"},
		store.Update{"$set": {"v": int64(1)}},
		store.FindAndModifyOptions{Upsert: true, ReturnNew: true})
	require.NoError(t, err)

	old, err := col.FindAndModify(ctx,
		store.Query{"_id": "a1"},
		store.Update{"$set": {"v": int64(2)}},
		store.FindAndModifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), old["v"])

	cur, err := col.FindOne(ctx, store.Query{"_id": "a1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cur["v"])
}

func TestResultsDoNotAliasCollectionState(t *testing.T) {
	ctx := context.Background()
	col := testCollection(t)

	doc, err := col.FindAndModify(ctx,
		store.Query{"_id": "a1"},
		store.Update{"$set": {"tags": []any{"a"}}},
		store.FindAndModifyOptions{Upsert: true, ReturnNew: true})
	require.NoError(t, err)

	doc["tags"].([]any)[0] = "mutated"

	fresh, err := col.FindOne(ctx, store.Query{"_id": "a1"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, fresh["tags"])
}

func TestFindAndRemove(t *testing.T) {
	ctx := context.Background()
	col := testCollection(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := col.FindAndModify(ctx,
			store.Query{"_id": id},
			store.Update{"$set": {"kind": "thing"}},
			store.FindAndModifyOptions{Upsert: true})
		require.NoError(t, err)
	}

	cursor, err := col.Find(ctx, store.Query{"kind": "thing"})
	require.NoError(t, err)
	defer cursor.Close()

	var ids []any
	for cursor.Next() {
		ids = append(ids, cursor.Doc()["_id"])
	}
	require.NoError(t, cursor.Err())
	assert.ElementsMatch(t, []any{"a", "b", "c"}, ids)

	removed, err := col.Remove(ctx, store.Query{"_id": "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = col.Remove(ctx, store.Query{"_id": "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestSequence(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory().Database("testdb")
	seq := store.NewSequence(db, "")

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, "invoice")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Independent counters do not interfere.
	got, err := seq.Next(ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
