package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/document"
	"docmapper/errors"
)

func listField(t *testing.T, doc *document.Document, name string) *document.List {
	t.Helper()
	value, err := doc.Get(name)
	require.NoError(t, err)
	list, ok := value.(*document.List)
	require.True(t, ok, "field %q should read as a list wrapper", name)
	return list
}

func TestListMutationMarksFieldDirty(t *testing.T) {
	doc := userType(t).New()

	list := listField(t, doc, "tags")
	require.NoError(t, list.Append("go"))

	update, err := doc.Operations()
	require.NoError(t, err)
	assert.Equal(t, []any{"go"}, update["$set"]["tags"])
}

func TestSecondReadObservesMutation(t *testing.T) {
	doc := userType(t).New()

	first := listField(t, doc, "tags")
	require.NoError(t, first.Append("go"))

	second := listField(t, doc, "tags")
	items, err := second.Items()
	require.NoError(t, err)
	assert.Equal(t, []any{"go"}, items)

	// Wrappers are live views: mutating either is equivalent.
	require.NoError(t, second.Append("db"))
	items, err = first.Items()
	require.NoError(t, err)
	assert.Equal(t, []any{"go", "db"}, items)
}

func TestListOperations(t *testing.T) {
	doc := userType(t).New()
	list := listField(t, doc, "tags")

	require.NoError(t, list.Append("c", "a", "b"))
	require.NoError(t, list.Insert(0, "z"))
	require.NoError(t, list.Set(0, "y"))

	got, err := list.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "y", got)

	popped, err := list.Pop(0)
	require.NoError(t, err)
	assert.Equal(t, "y", popped)

	removed, err := list.Remove("b")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = list.Remove("nope")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, list.Sort(func(a, b any) bool { return a.(string) < b.(string) }))
	items, err := list.Items()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, items)

	require.NoError(t, list.Reverse())
	items, err = list.Items()
	require.NoError(t, err)
	assert.Equal(t, []any{"c", "a"}, items)

	require.NoError(t, list.Clear())
	assert.Equal(t, 0, list.Len())
}

func TestFixedListReadsAsListWrapper(t *testing.T) {
	doc := userType(t).New()
	require.NoError(t, doc.Assign("pos", []any{1.0, 2.0}))
	doc.ClearOps()

	list := listField(t, doc, "pos")
	require.NoError(t, list.Set(0, 99.0))

	// In-place element writes go through the wrapper, so the field is
	// dirty again and the change reaches the next save.
	update, err := doc.Operations()
	require.NoError(t, err)
	assert.Equal(t, []any{99.0, 2.0}, update["$set"]["pos"])
}

func TestListIndexOutOfRange(t *testing.T) {
	doc := userType(t).New()
	list := listField(t, doc, "tags")

	_, err := list.Get(0)
	assert.Error(t, err)
	assert.Error(t, list.Set(3, "x"))
	assert.Error(t, list.Insert(-1, "x"))
}

func TestMapMutationMarksFieldDirty(t *testing.T) {
	doc := userType(t).New()

	value, err := doc.Get("scores")
	require.NoError(t, err)
	scores := value.(*document.Map)

	require.NoError(t, scores.Set("math", int64(90)))
	require.NoError(t, scores.Update(map[string]any{"art": int64(70)}))

	got, ok := scores.Get("math")
	require.True(t, ok)
	assert.Equal(t, int64(90), got)

	keys, err := scores.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"art", "math"}, keys)

	update, err := doc.Operations()
	require.NoError(t, err)
	assert.Equal(t,
		map[string]any{"art": int64(70), "math": int64(90)},
		update["$set"]["scores"])

	popped, ok, err := scores.Pop("art")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(70), popped)

	deleted, err := scores.Delete("math")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, scores.Len())
}

func TestSetMutationCollapsesDeterministically(t *testing.T) {
	doc := userType(t).New()

	value, err := doc.Get("roles")
	require.NoError(t, err)
	roles := value.(*document.Set)

	require.NoError(t, roles.Add("ops"))
	require.NoError(t, roles.Update("admin", "dev"))
	require.NoError(t, roles.Discard("dev"))

	assert.True(t, roles.Contains("admin"))
	assert.Equal(t, 2, roles.Len())

	update, err := doc.Operations()
	require.NoError(t, err)
	assert.Equal(t, []any{"admin", "ops"}, update["$set"]["roles"])
}

func TestSetAlgebraUpdates(t *testing.T) {
	doc := userType(t).New()
	value, err := doc.Get("roles")
	require.NoError(t, err)
	roles := value.(*document.Set)

	require.NoError(t, roles.Update("a", "b", "c"))
	require.NoError(t, roles.IntersectionUpdate("b", "c", "d"))
	items, err := roles.Items()
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, items)

	require.NoError(t, roles.DifferenceUpdate("c"))
	require.NoError(t, roles.SymmetricDifferenceUpdate("b", "e"))
	items, err = roles.Items()
	require.NoError(t, err)
	assert.Equal(t, []any{"e"}, items)

	require.Error(t, roles.Remove("b"))

	popped, err := roles.Pop()
	require.NoError(t, err)
	assert.Equal(t, "e", popped)
	assert.Equal(t, 0, roles.Len())
}

func TestStaleContainerFailsCleanly(t *testing.T) {
	doc := userType(t).New()
	list := listField(t, doc, "tags")

	doc.Discard()

	err := list.Append("late")
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrStaleContainer))
	assert.Equal(t, 0, list.Len())
}
