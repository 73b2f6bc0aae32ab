package field_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/errors"
	"docmapper/field"
)

// TestRoundTrip checks expand(collapse(x)) == x for application values and
// collapse(expand(y)) == y for storage values across all field kinds.
func TestRoundTrip(t *testing.T) {
	id := ulid.Make()
	uid := uuid.New()
	now := time.Now().UTC()

	tests := []struct {
		spec    any
		app     any // application (expanded) value
		storage any // storage (collapsed) form
	}{
		{spec: nil, app: "anything", storage: "anything"},
		{spec: field.Bool, app: true, storage: true},
		{spec: field.Binary, app: []byte("blob"), storage: field.Bytes("blob")},
		{spec: field.Text, app: "hello", storage: "hello"},
		{spec: field.Time, app: now, storage: now},
		{spec: field.Int, app: int64(42), storage: int64(42)},
		{spec: field.Float, app: 2.5, storage: 2.5},
		{spec: field.ObjectID, app: id, storage: id.String()},
		{spec: field.UUID, app: uid, storage: uid.String()},
		{spec: []any{field.Int}, app: []any{int64(1), int64(2)}, storage: []any{int64(1), int64(2)}},
		{
			spec:    field.SetOf(field.Text),
			app:     field.NewSet("a", "b"),
			storage: []any{"a", "b"},
		},
		{
			spec:    []any{field.Text, field.Int},
			app:     []any{"pair", int64(9)},
			storage: []any{"pair", int64(9)},
		},
		{
			spec:    map[any]any{field.Text: field.Binary},
			app:     map[string]any{"k": []byte("v")},
			storage: map[string]any{"k": field.Bytes("v")},
		},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
			d, err := field.Parse(test.spec)
			require.NoError(t, err)
			require.NoError(t, d.Validate(test.app))

			collapsed, err := d.Collapse(test.app)
			require.NoError(t, err)
			assert.Equal(t, test.storage, collapsed)

			expanded, err := d.Expand(collapsed)
			require.NoError(t, err)
			assert.Equal(t, test.app, expanded)

			// Storage-side stability: collapsing what was expanded from
			// storage reproduces the storage form.
			recollapsed, err := d.Collapse(expanded)
			require.NoError(t, err)
			assert.Equal(t, test.storage, recollapsed)
		})
	}
}

func TestIntWidthNormalization(t *testing.T) {
	d, err := field.Parse(field.Int)
	require.NoError(t, err)

	for _, v := range []any{int(7), int32(7), int64(7)} {
		require.NoError(t, d.Validate(v))
		collapsed, err := d.Collapse(v)
		require.NoError(t, err)
		assert.Equal(t, int64(7), collapsed)
	}
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	tests := []struct {
		spec  any
		value any
	}{
		{spec: field.Bool, value: "true"},
		{spec: field.Text, value: 42},
		{spec: field.Int, value: 4.2},
		{spec: field.Int, value: nil},
		{spec: field.Float, value: int64(1)},
		{spec: field.Binary, value: "string"},
		{spec: field.ObjectID, value: "not-a-ulid"},
		{spec: []any{field.Int}, value: []any{int64(1), "two"}},
		{spec: []any{field.Int}, value: "not a list"},
		{spec: []any{field.Text, field.Int}, value: []any{"only one"}},
		{spec: field.SetOf(field.Text), value: field.NewSet("ok", int64(3))},
		{spec: map[any]any{field.Text: field.Int}, value: map[string]any{"k": "v"}},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
			d, err := field.Parse(test.spec)
			require.NoError(t, err)

			err = d.Validate(test.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, field.ErrTypeMismatch), "got %v", err)
		})
	}
}

func TestMakeDoesNotAliasMutableDefaults(t *testing.T) {
	d, err := field.Parse([]any{field.Text}, field.WithDefault([]any{"a"}))
	require.NoError(t, err)

	first := d.Make().([]any)
	second := d.Make().([]any)
	first[0] = "mutated"

	assert.Equal(t, []any{"a"}, second)
	assert.Equal(t, []any{"a"}, d.Make().([]any))
}

func TestMakeDefaultFunc(t *testing.T) {
	n := int64(0)
	d, err := field.Parse(field.Int, field.WithDefaultFunc(func() any {
		n++
		return n
	}))
	require.NoError(t, err)

	// The constructor burned one invocation validating the default.
	assert.Equal(t, int64(2), d.Make())
	assert.Equal(t, int64(3), d.Make())
}

func TestKindDefaults(t *testing.T) {
	tests := []struct {
		spec any
		def  any
	}{
		{spec: field.Bool, def: false},
		{spec: field.Text, def: ""},
		{spec: field.Int, def: int64(0)},
		{spec: field.Float, def: float64(0)},
		{spec: field.Binary, def: []byte{}},
		{spec: field.ObjectID, def: nil},
		{spec: field.UUID, def: nil},
		{spec: []any{field.Int}, def: []any{}},
		{spec: map[any]any{}, def: map[string]any{}},
		{spec: []any{field.Text, field.Int}, def: []any{"", int64(0)}},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
			d, err := field.Parse(test.spec)
			require.NoError(t, err)
			assert.Equal(t, test.def, d.Make())
			assert.False(t, d.HasDefault())
		})
	}
}

func TestSetOfBinaryElements(t *testing.T) {
	d, err := field.Parse(field.SetOf(field.Binary))
	require.NoError(t, err)

	// Byte strings key by content, so duplicates collapse to one element.
	set := field.NewSet([]byte("blob"), []byte("blob"))
	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Contains([]byte("blob")))
	require.NoError(t, d.Validate(set))

	collapsed, err := d.Collapse(set)
	require.NoError(t, err)
	assert.Equal(t, []any{field.Bytes("blob")}, collapsed)

	expanded, err := d.Expand(collapsed)
	require.NoError(t, err)
	back := expanded.(field.Set)
	assert.Equal(t, 1, back.Len())
	assert.True(t, back.Contains([]byte("blob")))
	assert.True(t, back.Remove([]byte("blob")))
	assert.Equal(t, 0, back.Len())
}

func TestFixedListCollapseChecksArity(t *testing.T) {
	d, err := field.Parse([]any{field.Text, field.Int})
	require.NoError(t, err)

	for i, value := range []any{
		[]any{"too short"},
		[]any{"too long", int64(1), int64(2)},
	} {
		t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
			_, err := d.Collapse(value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, field.ErrTypeMismatch), "got %v", err)
		})
	}
}

func TestSetCollapseIsDeterministic(t *testing.T) {
	d, err := field.Parse(field.SetOf(field.Text))
	require.NoError(t, err)

	set := field.NewSet("c", "a", "b")
	for i := 0; i < 10; i++ {
		collapsed, err := d.Collapse(set)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b", "c"}, collapsed)
	}
}
