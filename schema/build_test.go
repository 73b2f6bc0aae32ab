package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/errors"
	"docmapper/field"
	"docmapper/schema"
)

func TestBuildBasic(t *testing.T) {
	s, err := schema.Build(schema.Def{
		Name:     "Counter",
		Database: "app",
		Fields: map[string]any{
			"name": field.Text,
			"seq":  field.Int,
		},
		Required: []string{"name"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Counter", s.Name())
	assert.Equal(t, "counter", s.Collection())
	assert.Equal(t, "app", s.Database())
	assert.Equal(t, []string{"_id", "name", "seq"}, s.FieldNames())
	assert.Equal(t, []string{"name"}, s.Required())

	name, ok := s.Field("name")
	require.True(t, ok)
	assert.Equal(t, field.KindText, name.Kind)
	assert.True(t, name.Required())

	// The identity field is injected and read-only.
	id, ok := s.Field(schema.IdentityField)
	require.True(t, ok)
	assert.Equal(t, field.KindObjectID, id.Kind)
	assert.True(t, id.ReadOnly())
}

func TestBuildShortNames(t *testing.T) {
	s, err := schema.Build(schema.Def{
		Name:   "User",
		Fields: map[string]any{"display_name": field.Text, "age": field.Int},
		ShortNames: map[string]string{
			"display_name": "dn",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "dn", s.LongToShort("display_name"))
	assert.Equal(t, "display_name", s.ShortToLong("dn"))
	// No mapping declared: both directions fall through.
	assert.Equal(t, "age", s.LongToShort("age"))
	assert.Equal(t, "age", s.ShortToLong("age"))
}

func TestBuildShortNameCollision(t *testing.T) {
	_, err := schema.Build(schema.Def{
		Name:   "User",
		Fields: map[string]any{"first": field.Text, "second": field.Text},
		ShortNames: map[string]string{
			"first":  "x",
			"second": "x",
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrDuplicateField))
}

func TestBuildUnparseableSpecFailsFast(t *testing.T) {
	_, err := schema.Build(schema.Def{
		Name: "Broken",
		Fields: map[string]any{
			"good": field.Text,
			"bad":  "not a spec",
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, field.ErrUnparseableFieldSpec))
}

func TestBuildReportsEveryProblem(t *testing.T) {
	_, err := schema.Build(schema.Def{
		Name: "Broken",
		Fields: map[string]any{
			"bad":     "not a spec",
			"baddef":  field.Int,
			"missing": field.Text,
		},
		Defaults: map[string]any{"baddef": "seven", "ghost": 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, field.ErrUnparseableFieldSpec))
	assert.True(t, errors.Is(err, field.ErrTypeMismatch))
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuildInheritance(t *testing.T) {
	base := schema.MustBuild(schema.Def{
		Name:     "Base",
		Database: "app",
		Fields:   map[string]any{"created": field.Time, "owner": field.Text},
		Required: []string{"owner"},
		Defaults: map[string]any{"owner": "nobody"},
		ShortNames: map[string]string{
			"created": "c",
		},
	})

	s, err := schema.Build(schema.Def{
		Name:      "Note",
		Fields:    map[string]any{"body": field.Text},
		Required:  []string{"body"},
		WriteOnce: []string{"created"},
		Bases:     []*schema.Schema{base},
	})
	require.NoError(t, err)

	// Inherited entries are merged underneath the subtype's own.
	assert.Equal(t, []string{"_id", "body", "created", "owner"}, s.FieldNames())
	assert.Equal(t, "c", s.LongToShort("created"))
	assert.Equal(t, []string{"body", "owner"}, s.Required())
	assert.Equal(t, "app", s.Database())
	assert.Equal(t, "note", s.Collection())

	created, ok := s.Field("created")
	require.True(t, ok)
	assert.True(t, created.WriteOnce())

	owner, ok := s.Field("owner")
	require.True(t, ok)
	assert.True(t, owner.HasDefault())
	assert.Equal(t, "nobody", owner.Make())
}

func TestBuildDiamondCollision(t *testing.T) {
	left := schema.MustBuild(schema.Def{
		Name:   "Left",
		Fields: map[string]any{"shared": field.Text},
	})
	right := schema.MustBuild(schema.Def{
		Name:   "Right",
		Fields: map[string]any{"shared": field.Int},
	})

	_, err := schema.Build(schema.Def{
		Name:  "Child",
		Bases: []*schema.Schema{left, right},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrDuplicateField))
}

func TestBuildDiamondIdenticalSpecTolerated(t *testing.T) {
	left := schema.MustBuild(schema.Def{
		Name:   "Left",
		Fields: map[string]any{"shared": field.Text},
	})
	right := schema.MustBuild(schema.Def{
		Name:   "Right",
		Fields: map[string]any{"shared": field.Text},
	})

	s, err := schema.Build(schema.Def{
		Name:  "Child",
		Bases: []*schema.Schema{left, right},
	})
	require.NoError(t, err)
	_, ok := s.Field("shared")
	assert.True(t, ok)
}

func TestBuildIdentityInheritedUntouched(t *testing.T) {
	base := schema.MustBuild(schema.Def{Name: "Base"})

	s, err := schema.Build(schema.Def{
		Name:   "Child",
		Fields: map[string]any{"_id": field.Text}, // ignored
		Bases:  []*schema.Schema{base},
	})
	require.NoError(t, err)

	id, ok := s.Field(schema.IdentityField)
	require.True(t, ok)
	assert.Equal(t, field.KindObjectID, id.Kind)
}

func TestMissingRequired(t *testing.T) {
	s := schema.MustBuild(schema.Def{
		Name:     "Doc",
		Fields:   map[string]any{"a": field.Text, "b": field.Int},
		Required: []string{"a", "b"},
	})

	present := map[string]bool{"b": true}
	missing := s.MissingRequired(func(name string) bool { return present[name] })
	assert.Equal(t, []string{"a"}, missing)
}
