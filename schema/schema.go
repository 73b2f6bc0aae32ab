package schema

import (
	"strings"

	"docmapper/errors"
	"docmapper/field"
	"docmapper/internal/common"
)

const (
	// ErrDuplicateField reports a field declared with conflicting
	// descriptors by two base types, or a short name claimed twice.
	ErrDuplicateField errors.Code = "DuplicateField"
)

// IdentityField is the canonical name of the field that addresses a document
// in its collection.
const IdentityField = "_id"

// Def is a declarative entity type definition, the input to Build.
type Def struct {
	// Name of the entity type.
	Name string
	// Connection, Database and Collection locate the type's documents in
	// the store. Collection defaults to the lowercased type name.
	Connection string
	Database   string
	Collection string

	// Fields maps canonical field names to mini-language field specs.
	Fields map[string]any
	// ShortNames maps canonical field names to shortened storage names.
	ShortNames map[string]string
	// Defaults maps canonical field names to default values (or func() any
	// producers), materialized when a loaded document lacks the field.
	Defaults map[string]any
	// Required, WriteOnce and ReadOnly list field names with the
	// corresponding behavior flags.
	Required  []string
	WriteOnce []string
	ReadOnly  []string

	// Bases are the schemas this definition inherits from, in declaration
	// order.
	Bases []*Schema
}

// Schema is a compiled entity type: an ordered field table plus the lookup
// structures derived from it. Immutable after Build.
type Schema struct {
	name       string
	connection string
	database   string
	collection string

	fields map[string]*field.Descriptor
	order  []string

	longToShort map[string]string
	shortToLong map[string]string

	required  map[string]struct{}
	writeOnce map[string]struct{}

	// Raw declaration entries retained for inheritance merging.
	rawFields   map[string]any
	rawShorts   map[string]string
	rawDefaults map[string]any
	readOnly    map[string]struct{}
}

// Name returns the entity type name.
func (s *Schema) Name() string { return s.name }

// Connection returns the logical connection name, empty for the default.
func (s *Schema) Connection() string { return s.connection }

// Database returns the database name.
func (s *Schema) Database() string { return s.database }

// Collection returns the collection name.
func (s *Schema) Collection() string { return s.collection }

// Field returns the descriptor for the canonical field name.
func (s *Schema) Field(name string) (*field.Descriptor, bool) {
	d, ok := s.fields[name]
	return d, ok
}

// FieldNames returns all canonical field names in deterministic order.
func (s *Schema) FieldNames() []string {
	return append([]string(nil), s.order...)
}

// LongToShort returns the shortened storage name for a canonical field name,
// falling back to the input when no short name is declared.
func (s *Schema) LongToShort(long string) string {
	if short, ok := s.longToShort[long]; ok {
		return short
	}
	return long
}

// ShortToLong returns the canonical field name for a storage name, falling
// back to the input when no mapping is declared.
func (s *Schema) ShortToLong(short string) string {
	if long, ok := s.shortToLong[short]; ok {
		return long
	}
	return short
}

// Required returns the names of required fields in deterministic order.
func (s *Schema) Required() []string {
	return common.SortedKeys(s.required)
}

// IsRequired reports whether the named field must be present before save.
func (s *Schema) IsRequired(name string) bool {
	_, ok := s.required[name]
	return ok
}

// MissingRequired returns the required field names absent from has.
func (s *Schema) MissingRequired(has func(name string) bool) []string {
	var missing []string
	for _, name := range s.Required() {
		if !has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// String implements fmt.Stringer for logging.
func (s *Schema) String() string {
	return "schema(" + s.name + "){" + strings.Join(s.order, ", ") + "}"
}
