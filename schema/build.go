package schema

import (
	"reflect"
	"strings"

	"github.com/golang/glog"

	"docmapper/errors"
	"docmapper/field"
	"docmapper/internal/common"
	"docmapper/internal/diagnostic"
)

// Build compiles a definition into a Schema. It merges base schemas per the
// inheritance rules, parses every field spec, and fails at definition time
// with every problem it found rather than stopping at the first.
func Build(def Def) (*Schema, error) {
	var diag diagnostic.Diagnostics

	if def.Name == "" {
		diag.AddError("MissingName", "", "", "entity type definitions need a name")
	}

	s := &Schema{
		name:        def.Name,
		connection:  def.Connection,
		database:    def.Database,
		collection:  def.Collection,
		fields:      map[string]*field.Descriptor{},
		longToShort: map[string]string{},
		shortToLong: map[string]string{},
		required:    map[string]struct{}{},
		writeOnce:   map[string]struct{}{},
		readOnly:    map[string]struct{}{},
		rawFields:   map[string]any{},
		rawShorts:   map[string]string{},
		rawDefaults: map[string]any{},
	}

	mergeBases(s, def, &diag)
	applyOwnEntries(s, def, &diag)
	injectIdentity(s)
	compileFields(s, def.Name, &diag)
	buildShortNames(s, def.Name, &diag)

	if s.collection == "" {
		s.collection = strings.ToLower(def.Name)
	}

	if diag.HasErrors() {
		return nil, errors.WithMessage(diag.Error(), "entity type "+def.Name)
	}
	for _, w := range diag.Warnings {
		glog.Warningf("entity type %s: %s", def.Name, w)
	}

	s.order = common.SortedKeys(s.fields)
	return s, nil
}

// MustBuild is Build for statically known definitions; it panics on error.
func MustBuild(def Def) *Schema {
	s, err := Build(def)
	if err != nil {
		panic(err)
	}
	return s
}

// mergeBases unions the base schemas' raw entries into s. A field declared by
// two different bases with different specs is a diamond collision; the
// identity field is exempt since every schema carries the same inherited one.
func mergeBases(s *Schema, def Def, diag *diagnostic.Diagnostics) {
	for _, base := range def.Bases {
		for name, spec := range base.rawFields {
			existing, ok := s.rawFields[name]
			if ok && name != IdentityField && !reflect.DeepEqual(existing, spec) {
				diag.AddErrorWrap(
					errors.Newf(ErrDuplicateField,
						"field %q inherited from %q collides with an earlier base", name, base.name),
					string(ErrDuplicateField), def.Name, name)
				continue
			}
			s.rawFields[name] = spec
		}

		for name, short := range base.rawShorts {
			existing, ok := s.rawShorts[name]
			if ok && existing != short {
				diag.AddErrorWrap(
					errors.Newf(ErrDuplicateField,
						"short name for %q inherited from %q collides with an earlier base", name, base.name),
					string(ErrDuplicateField), def.Name, name)
				continue
			}
			s.rawShorts[name] = short
		}

		for name, value := range base.rawDefaults {
			existing, ok := s.rawDefaults[name]
			if ok && !reflect.DeepEqual(existing, value) {
				diag.AddErrorWrap(
					errors.Newf(ErrDuplicateField,
						"default for %q inherited from %q collides with an earlier base", name, base.name),
					string(ErrDuplicateField), def.Name, name)
				continue
			}
			s.rawDefaults[name] = value
		}

		for name := range base.required {
			s.required[name] = struct{}{}
		}
		for name := range base.writeOnce {
			s.writeOnce[name] = struct{}{}
		}
		for name := range base.readOnly {
			s.readOnly[name] = struct{}{}
		}

		if s.connection == "" {
			s.connection = base.connection
		}
		if s.database == "" {
			s.database = base.database
		}
	}
}

// applyOwnEntries overlays the definition's own entries on the merged base
// entries. The subtype wins, except for the identity field which is inherited
// untouched.
func applyOwnEntries(s *Schema, def Def, diag *diagnostic.Diagnostics) {
	for name, spec := range def.Fields {
		if _, inherited := s.rawFields[name]; inherited {
			if name == IdentityField {
				diag.AddWarning("IdentityOverride", def.Name, name,
					"the identity field is inherited untouched; own spec ignored")
				continue
			}
			diag.AddWarning("FieldOverride", def.Name, name,
				"overrides a field inherited from a base type")
		}
		s.rawFields[name] = spec
	}

	for name, short := range def.ShortNames {
		s.rawShorts[name] = short
	}
	for name, value := range def.Defaults {
		s.rawDefaults[name] = value
	}

	for _, name := range def.Required {
		s.required[name] = struct{}{}
	}
	for _, name := range def.WriteOnce {
		s.writeOnce[name] = struct{}{}
	}
	for _, name := range def.ReadOnly {
		s.readOnly[name] = struct{}{}
	}
}

// injectIdentity adds the built-in identity field to root definitions.
func injectIdentity(s *Schema) {
	if _, ok := s.rawFields[IdentityField]; !ok {
		s.rawFields[IdentityField] = field.ObjectID
		s.readOnly[IdentityField] = struct{}{}
	}
}

// compileFields parses every raw field spec into a descriptor, folding the
// required/write-once/read-only sets and the default table into the
// descriptor's flags and default producer.
func compileFields(s *Schema, entity string, diag *diagnostic.Diagnostics) {
	for name, spec := range s.rawFields {
		opts := []field.Option{field.WithName(name), field.WithFlags(s.flagsFor(name))}

		if value, ok := s.rawDefaults[name]; ok {
			if fn, isFn := value.(func() any); isFn {
				opts = append(opts, field.WithDefaultFunc(fn))
			} else {
				opts = append(opts, field.WithDefault(value))
			}
		}

		d, err := field.Parse(spec, opts...)
		if err != nil {
			diag.AddErrorWrap(err, string(errors.CodeOf(err)), entity, name)
			continue
		}
		s.fields[name] = d
	}

	for name := range s.required {
		if _, ok := s.rawFields[name]; !ok {
			diag.AddError("UnknownField", entity, name, "required field is not declared")
		}
	}
	for name := range s.rawDefaults {
		if _, ok := s.rawFields[name]; !ok {
			diag.AddError("UnknownField", entity, name, "default declared for an undeclared field")
		}
	}
}

// buildShortNames derives the bidirectional storage-name mapping, rejecting a
// short name claimed by two different fields.
func buildShortNames(s *Schema, entity string, diag *diagnostic.Diagnostics) {
	for _, name := range common.SortedKeys(s.rawShorts) {
		short := s.rawShorts[name]

		if _, ok := s.rawFields[name]; !ok {
			diag.AddError("UnknownField", entity, name, "short name declared for an undeclared field")
			continue
		}
		if claimed, ok := s.shortToLong[short]; ok && claimed != name {
			diag.AddErrorWrap(
				errors.Newf(ErrDuplicateField,
					"short name %q claimed by both %q and %q", short, claimed, name),
				string(ErrDuplicateField), entity, name)
			continue
		}
		s.longToShort[name] = short
		s.shortToLong[short] = name
	}
}

func (s *Schema) flagsFor(name string) field.Flag {
	flags := field.FlagNone
	if _, ok := s.required[name]; ok {
		flags |= field.FlagRequired
	}
	if _, ok := s.writeOnce[name]; ok {
		flags |= field.FlagWriteOnce
	}
	if _, ok := s.readOnly[name]; ok {
		flags |= field.FlagReadOnly
	}
	return flags
}
