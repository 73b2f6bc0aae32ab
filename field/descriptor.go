package field

import (
	"docmapper/errors"
)

const (
	// ErrTypeMismatch reports a value that does not validate against its
	// field descriptor.
	ErrTypeMismatch errors.Code = "TypeMismatch"
	// ErrUnparseableFieldSpec reports a mini-language object no kind parser
	// recognized.
	ErrUnparseableFieldSpec errors.Code = "UnparseableFieldSpec"
)

// Bytes is the storage-facing marker for byte-string values. Collapsing a
// []byte wraps it in Bytes; expanding unwraps it back to []byte.
type Bytes []byte

// DocumentType is the hook through which a nested-document descriptor reaches
// the entity type it embeds, without this package depending on the document
// entity implementation.
type DocumentType interface {
	// TypeName returns the declared entity type name.
	TypeName() string
	// ValidateDocument reports whether value is an instance of this entity type.
	ValidateDocument(value any) error
	// CollapseDocument converts an entity instance to its storage mapping.
	CollapseDocument(value any) (map[string]any, error)
	// ExpandDocument builds an entity instance from a storage mapping.
	ExpandDocument(storage map[string]any) (any, error)
}

// Descriptor describes one document field: the values it accepts, its
// default, and the expanded/collapsed conversions. A descriptor is immutable
// once built.
type Descriptor struct {
	// Name is the canonical field name.
	Name string
	// Kind selects the descriptor's variant.
	Kind KindEnum
	// Flags holds the required/read-only/write-once switches.
	Flags Flag

	// Elem is the element descriptor for list and set kinds.
	Elem *Descriptor
	// Elems are the per-position descriptors for the fixed-arity list kind.
	Elems []*Descriptor
	// Key and Value are the sub-descriptors for the mapping kind.
	Key   *Descriptor
	Value *Descriptor
	// Doc is the embedded entity type for the nested-document kind.
	Doc DocumentType

	defaultValue any
	defaultFn    func() any
	hasDefault   bool
}

// Required reports whether the field must be present before save.
func (d *Descriptor) Required() bool { return d.Flags.Has(FlagRequired) }

// ReadOnly reports whether typed assignment to the field is rejected.
func (d *Descriptor) ReadOnly() bool { return d.Flags.Has(FlagReadOnly) }

// WriteOnce reports whether the field rejects assignment once set.
func (d *Descriptor) WriteOnce() bool { return d.Flags.Has(FlagWriteOnce) }

// HasDefault reports whether an explicit default was configured for the
// field. Kind defaults (empty string, zero int, empty list...) do not count:
// they are served on read but never materialized into a loaded document.
func (d *Descriptor) HasDefault() bool { return d.hasDefault }

// Make produces a default value for the field. Mutable defaults are deep
// copied per call so distinct documents never alias one another's values.
func (d *Descriptor) Make() any {
	if d.defaultFn != nil {
		return d.defaultFn()
	}
	if d.hasDefault {
		return deepCopy(d.defaultValue)
	}
	return d.kindDefault()
}

// kindDefault returns the zero-ish default for the descriptor's kind,
// mirroring what an absent field reads as.
func (d *Descriptor) kindDefault() any {
	switch d.Kind {
	case KindList:
		return []any{}
	case KindSet:
		return NewSet()
	case KindFixedList:
		out := make([]any, len(d.Elems))
		for i, elem := range d.Elems {
			out[i] = elem.Make()
		}
		return out
	case KindMap:
		return map[string]any{}
	case KindBool:
		return false
	case KindBinary:
		return []byte{}
	case KindText:
		return ""
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	default:
		// Any, Time zero value, ObjectID, Document, UUID: no value.
		return nil
	}
}

// Validate reports whether value is acceptable for this field. It fails with
// ErrTypeMismatch, naming the offending element for container kinds.
func (d *Descriptor) Validate(value any) error {
	switch d.Kind {
	case KindAny:
		return nil
	case KindList, KindSet, KindFixedList, KindMap:
		return d.validateContainer(value)
	case KindDocument:
		if value == nil {
			return nil
		}
		return d.Doc.ValidateDocument(value)
	default:
		return d.validateScalar(value)
	}
}

// Collapse transforms an application value into its storage form. The value
// must already have passed Validate.
func (d *Descriptor) Collapse(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch d.Kind {
	case KindList, KindSet, KindFixedList, KindMap:
		return d.collapseContainer(value)
	case KindDocument:
		return d.Doc.CollapseDocument(value)
	default:
		return d.collapseScalar(value)
	}
}

// Expand transforms a storage value back into its application form. It is the
// inverse of Collapse.
func (d *Descriptor) Expand(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch d.Kind {
	case KindList, KindSet, KindFixedList, KindMap:
		return d.expandContainer(value)
	case KindDocument:
		storage, ok := value.(map[string]any)
		if !ok {
			return nil, errors.Newf(ErrTypeMismatch,
				"field %s: stored document must be a mapping, not %T", d.Name, value)
		}
		return d.Doc.ExpandDocument(storage)
	default:
		return d.expandScalar(value)
	}
}

// checkDefault verifies the descriptor's own default passes Validate. Run
// once at definition time so a bad declaration fails before first use.
func (d *Descriptor) checkDefault() error {
	if err := d.Validate(d.Make()); err != nil {
		return errors.Wrapf(err, "field %s: default value does not validate", d.Name)
	}
	return nil
}

// deepCopy clones mutable default values. Scalars are immutable in both the
// expanded and collapsed models, so only containers and byte strings need
// copying.
func deepCopy(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = deepCopy(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = deepCopy(elem)
		}
		return out
	case Set:
		out := make(Set, len(v))
		for key, elem := range v {
			out[key] = deepCopy(elem)
		}
		return out
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out
	case Bytes:
		out := make(Bytes, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
