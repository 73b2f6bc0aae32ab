package document

import (
	"fmt"

	"docmapper/errors"
	"docmapper/field"
	"docmapper/schema"
	"docmapper/store"
)

// Document is one entity instance: the current application-facing values,
// the set of field names changed since the last load, and the pending
// update fragments queued for the next save.
type Document struct {
	typ *Type

	// attrs maps canonical field names to expanded values.
	attrs map[string]any
	// dirty holds canonical names of fields to synthesize $set from.
	dirty map[string]struct{}
	// ops maps operator name to storage field name to collapsed operand.
	ops map[string]map[string]any

	live bool
}

func newDocument(t *Type) *Document {
	return &Document{
		typ:   t,
		attrs: map[string]any{},
		dirty: map[string]struct{}{},
		ops:   map[string]map[string]any{},
		live:  true,
	}
}

// Type returns the entity type the document belongs to.
func (d *Document) Type() *Type { return d.typ }

// load replaces the document's state from a stored document: present fields
// are expanded, absent fields with configured defaults are materialized (and
// marked dirty, so they persist on the next save), everything else is left
// unset. Dirty and pending state from before the load is discarded.
func (d *Document) load(storage store.Doc) error {
	s := d.typ.schema

	attrs := map[string]any{}
	dirty := map[string]struct{}{}

	for _, name := range s.FieldNames() {
		desc, _ := s.Field(name)

		stored, ok := storage[s.LongToShort(name)]
		if !ok {
			if desc.HasDefault() {
				attrs[name] = desc.Make()
				dirty[name] = struct{}{}
			}
			continue
		}

		value, err := desc.Expand(stored)
		if err != nil {
			return errors.WithMessage(err, "loading "+s.Name())
		}
		attrs[name] = value
	}

	d.attrs = attrs
	d.dirty = dirty
	d.ops = map[string]map[string]any{}
	return nil
}

// Discard invalidates the document. Further mutation through the document or
// any container wrapper obtained from it fails with ErrStaleContainer.
func (d *Document) Discard() {
	d.live = false
	d.attrs = map[string]any{}
	d.dirty = map[string]struct{}{}
	d.ops = map[string]map[string]any{}
}

// descriptor resolves a canonical field name, failing with ErrUnknownField.
func (d *Document) descriptor(name string) (*field.Descriptor, error) {
	desc, ok := d.typ.schema.Field(name)
	if !ok {
		return nil, errors.Newf(ErrUnknownField,
			"%s has no field %q", d.typ.schema.Name(), name)
	}
	return desc, nil
}

// Has reports whether the field currently holds a value.
func (d *Document) Has(name string) bool {
	_, ok := d.attrs[name]
	return ok
}

// Identity returns the expanded identity value and whether one is assigned.
func (d *Document) Identity() (any, bool) {
	id, ok := d.attrs[schema.IdentityField]
	return id, ok
}

// Get returns the field's current expanded value. Container-kind fields
// return a fresh change-tracking wrapper (a live view, so wrappers from two
// reads are interchangeable); an unset field reads as the descriptor's
// default without materializing it.
func (d *Document) Get(name string) (any, error) {
	desc, err := d.descriptor(name)
	if err != nil {
		return nil, err
	}

	switch desc.Kind {
	case field.KindList, field.KindFixedList:
		return &List{container{doc: d, name: name, desc: desc}}, nil
	case field.KindMap:
		return &Map{container{doc: d, name: name, desc: desc}}, nil
	case field.KindSet:
		return &Set{container{doc: d, name: name, desc: desc}}, nil
	}

	if value, ok := d.attrs[name]; ok {
		return value, nil
	}
	return desc.Make(), nil
}

// Assign is typed assignment: it enforces the read-only and write-once
// flags, validates the value against the field descriptor, and then sets it.
func (d *Document) Assign(name string, value any) error {
	desc, err := d.descriptor(name)
	if err != nil {
		return err
	}
	if desc.ReadOnly() {
		return errors.Newf(ErrReadOnly, "field %q of %s is read-only", name, d.typ.schema.Name())
	}
	if desc.WriteOnce() && d.Has(name) {
		return errors.Newf(ErrAlreadySet, "field %q of %s is write-once and already set", name, d.typ.schema.Name())
	}
	if value != nil {
		if err := desc.Validate(value); err != nil {
			return err
		}
	}
	return d.Set(name, value)
}

// Set overwrites the field's value and marks it dirty, so the next save
// includes it in the synthesized $set. A nil value behaves as Unset. No type
// validation happens at this layer; Assign is the validating entry point.
func (d *Document) Set(name string, value any) error {
	if value == nil {
		return d.Unset(name)
	}

	desc, err := d.descriptor(name)
	if err != nil {
		return err
	}
	if !d.live {
		return errors.Newf(ErrStaleContainer, "document %s was discarded", d.typ.schema.Name())
	}
	if desc.Name == schema.IdentityField && d.Has(name) {
		return errors.Newf(ErrAlreadySet, "identity of %s is already assigned", d.typ.schema.Name())
	}

	// Last writer wins: a set after an unset cancels the pending removal.
	short := d.typ.schema.LongToShort(name)
	if unsets, ok := d.ops["$unset"]; ok {
		delete(unsets, short)
		if len(unsets) == 0 {
			delete(d.ops, "$unset")
		}
	}

	d.attrs[name] = value
	d.dirty[name] = struct{}{}
	return nil
}

// Unset removes the field's value and queues a $unset for the next save.
// A preceding set in the same pending cycle is cancelled: removal takes
// precedence, so the field drops out of the synthesized $set.
func (d *Document) Unset(name string) error {
	if err := d.AddOperation("$unset", name, 1); err != nil {
		return err
	}
	delete(d.attrs, name)
	delete(d.dirty, name)
	return nil
}

// Collapse converts the document's current values to their storage form
// under short field names. This is the mapping a nested-document field
// stores; it ignores dirty and pending state.
func (d *Document) Collapse() (store.Doc, error) {
	s := d.typ.schema

	out := store.Doc{}
	for name, value := range d.attrs {
		desc, ok := s.Field(name)
		if !ok {
			continue
		}
		collapsed, err := desc.Collapse(value)
		if err != nil {
			return nil, errors.WithMessage(err, "collapsing "+s.Name())
		}
		out[s.LongToShort(name)] = collapsed
	}
	return out, nil
}

// String implements fmt.Stringer for logging.
func (d *Document) String() string {
	id, ok := d.Identity()
	if !ok {
		return fmt.Sprintf("%s(unsaved)", d.typ.schema.Name())
	}
	return fmt.Sprintf("%s(%v)", d.typ.schema.Name(), id)
}
