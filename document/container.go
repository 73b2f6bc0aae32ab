package document

import (
	"docmapper/errors"
	"docmapper/field"
)

// container is the shared core of the change-tracking wrappers: a live,
// non-owning view of one container-kind field. It holds no value of its
// own; every operation reads the current value through the document and
// writes the mutated value back, so wrappers from separate reads of the
// same field stay interchangeable.
type container struct {
	doc  *Document
	name string
	desc *field.Descriptor
}

// Name returns the wrapped field's canonical name.
func (c *container) Name() string { return c.name }

func (c *container) value() (any, error) {
	if !c.doc.live {
		return nil, errors.Newf(ErrStaleContainer,
			"container for %q outlived its discarded document", c.name)
	}
	if value, ok := c.doc.attrs[c.name]; ok {
		return value, nil
	}
	return c.desc.Make(), nil
}

// commit writes a mutated value back, marking the field dirty. This is the
// notify step of mutate-then-notify; no explicit set call is needed at the
// call site.
func (c *container) commit(value any) error {
	return c.doc.Set(c.name, value)
}

func (c *container) list() ([]any, error) {
	value, err := c.value()
	if err != nil {
		return nil, err
	}
	items, ok := value.([]any)
	if !ok {
		return nil, errors.Newf(field.ErrTypeMismatch,
			"field %q holds %T where a list is expected", c.name, value)
	}
	return items, nil
}

func (c *container) mapping() (map[string]any, error) {
	value, err := c.value()
	if err != nil {
		return nil, err
	}
	items, ok := value.(map[string]any)
	if !ok {
		return nil, errors.Newf(field.ErrTypeMismatch,
			"field %q holds %T where a mapping is expected", c.name, value)
	}
	return items, nil
}

func (c *container) set() (field.Set, error) {
	value, err := c.value()
	if err != nil {
		return nil, err
	}
	items, ok := value.(field.Set)
	if !ok {
		return nil, errors.Newf(field.ErrTypeMismatch,
			"field %q holds %T where a set is expected", c.name, value)
	}
	return items, nil
}
