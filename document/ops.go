package document

import (
	"docmapper/errors"
	"docmapper/field"
	"docmapper/store"
)

// AddOperation queues an update fragment for the next save. The field must
// be declared by the schema; the operand is collapsed to storage form before
// it is stored, keyed under the field's short storage name. Fragments for
// the same field merge per operator: $inc operands sum, $addToSet grows one
// $each list, $pushAll and $pullAll append to their operand lists, anything
// else overwrites. Queuing $set directly fails with ErrInvalidOperator; it
// is synthesized from dirty fields at Operations time.
func (d *Document) AddOperation(op, name string, value any) error {
	if op == "$set" {
		return errors.New(ErrInvalidOperator, "$set is synthesized from dirty fields, not queued directly")
	}
	if !d.live {
		return errors.Newf(ErrStaleContainer, "document %s was discarded", d.typ.schema.Name())
	}

	desc, err := d.descriptor(name)
	if err != nil {
		return err
	}
	operand, err := collapseOperand(desc, op, value)
	if err != nil {
		return err
	}

	fields, ok := d.ops[op]
	if !ok {
		fields = map[string]any{}
		d.ops[op] = fields
	}

	short := d.typ.schema.LongToShort(name)
	merged, err := mergeOperand(op, fields[short], operand)
	if err != nil {
		return errors.WithMessage(err, "field "+name)
	}
	fields[short] = merged
	return nil
}

// Inc queues an increment of the field by delta.
func (d *Document) Inc(name string, delta int64) error {
	return d.AddOperation("$inc", name, delta)
}

// Dec queues a decrement of the field by delta.
func (d *Document) Dec(name string, delta int64) error {
	return d.AddOperation("$inc", name, -delta)
}

// AddToSet queues adding value to the field's stored set. Repeated calls
// grow the same $each operand list.
func (d *Document) AddToSet(name string, value any) error {
	return d.AddOperation("$addToSet", name, value)
}

// Append queues pushing values onto the end of the field's stored list.
func (d *Document) Append(name string, values ...any) error {
	return d.AddOperation("$pushAll", name, values)
}

// RemoveAll queues removing every occurrence of each value from the field's
// stored list.
func (d *Document) RemoveAll(name string, values ...any) error {
	return d.AddOperation("$pullAll", name, values)
}

// Operations compiles the pending state into one update operator document:
// a $set built from every dirty field's collapsed value, merged with the
// queued fragments. Empty fragments are omitted; an empty result means
// there is nothing to save. The pending state itself is left untouched.
func (d *Document) Operations() (store.Update, error) {
	s := d.typ.schema

	update := store.Update{}

	set := map[string]any{}
	for name := range d.dirty {
		desc, ok := s.Field(name)
		if !ok {
			continue
		}
		collapsed, err := desc.Collapse(d.attrs[name])
		if err != nil {
			return nil, errors.WithMessage(err, "collapsing dirty field "+name)
		}
		set[s.LongToShort(name)] = collapsed
	}
	if len(set) > 0 {
		update["$set"] = set
	}

	for op, fields := range d.ops {
		if len(fields) == 0 {
			continue
		}
		out := make(map[string]any, len(fields))
		for short, operand := range fields {
			out[short] = cloneValue(operand)
		}
		update[op] = out
	}

	return update, nil
}

// ClearOps drops the dirty set and every queued fragment, leaving the
// current attribute values in place.
func (d *Document) ClearOps() {
	d.dirty = map[string]struct{}{}
	d.ops = map[string]map[string]any{}
}

// collapseOperand converts an operand to its storage form. Element-wise
// operators collapse through the field's element descriptor; $unset keeps
// its literal operand.
func collapseOperand(desc *field.Descriptor, op string, value any) (any, error) {
	switch op {
	case "$unset":
		return value, nil

	case "$addToSet":
		return collapseElem(desc, value)

	case "$pushAll", "$pullAll":
		values, ok := value.([]any)
		if !ok {
			return nil, errors.Newf(field.ErrTypeMismatch,
				"field %s: %s takes a list of values, not %T", desc.Name, op, value)
		}
		out := make([]any, len(values))
		for i, item := range values {
			collapsed, err := collapseElem(desc, item)
			if err != nil {
				return nil, err
			}
			out[i] = collapsed
		}
		return out, nil

	default:
		return desc.Collapse(value)
	}
}

// collapseElem collapses one element of a container field, falling back to
// the field's own descriptor when it declares no element descriptor.
func collapseElem(desc *field.Descriptor, value any) (any, error) {
	if desc.Elem != nil {
		return desc.Elem.Collapse(value)
	}
	return desc.Collapse(value)
}

// mergeOperand folds a new collapsed operand into the one already queued
// for the same operator and field.
func mergeOperand(op string, existing, operand any) (any, error) {
	if existing == nil {
		switch op {
		case "$addToSet":
			return map[string]any{"$each": []any{operand}}, nil
		default:
			return operand, nil
		}
	}

	switch op {
	case "$inc":
		return sumOperands(existing, operand)

	case "$addToSet":
		wrapper := existing.(map[string]any)
		wrapper["$each"] = append(wrapper["$each"].([]any), operand)
		return wrapper, nil

	case "$pushAll", "$pullAll":
		return append(existing.([]any), operand.([]any)...), nil

	default:
		return operand, nil
	}
}

// sumOperands accumulates $inc deltas: multiple increments of the same
// field before a save produce one summed operand, never repeated operator
// entries.
func sumOperands(existing, operand any) (any, error) {
	switch a := existing.(type) {
	case int64:
		switch b := operand.(type) {
		case int64:
			return a + b, nil
		case float64:
			return float64(a) + b, nil
		}
	case float64:
		switch b := operand.(type) {
		case int64:
			return a + float64(b), nil
		case float64:
			return a + b, nil
		}
	}
	return nil, errors.Newf(field.ErrTypeMismatch,
		"$inc operands must be numeric, have %T and %T", existing, operand)
}

// cloneValue deep-copies operand containers so compiled update documents
// never alias the pending-operation table.
func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case field.Bytes:
		out := make(field.Bytes, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
