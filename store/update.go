package store

import (
	"reflect"

	"docmapper/errors"
	"docmapper/field"
)

// applyUpdate applies an update operator document to doc in place. The
// operator set matches what the operation compiler emits; anything else is a
// persistence error, like a server rejecting an unknown operator.
func applyUpdate(doc Doc, update Update) error {
	for op, fields := range update {
		for key, operand := range fields {
			if err := applyOp(doc, op, key, operand); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyOp(doc Doc, op, key string, operand any) error {
	switch op {
	case "$set":
		doc[key] = copyValue(operand)

	case "$unset":
		delete(doc, key)

	case "$inc":
		return applyInc(doc, key, operand)

	case "$addToSet":
		return applyAddToSet(doc, key, operand)

	case "$pushAll":
		values, ok := operand.([]any)
		if !ok {
			return errors.Newf(ErrPersistence, "$pushAll operand for %q must be a list, not %T", key, operand)
		}
		existing, err := listValue(doc, key, "$pushAll")
		if err != nil {
			return err
		}
		doc[key] = append(existing, copyValue(values).([]any)...)

	case "$pullAll":
		values, ok := operand.([]any)
		if !ok {
			return errors.Newf(ErrPersistence, "$pullAll operand for %q must be a list, not %T", key, operand)
		}
		existing, err := listValue(doc, key, "$pullAll")
		if err != nil {
			return err
		}
		var kept []any
		for _, item := range existing {
			if !containsValue(values, item) {
				kept = append(kept, item)
			}
		}
		if kept == nil {
			kept = []any{}
		}
		doc[key] = kept

	default:
		return errors.Newf(ErrPersistence, "unsupported update operator %q", op)
	}

	return nil
}

func applyInc(doc Doc, key string, operand any) error {
	switch delta := operand.(type) {
	case int64:
		switch cur := doc[key].(type) {
		case nil:
			doc[key] = delta
		case int64:
			doc[key] = cur + delta
		case float64:
			doc[key] = cur + float64(delta)
		default:
			return errors.Newf(ErrPersistence, "$inc target %q holds non-numeric %T", key, cur)
		}
	case float64:
		switch cur := doc[key].(type) {
		case nil:
			doc[key] = delta
		case int64:
			doc[key] = float64(cur) + delta
		case float64:
			doc[key] = cur + delta
		default:
			return errors.Newf(ErrPersistence, "$inc target %q holds non-numeric %T", key, cur)
		}
	default:
		return errors.Newf(ErrPersistence, "$inc operand for %q must be numeric, not %T", key, operand)
	}
	return nil
}

func applyAddToSet(doc Doc, key string, operand any) error {
	wrapper, ok := operand.(map[string]any)
	if !ok {
		return errors.Newf(ErrPersistence, "$addToSet operand for %q must use $each, not %T", key, operand)
	}
	values, ok := wrapper["$each"].([]any)
	if !ok {
		return errors.Newf(ErrPersistence, "$addToSet operand for %q must use $each", key)
	}

	existing, err := listValue(doc, key, "$addToSet")
	if err != nil {
		return err
	}
	for _, item := range values {
		if !containsValue(existing, item) {
			existing = append(existing, copyValue(item))
		}
	}
	doc[key] = existing
	return nil
}

func listValue(doc Doc, key, op string) ([]any, error) {
	switch cur := doc[key].(type) {
	case nil:
		return []any{}, nil
	case []any:
		return cur, nil
	default:
		return nil, errors.Newf(ErrPersistence, "%s target %q holds non-list %T", op, key, cur)
	}
}

func containsValue(items []any, want any) bool {
	for _, item := range items {
		if reflect.DeepEqual(item, want) {
			return true
		}
	}
	return false
}

// copyDoc deep-copies a storage document so callers never alias collection
// state.
func copyDoc(doc Doc) Doc {
	return copyValue(doc).(Doc)
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out
	case field.Bytes:
		out := make(field.Bytes, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
