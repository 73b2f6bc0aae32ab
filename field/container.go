package field

import (
	"docmapper/errors"
)

// validateContainer implements Validate for the container kinds. Every
// element, key and value is validated recursively.
func (d *Descriptor) validateContainer(value any) error {
	switch d.Kind {
	case KindList:
		items, ok := value.([]any)
		if !ok {
			return d.mismatch(value, "[]any")
		}
		for _, item := range items {
			if err := d.Elem.Validate(item); err != nil {
				return err
			}
		}

	case KindSet:
		set, ok := value.(Set)
		if !ok {
			return d.mismatch(value, "field.Set")
		}
		for _, item := range set {
			if err := d.Elem.Validate(item); err != nil {
				return err
			}
		}

	case KindFixedList:
		items, ok := value.([]any)
		if !ok {
			return d.mismatch(value, "[]any")
		}
		if len(items) != len(d.Elems) {
			return errors.Newf(ErrTypeMismatch,
				"field %s: value must contain %d elements, not %d",
				d.Name, len(d.Elems), len(items))
		}
		for i, item := range items {
			if err := d.Elems[i].Validate(item); err != nil {
				return err
			}
		}

	case KindMap:
		m, ok := value.(map[string]any)
		if !ok {
			return d.mismatch(value, "map[string]any")
		}
		for k, v := range m {
			if err := d.Key.Validate(k); err != nil {
				return err
			}
			if err := d.Value.Validate(v); err != nil {
				return err
			}
		}
	}

	return nil
}

// collapseContainer converts container values element by element. When the
// element descriptor's conversion is the identity, the walk is skipped; the
// result is the same either way.
func (d *Descriptor) collapseContainer(value any) (any, error) {
	switch d.Kind {
	case KindList:
		items, ok := value.([]any)
		if !ok {
			return nil, d.mismatch(value, "[]any")
		}
		if d.Elem.Kind.identityTransform() {
			return items, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			collapsed, err := d.Elem.Collapse(item)
			if err != nil {
				return nil, err
			}
			out[i] = collapsed
		}
		return out, nil

	case KindSet:
		set, ok := value.(Set)
		if !ok {
			return nil, d.mismatch(value, "field.Set")
		}
		// Sets always collapse to an ordered slice.
		out := make([]any, 0, set.Len())
		for _, item := range set.Items() {
			collapsed, err := d.Elem.Collapse(item)
			if err != nil {
				return nil, err
			}
			out = append(out, collapsed)
		}
		return out, nil

	case KindFixedList:
		items, ok := value.([]any)
		if !ok {
			return nil, d.mismatch(value, "[]any")
		}
		if len(items) != len(d.Elems) {
			return nil, errors.Newf(ErrTypeMismatch,
				"field %s: value must contain %d elements, not %d",
				d.Name, len(d.Elems), len(items))
		}
		out := make([]any, len(items))
		for i, item := range items {
			collapsed, err := d.Elems[i].Collapse(item)
			if err != nil {
				return nil, err
			}
			out[i] = collapsed
		}
		return out, nil

	case KindMap:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, d.mismatch(value, "map[string]any")
		}
		if d.Value.Kind.identityTransform() {
			return m, nil
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			collapsed, err := d.Value.Collapse(v)
			if err != nil {
				return nil, err
			}
			out[k] = collapsed
		}
		return out, nil
	}

	return nil, d.mismatch(value, d.Kind.String())
}

// expandContainer is the inverse of collapseContainer.
func (d *Descriptor) expandContainer(value any) (any, error) {
	switch d.Kind {
	case KindList:
		items, ok := value.([]any)
		if !ok {
			return nil, d.mismatch(value, "[]any")
		}
		if d.Elem.Kind.identityTransform() {
			return items, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			expanded, err := d.Elem.Expand(item)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil

	case KindSet:
		items, ok := value.([]any)
		if !ok {
			return nil, d.mismatch(value, "[]any")
		}
		out := make(Set, len(items))
		for _, item := range items {
			expanded, err := d.Elem.Expand(item)
			if err != nil {
				return nil, err
			}
			out.Add(expanded)
		}
		return out, nil

	case KindFixedList:
		items, ok := value.([]any)
		if !ok {
			return nil, d.mismatch(value, "[]any")
		}
		if len(items) != len(d.Elems) {
			return nil, errors.Newf(ErrTypeMismatch,
				"field %s: stored value must contain %d elements, not %d",
				d.Name, len(d.Elems), len(items))
		}
		out := make([]any, len(items))
		for i, item := range items {
			expanded, err := d.Elems[i].Expand(item)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil

	case KindMap:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, d.mismatch(value, "map[string]any")
		}
		if d.Value.Kind.identityTransform() {
			return m, nil
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			expanded, err := d.Value.Expand(v)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	}

	return nil, d.mismatch(value, d.Kind.String())
}
