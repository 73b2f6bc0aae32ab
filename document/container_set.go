package document

import (
	"docmapper/errors"
	"docmapper/field"
)

// Set is the change-tracking wrapper for set fields. The underlying value
// is a field.Set; the collapsed storage form stays a deterministically
// ordered list, so set-algebra mutations still produce stable documents.
type Set struct {
	container
}

// Len returns the number of elements, zero for an unset field.
func (s *Set) Len() int {
	items, err := s.set()
	if err != nil {
		return 0
	}
	return items.Len()
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value any) bool {
	items, err := s.set()
	if err != nil {
		return false
	}
	return items.Contains(value)
}

// Items returns the current elements in deterministic order.
func (s *Set) Items() ([]any, error) {
	items, err := s.set()
	if err != nil {
		return nil, err
	}
	return items.Items(), nil
}

// Add inserts value.
func (s *Set) Add(value any) error {
	items, err := s.set()
	if err != nil {
		return err
	}
	items.Add(value)
	return s.commit(items)
}

// Discard removes value if present; removing an absent value is a no-op.
func (s *Set) Discard(value any) error {
	items, err := s.set()
	if err != nil {
		return err
	}
	if !items.Remove(value) {
		return nil
	}
	return s.commit(items)
}

// Remove removes value, failing when it is absent.
func (s *Set) Remove(value any) error {
	items, err := s.set()
	if err != nil {
		return err
	}
	if !items.Remove(value) {
		return errors.Newf(field.ErrTypeMismatch,
			"value %v is not in set field %q", value, s.name)
	}
	return s.commit(items)
}

// Pop removes and returns an arbitrary (but deterministic) element.
func (s *Set) Pop() (any, error) {
	items, err := s.set()
	if err != nil {
		return nil, err
	}
	ordered := items.Items()
	if len(ordered) == 0 {
		return nil, errors.Newf(field.ErrTypeMismatch,
			"pop from empty set field %q", s.name)
	}
	value := ordered[0]
	items.Remove(value)
	return value, s.commit(items)
}

// Clear empties the set.
func (s *Set) Clear() error {
	if _, err := s.set(); err != nil {
		return err
	}
	return s.commit(field.NewSet())
}

// Update inserts every given value.
func (s *Set) Update(values ...any) error {
	items, err := s.set()
	if err != nil {
		return err
	}
	for _, value := range values {
		items.Add(value)
	}
	return s.commit(items)
}

// IntersectionUpdate keeps only the elements also present in values.
func (s *Set) IntersectionUpdate(values ...any) error {
	items, err := s.set()
	if err != nil {
		return err
	}
	keep := field.NewSet(values...)
	for _, item := range items.Items() {
		if !keep.Contains(item) {
			items.Remove(item)
		}
	}
	return s.commit(items)
}

// DifferenceUpdate removes every element present in values.
func (s *Set) DifferenceUpdate(values ...any) error {
	items, err := s.set()
	if err != nil {
		return err
	}
	for _, value := range values {
		items.Remove(value)
	}
	return s.commit(items)
}

// SymmetricDifferenceUpdate keeps the elements present in exactly one of
// the set and values.
func (s *Set) SymmetricDifferenceUpdate(values ...any) error {
	items, err := s.set()
	if err != nil {
		return err
	}
	for _, value := range values {
		if items.Contains(value) {
			items.Remove(value)
		} else {
			items.Add(value)
		}
	}
	return s.commit(items)
}
