package document

import (
	"sort"

	"docmapper/errors"
	"docmapper/field"
)

// List is the change-tracking wrapper for list fields. Every mutating
// operation applies to the document's current value and marks the field
// dirty; reads reflect mutations made through any other wrapper of the
// same field.
type List struct {
	container
}

// Len returns the number of elements, zero for an unset field.
func (l *List) Len() int {
	items, err := l.list()
	if err != nil {
		return 0
	}
	return len(items)
}

// Items returns a copy of the current elements.
func (l *List) Items() ([]any, error) {
	items, err := l.list()
	if err != nil {
		return nil, err
	}
	return append([]any(nil), items...), nil
}

// Get returns the element at index i.
func (l *List) Get(i int) (any, error) {
	items, err := l.list()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return nil, errors.Newf(field.ErrTypeMismatch,
			"index %d out of range for field %q of length %d", i, l.name, len(items))
	}
	return items[i], nil
}

// Set replaces the element at index i.
func (l *List) Set(i int, value any) error {
	items, err := l.list()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(items) {
		return errors.Newf(field.ErrTypeMismatch,
			"index %d out of range for field %q of length %d", i, l.name, len(items))
	}
	items[i] = value
	return l.commit(items)
}

// Insert places value before index i; i == Len() appends.
func (l *List) Insert(i int, value any) error {
	items, err := l.list()
	if err != nil {
		return err
	}
	if i < 0 || i > len(items) {
		return errors.Newf(field.ErrTypeMismatch,
			"index %d out of range for field %q of length %d", i, l.name, len(items))
	}
	items = append(items[:i], append([]any{value}, items[i:]...)...)
	return l.commit(items)
}

// Append adds values to the end of the list.
func (l *List) Append(values ...any) error {
	items, err := l.list()
	if err != nil {
		return err
	}
	return l.commit(append(items, values...))
}

// Remove deletes the first occurrence of value, reporting whether one was
// found.
func (l *List) Remove(value any) (bool, error) {
	items, err := l.list()
	if err != nil {
		return false, err
	}
	for i, item := range items {
		if item == value {
			items = append(items[:i], items[i+1:]...)
			return true, l.commit(items)
		}
	}
	return false, nil
}

// Pop removes and returns the element at index i.
func (l *List) Pop(i int) (any, error) {
	items, err := l.list()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return nil, errors.Newf(field.ErrTypeMismatch,
			"index %d out of range for field %q of length %d", i, l.name, len(items))
	}
	value := items[i]
	items = append(items[:i], items[i+1:]...)
	return value, l.commit(items)
}

// Clear empties the list.
func (l *List) Clear() error {
	if _, err := l.list(); err != nil {
		return err
	}
	return l.commit([]any{})
}

// Sort orders the elements with less.
func (l *List) Sort(less func(a, b any) bool) error {
	items, err := l.list()
	if err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	return l.commit(items)
}

// Reverse reverses the element order in place.
func (l *List) Reverse() error {
	items, err := l.list()
	if err != nil {
		return err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return l.commit(items)
}
