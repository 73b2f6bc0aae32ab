package field

import (
	"fmt"
	"sort"
)

// Set is the application-facing value of a set field. Elements are stored
// under a hashable key derived from their value, so byte strings participate
// by content like every other element; the collapsed storage form is a
// deterministically ordered slice.
type Set map[any]any

// setKey returns the comparable key an element is stored under. Byte strings
// key by content; any other element is its own key.
func setKey(item any) any {
	switch v := item.(type) {
	case []byte:
		return string(v)
	case Bytes:
		return string(v)
	default:
		return v
	}
}

// NewSet builds a set from the given items.
func NewSet(items ...any) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item into the set.
func (s Set) Add(item any) { s[setKey(item)] = item }

// Remove deletes item from the set, reporting whether it was present.
func (s Set) Remove(item any) bool {
	key := setKey(item)
	_, ok := s[key]
	delete(s, key)
	return ok
}

// Contains reports whether item is in the set.
func (s Set) Contains(item any) bool {
	_, ok := s[setKey(item)]
	return ok
}

// Len returns the number of elements.
func (s Set) Len() int { return len(s) }

// Items returns the elements in deterministic order.
func (s Set) Items() []any {
	items := make([]any, 0, len(s))
	for _, item := range s {
		items = append(items, item)
	}
	sortValues(items)
	return items
}

// sortValues orders arbitrary comparable values by type name then formatted
// value, so collapsed sets are stable across runs.
func sortValues(items []any) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := fmt.Sprintf("%T", items[i]), fmt.Sprintf("%T", items[j])
		if ti != tj {
			return ti < tj
		}
		return fmt.Sprint(items[i]) < fmt.Sprint(items[j])
	})
}
