package document

import (
	"docmapper/internal/common"
)

// Map is the change-tracking wrapper for mapping fields.
type Map struct {
	container
}

// Len returns the number of entries, zero for an unset field.
func (m *Map) Len() int {
	items, err := m.mapping()
	if err != nil {
		return 0
	}
	return len(items)
}

// Keys returns the current keys in deterministic order.
func (m *Map) Keys() ([]string, error) {
	items, err := m.mapping()
	if err != nil {
		return nil, err
	}
	return common.SortedKeys(items), nil
}

// Items returns a copy of the current entries.
func (m *Map) Items() (map[string]any, error) {
	items, err := m.mapping()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out, nil
}

// Get returns the value under key and whether the key is present.
func (m *Map) Get(key string) (any, bool) {
	items, err := m.mapping()
	if err != nil {
		return nil, false
	}
	value, ok := items[key]
	return value, ok
}

// Set stores value under key.
func (m *Map) Set(key string, value any) error {
	items, err := m.mapping()
	if err != nil {
		return err
	}
	items[key] = value
	return m.commit(items)
}

// Delete removes the entry under key, reporting whether one existed.
func (m *Map) Delete(key string) (bool, error) {
	items, err := m.mapping()
	if err != nil {
		return false, err
	}
	if _, ok := items[key]; !ok {
		return false, nil
	}
	delete(items, key)
	return true, m.commit(items)
}

// Pop removes and returns the value under key.
func (m *Map) Pop(key string) (any, bool, error) {
	items, err := m.mapping()
	if err != nil {
		return nil, false, err
	}
	value, ok := items[key]
	if !ok {
		return nil, false, nil
	}
	delete(items, key)
	return value, true, m.commit(items)
}

// Update stores every entry of values.
func (m *Map) Update(values map[string]any) error {
	items, err := m.mapping()
	if err != nil {
		return err
	}
	for k, v := range values {
		items[k] = v
	}
	return m.commit(items)
}

// Clear empties the mapping.
func (m *Map) Clear() error {
	if _, err := m.mapping(); err != nil {
		return err
	}
	return m.commit(map[string]any{})
}
