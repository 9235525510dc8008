// File: map.go
// Title: Ordered Map
// Description: Insertion-ordered string-keyed mapping used for the store
//              root, nested mappings and instance fields. Insertion order is
//              what printing reproduces.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial ordered map

package store

// Map is an insertion-ordered mapping from string keys to values.
// The zero value is not usable; create maps with NewMap.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap creates an empty map
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Get returns the value bound to key
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set binds key to v. A new key is appended to the iteration order; an
// existing key keeps its position.
func (m *Map) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Has reports whether key is bound
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of bindings
func (m *Map) Len() int {
	return len(m.keys)
}

// Each calls fn for every binding in insertion order
func (m *Map) Each(fn func(key string, v Value)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// MarshalJSON renders the map in insertion order
func (m *Map) MarshalJSON() ([]byte, error) {
	return marshalCanonical(m)
}
