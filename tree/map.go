// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package tree

import (
	"slices"
	"sort"
)

// Map is a string-keyed map that keeps insertion order.
// Each key may carry comment lines which formats write above the entry.
//
// The zero Map is not usable, call [NewMap].
type Map struct {
	keys     []string
	values   map[string]Value
	comments map[string][]string
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set stores value under key. A new key is appended at the end,
// an existing key keeps its position.
func (m *Map) Set(key string, value Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value under key, or Absent if the key does not exist.
func (m *Map) Get(key string) Value {
	if m == nil {
		return Absent()
	}

	return m.values[key]
}

func (m *Map) Lookup(key string) (Value, bool) {
	if m == nil {
		return Absent(), false
	}
	value, ok := m.values[key]

	return value, ok
}

func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	delete(m.comments, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, value Value) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// SetComment attaches comment lines to key. Empty lines clear the comment.
func (m *Map) SetComment(key string, lines ...string) {
	if len(lines) == 0 {
		delete(m.comments, key)

		return
	}
	if m.comments == nil {
		m.comments = make(map[string][]string)
	}
	m.comments[key] = slices.Clone(lines)
}

func (m *Map) Comment(key string) []string {
	if m == nil {
		return nil
	}

	return m.comments[key]
}

// Document is a root Mapping together with the header comment of the file.
type Document struct {
	Header []string
	Root   *Map
}

func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
