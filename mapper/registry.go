// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package mapper

import (
	"reflect"
	"sync"
)

// Registry maps declared types to their [Adapter].
//
// To create a new Registry, call [NewRegistry].
type Registry struct {
	mu      sync.RWMutex
	index   map[reflect.Type]int
	entries []entry
}

type entry struct {
	typ     reflect.Type
	adapter Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[reflect.Type]int)}
}

// Register associates the adapter with type t.
// A later registration for the same type replaces the adapter
// but keeps the position of the first registration.
//
// This method is concurrency-safe.
// It panics if t or the adapter is nil.
func (r *Registry) Register(t reflect.Type, adapter Adapter) {
	if t == nil {
		panic("cannot register adapter for nil type")
	}
	if adapter == nil {
		panic("cannot register nil adapter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[t]; ok {
		r.entries[i].adapter = adapter

		return
	}
	r.index[t] = len(r.entries)
	r.entries = append(r.entries, entry{typ: t, adapter: adapter})
}

// Register associates the adapter with type T in r.
func Register[T any](r *Registry, adapter Adapter) {
	r.Register(reflect.TypeFor[T](), adapter)
}

// Find returns the adapter for type t.
//
// An adapter registered for exactly t wins. Otherwise it returns the first
// adapter, in registration order, whose type is assignable from t:
// an interface t (or *t) implements, or an unnamed type with the same underlying type.
//
// This method is concurrency-safe.
func (r *Registry) Find(t reflect.Type) (Adapter, bool) { //nolint:ireturn
	if r == nil || t == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.index[t]; ok {
		return r.entries[i].adapter, true
	}
	for _, e := range r.entries {
		if assignable(t, e.typ) {
			return e.adapter, true
		}
	}

	return nil, false
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

func assignable(from, to reflect.Type) bool {
	if from.AssignableTo(to) {
		return true
	}

	return to.Kind() == reflect.Interface && from.Kind() != reflect.Interface &&
		reflect.PointerTo(from).Implements(to)
}
