// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package tree defines the neutral, hierarchical representation that sits
// between typed Go values and persisted documents.
//
// A [Value] is one of Absent, Scalar, Sequence or Mapping.
// Mappings keep their keys in insertion order so that a document written from
// a [Value] has a stable layout, and each key may carry comment lines.
package tree

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is the kind of a [Value].
type Kind uint8

const (
	// KindAbsent is the kind of a missing or null value.
	KindAbsent Kind = iota
	// KindScalar is the kind of a primitive value (bool, number, string, time).
	KindScalar
	// KindSequence is the kind of an ordered list of values.
	KindSequence
	// KindMapping is the kind of an ordered string-keyed map of values.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Value is an immutable node of the tree.
// The zero Value is Absent.
type Value struct {
	kind    Kind
	scalar  any
	items   []Value
	mapping *Map
}

// Absent returns the Absent value.
func Absent() Value {
	return Value{}
}

// Scalar returns a Scalar value holding v.
// It returns Absent if v is nil.
func Scalar(v any) Value {
	if v == nil {
		return Value{}
	}

	return Value{kind: KindScalar, scalar: v}
}

// Sequence returns a Sequence value holding the given items in order.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: KindSequence, items: items}
}

// Mapping returns a Mapping value backed by m.
// A nil m is treated as an empty map.
func Mapping(m *Map) Value {
	if m == nil {
		m = NewMap()
	}

	return Value{kind: KindMapping, mapping: m}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Scalar returns the primitive payload, or nil if v is not a Scalar.
func (v Value) Scalar() any {
	return v.scalar
}

// Items returns the elements of a Sequence, or nil if v is not a Sequence.
func (v Value) Items() []Value {
	return v.items
}

// Map returns the entries of a Mapping, or nil if v is not a Mapping.
func (v Value) Map() *Map {
	return v.mapping
}

// Interface converts v into plain Go data:
// nil, the scalar payload, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}

		return out
	case KindMapping:
		out := make(map[string]any, v.mapping.Len())
		v.mapping.Range(func(key string, value Value) bool {
			out[key] = value.Interface()

			return true
		})

		return out
	default:
		return nil
	}
}

// Equal reports whether v and o have the same shape and payloads.
// Mapping order and comments are ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindScalar:
		return reflect.DeepEqual(v.scalar, o.scalar)
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}

		return true
	case KindMapping:
		if v.mapping.Len() != o.mapping.Len() {
			return false
		}
		equal := true
		v.mapping.Range(func(key string, value Value) bool {
			other, ok := o.mapping.Lookup(key)
			equal = ok && value.Equal(other)

			return equal
		})

		return equal
	default:
		return true
	}
}

func (v Value) String() string {
	builder := &strings.Builder{}
	v.format(builder)

	return builder.String()
}

func (v Value) format(builder *strings.Builder) {
	switch v.kind {
	case KindScalar:
		fmt.Fprintf(builder, "%v", v.scalar)
	case KindSequence:
		builder.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				builder.WriteString(", ")
			}
			item.format(builder)
		}
		builder.WriteByte(']')
	case KindMapping:
		builder.WriteByte('{')
		first := true
		v.mapping.Range(func(key string, value Value) bool {
			if !first {
				builder.WriteString(", ")
			}
			first = false
			builder.WriteString(key)
			builder.WriteString(": ")
			value.format(builder)

			return true
		})
		builder.WriteByte('}')
	default:
		builder.WriteString("<absent>")
	}
}

// From converts plain Go data into a Value.
// Maps with string keys become Mappings (keys sorted, since Go maps are unordered),
// slices become Sequences, nil becomes Absent and anything else a Scalar.
func From(data any) Value {
	switch data := data.(type) {
	case nil:
		return Absent()
	case Value:
		return data
	case []any:
		items := make([]Value, len(data))
		for i, item := range data {
			items[i] = From(item)
		}

		return Sequence(items...)
	case map[string]any:
		m := NewMap()
		for _, key := range sortedKeys(data) {
			m.Set(key, From(data[key]))
		}

		return Mapping(m)
	default:
		return Scalar(data)
	}
}
