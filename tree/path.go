// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package tree

import "strings"

// Delimiter separates keys in a dotted path such as `server.tls.cert`.
const Delimiter = "."

// Join concatenates base and key into a dotted path.
func Join(base, key string) string {
	if base == "" {
		return key
	}

	return base + Delimiter + key
}

// Split splits a dotted path into keys. An empty path has no keys.
func Split(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, Delimiter)
}

// Sub returns the value under the given keys, or Absent if any key is missing
// or a value along the path is not a Mapping.
func Sub(m *Map, keys []string) Value {
	if len(keys) == 0 {
		return Mapping(m)
	}

	value, ok := m.Lookup(keys[0])
	if !ok {
		return Absent()
	}
	if len(keys) == 1 {
		return value
	}
	if value.Kind() != KindMapping {
		return Absent()
	}

	return Sub(value.Map(), keys[1:])
}

// Insert stores value under the given keys, creating intermediate Mappings
// and replacing any non-Mapping value along the path.
func Insert(m *Map, keys []string, value Value) {
	if len(keys) == 0 {
		return
	}
	if len(keys) == 1 {
		m.Set(keys[0], value)

		return
	}

	next := m.Get(keys[0])
	if next.Kind() != KindMapping {
		next = Mapping(NewMap())
		m.Set(keys[0], next)
	}
	Insert(next.Map(), keys[1:], value)
}

// Merge recursively merges src into dst.
// Key conflicts are resolved by preferring src,
// or recursively descending, if both values from src and dst are Mapping.
// Comments from src replace comments in dst for the same key.
// Keys only in dst keep their value, comment and position.
func Merge(dst, src *Map) {
	src.Range(func(key string, srcVal Value) bool {
		if comment := src.Comment(key); len(comment) > 0 {
			dst.SetComment(key, comment...)
		}

		dstVal, ok := dst.Lookup(key)
		// Direct override if either side is not a Mapping.
		if !ok || srcVal.Kind() != KindMapping || dstVal.Kind() != KindMapping {
			dst.Set(key, srcVal)

			return true
		}

		Merge(dstVal.Map(), srcVal.Map())

		return true
	})
}

// MergeMissing recursively adds the keys of src that are missing in dst,
// appending them after the keys of dst with their comments.
// Values in dst are kept. It only descends into the Mappings of dst
// for which descend returns true, and a comment of src is only copied
// for a key of dst without a comment.
func MergeMissing(dst, src *Map, descend func(*Map) bool) {
	src.Range(func(key string, srcVal Value) bool {
		dstVal, ok := dst.Lookup(key)
		if !ok {
			dst.Set(key, srcVal)
			dst.SetComment(key, src.Comment(key)...)

			return true
		}

		if len(dst.Comment(key)) == 0 {
			dst.SetComment(key, src.Comment(key)...)
		}
		if srcVal.Kind() == KindMapping && dstVal.Kind() == KindMapping && descend(dstVal.Map()) {
			MergeMissing(dstVal.Map(), srcVal.Map(), descend)
		}

		return true
	})
}
