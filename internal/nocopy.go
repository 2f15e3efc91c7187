// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package internal

import (
	"reflect"
	"sync/atomic"
)

// NoCopy detects a T used after being copied by value.
// Embed it into T and call Check from the methods of *T.
type NoCopy[T any] struct {
	self atomic.Pointer[NoCopy[T]] // address of the first receiver of Check
}

// Check panics if the receiver is not the one Check was first called on.
func (c *NoCopy[T]) Check() {
	if c.self.CompareAndSwap(nil, c) || c.self.Load() == c {
		return
	}

	panic("illegal use of non-zero " + reflect.TypeFor[T]().String() + " copied by value")
}
