// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package mapper

import "errors"

var (
	// ErrShapeMismatch is returned when a Value of the wrong kind is found
	// for the expected type, such as a scalar where a mapping is required.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrTypeMismatch is returned when a scalar cannot be converted to the target type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNoAdapterNoConstructor is returned when a type has no adapter
	// and cannot be built structurally, such as functions, channels
	// and non-empty interfaces.
	ErrNoAdapterNoConstructor = errors.New("no adapter and no constructor")

	errNotPointer  = errors.New("to must be a non-nil pointer")
	errNotSettable = errors.New("to must be settable")
)
