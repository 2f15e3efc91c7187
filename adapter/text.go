// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package adapter

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/nil-go/treeconf/mapper"
	"github.com/nil-go/treeconf/tree"
)

// Text converts types implementing encoding.TextUnmarshaler and encoding.TextMarshaler,
// such as time.Time, net.IP and slog.Level, to and from strings.
// Register it for encoding.TextUnmarshaler so it serves every implementing type.
var Text mapper.Adapter = textAdapter{} //nolint:gochecknoglobals

type textAdapter struct{}

func (textAdapter) Decode(_ *mapper.Mapper, node tree.Value, to reflect.Value) error {
	if node.IsAbsent() {
		to.SetZero()

		return nil
	}
	if node.Kind() != tree.KindScalar {
		return fmt.Errorf("%s expected scalar, got %s: %w", to.Type(), node.Kind(), mapper.ErrShapeMismatch)
	}
	// Formats may already produce the target type, such as time.Time from TOML.
	if scalar := reflect.ValueOf(node.Scalar()); scalar.Type().AssignableTo(to.Type()) {
		to.Set(scalar)

		return nil
	}

	text, ok := node.Scalar().(string)
	if !ok {
		return fmt.Errorf("%s expected string, got %T: %w", to.Type(), node.Scalar(), mapper.ErrTypeMismatch)
	}

	var target reflect.Value
	if to.Kind() == reflect.Pointer {
		target = reflect.New(to.Type().Elem())
	} else {
		target = to.Addr()
	}
	unmarshaler, ok := target.Interface().(encoding.TextUnmarshaler)
	if !ok {
		return fmt.Errorf("%s: %w", to.Type(), mapper.ErrNoAdapterNoConstructor)
	}
	if err := unmarshaler.UnmarshalText([]byte(text)); err != nil {
		return fmt.Errorf("unmarshal %s: %w: %w", to.Type(), err, mapper.ErrTypeMismatch)
	}
	if to.Kind() == reflect.Pointer {
		to.Set(target)
	}

	return nil
}

func (textAdapter) Encode(_ *mapper.Mapper, from reflect.Value) (tree.Value, error) {
	if from.Kind() == reflect.Pointer && from.IsNil() {
		return tree.Absent(), nil
	}

	marshaler, ok := from.Interface().(encoding.TextMarshaler)
	if !ok {
		ptr := reflect.New(from.Type())
		ptr.Elem().Set(from)
		if marshaler, ok = ptr.Interface().(encoding.TextMarshaler); !ok {
			return tree.Absent(), fmt.Errorf("%s does not implement encoding.TextMarshaler: %w",
				from.Type(), mapper.ErrNoAdapterNoConstructor)
		}
	}
	text, err := marshaler.MarshalText()
	if err != nil {
		return tree.Absent(), fmt.Errorf("marshal %s: %w", from.Type(), err)
	}

	return tree.Scalar(string(text)), nil
}
