// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package mapper

import (
	"fmt"
	"reflect"

	"github.com/nil-go/treeconf/tree"
)

// Adapter converts a declared type to and from a tree Value,
// replacing the structural conversion of the [Mapper] for that type.
//
// Decode receives the raw Value, including Absent, and sets the settable to.
// Encode receives the value to convert. Both receive the Mapper
// so that nested values can be converted recursively.
type Adapter interface {
	Decode(m *Mapper, node tree.Value, to reflect.Value) error
	Encode(m *Mapper, from reflect.Value) (tree.Value, error)
}

// Func returns an Adapter built from typed decode and encode functions.
//
// When the adapter is found for a type other than T (see [Registry.Find]),
// the result of decode is converted to that type and the encoded value is
// converted to T before encode is called.
func Func[T any](
	decode func(*Mapper, tree.Value) (T, error),
	encode func(*Mapper, T) (tree.Value, error),
) Adapter { //nolint:ireturn
	return funcAdapter[T]{decode: decode, encode: encode}
}

type funcAdapter[T any] struct {
	decode func(*Mapper, tree.Value) (T, error)
	encode func(*Mapper, T) (tree.Value, error)
}

func (a funcAdapter[T]) Decode(m *Mapper, node tree.Value, to reflect.Value) error {
	value, err := a.decode(m, node)
	if err != nil {
		return err
	}

	return assign(reflect.ValueOf(&value).Elem(), to)
}

func (a funcAdapter[T]) Encode(m *Mapper, from reflect.Value) (tree.Value, error) {
	value, ok := as[T](from)
	if !ok {
		return tree.Absent(), fmt.Errorf( //nolint:err113
			"cannot encode %s with adapter of %s", from.Type(), reflect.TypeFor[T](),
		)
	}

	return a.encode(m, value)
}

func assign(from, to reflect.Value) error {
	if from.Kind() == reflect.Interface {
		if from.IsNil() {
			to.SetZero()

			return nil
		}
		from = from.Elem()
	}

	switch {
	case from.Type().AssignableTo(to.Type()):
		to.Set(from)
	case from.Kind() == to.Kind() && from.Type().ConvertibleTo(to.Type()):
		to.Set(from.Convert(to.Type()))
	default:
		return fmt.Errorf("adapter result %s is not assignable to %s: %w", from.Type(), to.Type(), ErrTypeMismatch)
	}

	return nil
}

func as[T any](from reflect.Value) (T, bool) {
	var zero T
	t := reflect.TypeFor[T]()

	switch {
	case from.Type() == t, t.Kind() == reflect.Interface && from.Type().Implements(t):
		value, ok := from.Interface().(T)

		return value, ok
	case t.Kind() == reflect.Interface && reflect.PointerTo(from.Type()).Implements(t):
		ptr := reflect.New(from.Type())
		ptr.Elem().Set(from)
		value, ok := ptr.Interface().(T)

		return value, ok
	case from.Kind() == t.Kind() && from.Type().ConvertibleTo(t):
		value, ok := from.Convert(t).Interface().(T)

		return value, ok
	default:
		return zero, false
	}
}
