// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package mapper

import (
	"fmt"
	"math"
	"reflect"

	"github.com/nil-go/treeconf/internal/credential"
	"github.com/nil-go/treeconf/tree"
)

// decodeScalar sets the scalar payload of node onto toVal.
// Numbers convert between numeric kinds when the value is representable
// in the target type. Any other conversion is a type mismatch.
func decodeScalar(name string, node tree.Value, toVal reflect.Value) error { //nolint:cyclop,funlen
	if node.Kind() != tree.KindScalar {
		return shapeMismatch(name, tree.KindScalar, node)
	}

	fromVal := reflect.ValueOf(node.Scalar())
	switch {
	case toVal.Kind() == reflect.Bool:
		if fromVal.Kind() != reflect.Bool {
			return typeMismatch(name, fromVal, toVal)
		}
		toVal.SetBool(fromVal.Bool())
	case toVal.CanInt():
		var i int64
		switch {
		case fromVal.CanInt():
			i = fromVal.Int()
		case fromVal.CanUint():
			u := fromVal.Uint()
			if u > math.MaxInt64 {
				return typeMismatch(name, fromVal, toVal)
			}
			i = int64(u)
		case fromVal.CanFloat():
			f := fromVal.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return typeMismatch(name, fromVal, toVal)
			}
			i = int64(f)
		default:
			return typeMismatch(name, fromVal, toVal)
		}
		if toVal.OverflowInt(i) {
			return typeMismatch(name, fromVal, toVal)
		}
		toVal.SetInt(i)
	case toVal.CanUint():
		var u uint64
		switch {
		case fromVal.CanInt():
			i := fromVal.Int()
			if i < 0 {
				return typeMismatch(name, fromVal, toVal)
			}
			u = uint64(i)
		case fromVal.CanUint():
			u = fromVal.Uint()
		case fromVal.CanFloat():
			f := fromVal.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return typeMismatch(name, fromVal, toVal)
			}
			u = uint64(f)
		default:
			return typeMismatch(name, fromVal, toVal)
		}
		if toVal.OverflowUint(u) {
			return typeMismatch(name, fromVal, toVal)
		}
		toVal.SetUint(u)
	case toVal.CanFloat():
		var f float64
		switch {
		case fromVal.CanInt():
			f = float64(fromVal.Int())
		case fromVal.CanUint():
			f = float64(fromVal.Uint())
		case fromVal.CanFloat():
			f = fromVal.Float()
		default:
			return typeMismatch(name, fromVal, toVal)
		}
		if toVal.OverflowFloat(f) {
			return typeMismatch(name, fromVal, toVal)
		}
		toVal.SetFloat(f)
	case toVal.Kind() == reflect.String:
		if fromVal.Kind() != reflect.String {
			return typeMismatch(name, fromVal, toVal)
		}
		toVal.SetString(fromVal.String())
	case fromVal.Type().AssignableTo(toVal.Type()):
		toVal.Set(fromVal)
	default:
		return typeMismatch(name, fromVal, toVal)
	}

	return nil
}

func typeMismatch(name string, fromVal, toVal reflect.Value) error {
	return named(name, fmt.Errorf(
		"expected type '%s', got unconvertible type '%s', value: '%s': %w",
		toVal.Type(), fromVal.Type(), credential.Blur(name, fromVal.Interface()), ErrTypeMismatch,
	))
}
