// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Defaults returns a T whose fields are set to their declared defaults
// and otherwise left as zero values. Nested struct fields are filled recursively.
func Defaults[T any]() (T, error) {
	var value T
	err := ApplyDefaults(reflect.ValueOf(&value).Elem())

	return value, err
}

// ApplyDefaults sets the declared defaults onto the addressable struct value v.
func ApplyDefaults(v reflect.Value) error {
	d, err := Of(v.Type())
	if err != nil {
		return err
	}

	var errs []error
	for _, field := range d.Fields {
		fieldVal := v.FieldByIndex(field.Index)
		if field.Default == nil {
			if Has(field.Type) {
				if err := ApplyDefaults(fieldVal); err != nil {
					errs = append(errs, err)
				}
			}

			continue
		}

		value, err := field.Default()
		if err != nil {
			errs = append(errs, fmt.Errorf("default of %s: %w", field.Name, err))

			continue
		}
		if value == nil {
			fieldVal.SetZero()

			continue
		}
		fieldVal.Set(reflect.ValueOf(value))
	}

	return errors.Join(errs...)
}

// parseDefault validates the default tag text against t once
// and returns a thunk that decodes a fresh value on each call.
func parseDefault(text string, t reflect.Type) (func() (any, error), error) {
	decode := func() (any, error) {
		target := reflect.New(t)
		decoder, err := mapstructure.NewDecoder(
			&mapstructure.DecoderConfig{
				Result:           target.Interface(),
				WeaklyTypedInput: true,
				DecodeHook:       defaultDecodeHook,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("new decoder: %w", err)
		}
		if err := decoder.Decode(text); err != nil {
			return nil, fmt.Errorf("decode %q: %w", text, err)
		}

		return target.Elem().Interface(), nil
	}
	if _, err := decode(); err != nil {
		return nil, err
	}

	return decode, nil
}

var defaultDecodeHook = mapstructure.ComposeDecodeHookFunc( //nolint:gochecknoglobals
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
	mapstructure.TextUnmarshallerHookFunc(),
)
