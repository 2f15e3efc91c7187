// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// Define registers the descriptor of T explicitly.
// It starts from the descriptor derived from struct tags and applies the given Option(s),
// then replaces any memoized descriptor of T.
//
// It is meant to be called during initialization, before T is loaded or saved.
func Define[T any](opts ...Option) error {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%v: %w", t, ErrNotStruct)
	}

	derived, err := derive(t)
	if err != nil {
		return err
	}
	d := &definition{Descriptor: derived}
	for _, opt := range opts {
		opt(d)
	}
	if err := errors.Join(d.errs...); err != nil {
		return fmt.Errorf("define %v: %w", t, err)
	}
	descriptors.Store(t, d.Descriptor)

	return nil
}

// WithHeader provides the header comment of the document.
func WithHeader(lines ...string) Option {
	return func(d *definition) {
		d.Header = slices.Clone(lines)
	}
}

// WithComment provides the comment lines of the field with the given key.
func WithComment(name string, lines ...string) Option {
	return func(d *definition) {
		d.update(name, func(field *Field) {
			field.Comment = slices.Clone(lines)
		})
	}
}

// WithDefault provides the default value of the field with the given key.
// The value must be assignable to the field type.
// Slices and maps are copied each time the default is used.
func WithDefault(name string, value any) Option {
	return func(d *definition) {
		d.update(name, func(field *Field) {
			if value != nil && !reflect.TypeOf(value).AssignableTo(field.Type) {
				d.errs = append(d.errs, fmt.Errorf( //nolint:err113
					"default of %s: %T is not assignable to %s", name, value, field.Type,
				))

				return
			}
			field.Default = func() (any, error) { return clone(value), nil }
		})
	}
}

type (
	// Option configures an explicit descriptor.
	Option     func(*definition)
	definition struct {
		*Descriptor

		errs []error
	}
)

func (d *definition) update(name string, fn func(*Field)) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			fn(&d.Fields[i])

			return
		}
	}
	d.errs = append(d.errs, fmt.Errorf("%s: %w", name, ErrUnknownField))
}

// clone copies the slices and maps in value, recursively.
func clone(value any) any {
	if value == nil {
		return nil
	}

	return cloneValue(reflect.ValueOf(value)).Interface()
}

func cloneValue(value reflect.Value) reflect.Value {
	switch value.Kind() {
	case reflect.Slice:
		if value.IsNil() {
			return value
		}
		out := reflect.MakeSlice(value.Type(), value.Len(), value.Len())
		for i := range value.Len() {
			out.Index(i).Set(cloneValue(value.Index(i)))
		}

		return out
	case reflect.Map:
		if value.IsNil() {
			return value
		}
		out := reflect.MakeMapWithSize(value.Type(), value.Len())
		iter := value.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}

		return out
	default:
		return value
	}
}

var ErrUnknownField = errors.New("unknown field")
