// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package schema describes how a struct type maps to a tree Mapping:
// the ordered fields with their keys, declared types, comments and defaults,
// plus an optional header comment for the document.
//
// Descriptors are derived from struct tags the first time a type is seen and
// memoized afterwards. The recognized tags are
//
//	conf:"name"          key of the field in the Mapping, "-" skips the field,
//	                     ",squash" inlines the fields of an embedded struct
//	comment:"line\nline" comment lines written above the field
//	default:"value"      default value, decoded into the field type
//
// A type implementing [Headed] provides the document header.
// Types that cannot carry tags are described explicitly with [Define].
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Headed is implemented by struct types that carry a document header.
type Headed interface {
	Header() []string
}

// Descriptor is the metadata of a struct type.
// It must not be modified after it is returned.
type Descriptor struct {
	Type   reflect.Type
	Header []string
	Fields []Field
}

// Field is a single entry of a [Descriptor].
type Field struct {
	// Name is the key of the field in the Mapping.
	Name string
	// Index is the index sequence for reflect.Value.FieldByIndex.
	Index []int
	// Type is the declared type of the field.
	Type reflect.Type
	// Elem is the element type for slice, array and map fields.
	Elem reflect.Type
	// Key is the key type for map fields.
	Key     reflect.Type
	Comment []string
	// Default returns the default value of the field, or nil.
	Default func() (any, error)
}

// Field returns the field with the given key.
func (d *Descriptor) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}

	return Field{}, false
}

// Of returns the memoized descriptor of the struct type t.
func Of(t reflect.Type) (*Descriptor, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%v: %w", t, ErrNotStruct)
	}

	if d, ok := descriptors.Load(t); ok {
		return d.(*Descriptor), nil //nolint:forcetypeassert
	}

	d, err := derive(t)
	if err != nil {
		return nil, err
	}
	actual, _ := descriptors.LoadOrStore(t, d)

	return actual.(*Descriptor), nil //nolint:forcetypeassert
}

// For returns the memoized descriptor of T.
func For[T any]() (*Descriptor, error) {
	return Of(reflect.TypeFor[T]())
}

// Has reports whether t is a struct type that can be described.
func Has(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct
}

func derive(t reflect.Type) (*Descriptor, error) {
	d := &Descriptor{Type: t}
	if headed, ok := reflect.New(t).Interface().(Headed); ok {
		d.Header = headed.Header()
	}

	if err := collect(d, t, nil); err != nil {
		return nil, err
	}

	return d, nil
}

func collect(d *Descriptor, t reflect.Type, index []int) error { //nolint:cyclop
	var errs []error
	for i := range t.NumField() {
		structField := t.Field(i)
		if !structField.IsExported() && !structField.Anonymous {
			continue
		}

		name, tag, _ := strings.Cut(structField.Tag.Get(TagName), ",")
		if name == "-" {
			continue
		}
		fieldIndex := append(append([]int(nil), index...), i)

		fieldType := structField.Type
		if tag == "squash" || (structField.Anonymous && name == "" && fieldType.Kind() == reflect.Struct) {
			if fieldType.Kind() != reflect.Struct {
				errs = append(errs, fmt.Errorf("%s: unsupported type for squash: %s", structField.Name, fieldType.Kind())) //nolint:err113

				continue
			}
			if err := collect(d, fieldType, fieldIndex); err != nil {
				errs = append(errs, err)
			}

			continue
		}
		if !structField.IsExported() {
			continue
		}

		if name == "" {
			name = structField.Name
		}
		if _, ok := d.Field(name); ok {
			errs = append(errs, fmt.Errorf("%s.%s: %w", t, name, ErrDuplicateField))

			continue
		}

		field := Field{
			Name:  name,
			Index: fieldIndex,
			Type:  fieldType,
		}
		switch fieldType.Kind() {
		case reflect.Slice, reflect.Array:
			field.Elem = fieldType.Elem()
		case reflect.Map:
			field.Key = fieldType.Key()
			field.Elem = fieldType.Elem()
		default:
		}
		if comment, ok := structField.Tag.Lookup(CommentTagName); ok {
			field.Comment = strings.Split(comment, "\n")
		}
		if text, ok := structField.Tag.Lookup(DefaultTagName); ok {
			thunk, err := parseDefault(text, fieldType)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: default: %w", t, name, err))

				continue
			}
			field.Default = thunk
		}
		d.Fields = append(d.Fields, field)
	}

	return errors.Join(errs...)
}

const (
	TagName        = "conf"
	CommentTagName = "comment"
	DefaultTagName = "default"
)

var (
	ErrNotStruct      = errors.New("not a struct type")
	ErrDuplicateField = errors.New("duplicate field name")

	descriptors sync.Map //nolint:gochecknoglobals // key: reflect.Type, val: *Descriptor
)
