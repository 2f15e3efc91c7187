// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package mapper converts typed Go values to and from tree Values.
//
// Conversion consults the [Registry] first: a type with a registered [Adapter]
// is converted by the adapter alone, in both directions. Otherwise structs are
// converted field by field following their schema descriptor, slices, arrays
// and maps element by element, and primitives are passed through.
package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/nil-go/treeconf/schema"
	"github.com/nil-go/treeconf/tree"
)

// Mapper converts between typed values and tree Values.
//
// To create a new Mapper, call [New].
type Mapper struct {
	registry *Registry
}

// New creates a new Mapper with the given Option(s).
func New(opts ...Option) *Mapper {
	option := &options{}
	for _, opt := range opts {
		opt(option)
	}
	if option.registry == nil {
		option.registry = NewRegistry()
	}

	return (*Mapper)(option)
}

// Registry returns the Registry of adapters consulted by m.
func (m *Mapper) Registry() *Registry {
	return m.registry
}

// Decode converts node into the object pointed to by to.
//
// A missing struct field decodes to the zero value of the field.
// On error, fields that could be decoded are still set.
func (m *Mapper) Decode(node tree.Value, to any) error {
	toVal := reflect.ValueOf(to)
	if toVal.Kind() != reflect.Pointer || toVal.IsNil() {
		return errNotPointer
	}

	return m.decode("", node, toVal.Elem())
}

// DecodeValue converts node into the settable to.
// It is meant for adapters decoding nested values.
func (m *Mapper) DecodeValue(node tree.Value, to reflect.Value) error {
	if !to.CanSet() {
		return errNotSettable
	}

	return m.decode("", node, to)
}

// DecodeAs converts node into a new value of type T.
func DecodeAs[T any](m *Mapper, node tree.Value) (T, error) {
	var value T
	err := m.Decode(node, &value)

	return value, err
}

// Encode converts from into a tree Value.
func (m *Mapper) Encode(from any) (tree.Value, error) {
	return m.encode("", reflect.ValueOf(from))
}

// EncodeValue converts from into a tree Value.
// It is meant for adapters encoding nested values.
func (m *Mapper) EncodeValue(from reflect.Value) (tree.Value, error) {
	return m.encode("", from)
}

func (m *Mapper) decode(name string, node tree.Value, toVal reflect.Value) error { //nolint:cyclop
	if adapter, ok := m.registry.Find(toVal.Type()); ok {
		if err := adapter.Decode(m, node, toVal); err != nil {
			return named(name, err)
		}

		return nil
	}

	if node.IsAbsent() {
		toVal.SetZero()

		return nil
	}

	switch toVal.Kind() {
	case reflect.Pointer:
		return m.decodePointer(name, node, toVal)
	case reflect.Interface:
		return m.decodeInterface(name, node, toVal)
	case reflect.Slice:
		return m.decodeSlice(name, node, toVal)
	case reflect.Array:
		return m.decodeArray(name, node, toVal)
	case reflect.Map:
		return m.decodeMap(name, node, toVal)
	case reflect.Struct:
		return m.decodeStruct(name, node, toVal)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return named(name, fmt.Errorf("%s: %w", toVal.Type(), ErrNoAdapterNoConstructor))
	default:
		return decodeScalar(name, node, toVal)
	}
}

func (m *Mapper) decodePointer(name string, node tree.Value, toVal reflect.Value) error {
	elem := reflect.New(toVal.Type().Elem())
	if err := m.decode(name, node, elem.Elem()); err != nil {
		return err
	}
	toVal.Set(elem)

	return nil
}

func (m *Mapper) decodeInterface(name string, node tree.Value, toVal reflect.Value) error {
	if toVal.NumMethod() > 0 {
		return named(name, fmt.Errorf("%s: %w", toVal.Type(), ErrNoAdapterNoConstructor))
	}
	// Plain data copied out of the tree.
	toVal.Set(reflect.ValueOf(node.Interface()))

	return nil
}

func (m *Mapper) decodeSlice(name string, node tree.Value, toVal reflect.Value) error {
	if node.Kind() == tree.KindScalar && toVal.Type().Elem().Kind() == reflect.Uint8 {
		if str, ok := node.Scalar().(string); ok {
			toVal.SetBytes([]byte(str))

			return nil
		}
	}
	if node.Kind() != tree.KindSequence {
		return shapeMismatch(name, tree.KindSequence, node)
	}

	items := node.Items()
	slice := reflect.MakeSlice(toVal.Type(), len(items), len(items))
	errs := make([]error, 0, len(items))
	for i, item := range items {
		if err := m.decode(index(name, i), item, slice.Index(i)); err != nil {
			errs = append(errs, err)
		}
	}
	toVal.Set(slice)

	return errors.Join(errs...)
}

func (m *Mapper) decodeArray(name string, node tree.Value, toVal reflect.Value) error {
	if node.Kind() != tree.KindSequence {
		return shapeMismatch(name, tree.KindSequence, node)
	}

	items := node.Items()
	if len(items) > toVal.Len() {
		return named(name, fmt.Errorf(
			"expected at most %d items, got %d: %w", toVal.Len(), len(items), ErrShapeMismatch,
		))
	}

	toVal.SetZero()
	errs := make([]error, 0, len(items))
	for i, item := range items {
		if err := m.decode(index(name, i), item, toVal.Index(i)); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *Mapper) decodeMap(name string, node tree.Value, toVal reflect.Value) error {
	if node.Kind() != tree.KindMapping {
		return shapeMismatch(name, tree.KindMapping, node)
	}

	mapping := node.Map()
	toType := toVal.Type()
	out := reflect.MakeMapWithSize(toType, mapping.Len())
	var errs []error
	mapping.Range(func(key string, value tree.Value) bool {
		fieldName := tree.Join(name, key)

		toKeyVal := reflect.New(toType.Key()).Elem()
		if err := m.decodeKey(fieldName, key, toKeyVal); err != nil {
			errs = append(errs, err)

			return true
		}
		toValueVal := reflect.New(toType.Elem()).Elem()
		if err := m.decode(fieldName, value, toValueVal); err != nil {
			errs = append(errs, err)

			return true
		}
		out.SetMapIndex(toKeyVal, toValueVal)

		return true
	})
	toVal.Set(out)

	return errors.Join(errs...)
}

// decodeKey decodes a Mapping key. Keys are always strings in the tree,
// so numeric and boolean key types are parsed from the key text.
func (m *Mapper) decodeKey(name, key string, toVal reflect.Value) error {
	if _, ok := m.registry.Find(toVal.Type()); ok {
		return m.decode(name, tree.Scalar(key), toVal)
	}

	var (
		parsed any
		err    error
	)
	switch {
	case toVal.Kind() == reflect.Bool:
		parsed, err = strconv.ParseBool(key)
	case toVal.CanInt():
		parsed, err = strconv.ParseInt(key, 0, toVal.Type().Bits())
	case toVal.CanUint():
		parsed, err = strconv.ParseUint(key, 0, toVal.Type().Bits())
	case toVal.CanFloat():
		parsed, err = strconv.ParseFloat(key, toVal.Type().Bits())
	default:
		parsed = key
	}
	if err != nil {
		return named(name, fmt.Errorf("cannot parse key %q as %s: %w", key, toVal.Type(), ErrTypeMismatch))
	}

	return m.decode(name, tree.Scalar(parsed), toVal)
}

func (m *Mapper) decodeStruct(name string, node tree.Value, toVal reflect.Value) error {
	// Scalars of struct types (such as time.Time parsed by a format) are taken as-is.
	if node.Kind() == tree.KindScalar && reflect.TypeOf(node.Scalar()).AssignableTo(toVal.Type()) {
		toVal.Set(reflect.ValueOf(node.Scalar()))

		return nil
	}
	if node.Kind() != tree.KindMapping {
		return shapeMismatch(name, tree.KindMapping, node)
	}

	descriptor, err := schema.Of(toVal.Type())
	if err != nil {
		return named(name, fmt.Errorf("%w: %w", ErrNoAdapterNoConstructor, err))
	}

	mapping := node.Map()
	var errs []error
	for _, field := range descriptor.Fields {
		fieldVal := toVal.FieldByIndex(field.Index)
		if err := m.decode(tree.Join(name, field.Name), mapping.Get(field.Name), fieldVal); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *Mapper) encode(name string, fromVal reflect.Value) (tree.Value, error) { //nolint:cyclop,funlen
	if !fromVal.IsValid() {
		return tree.Absent(), nil
	}

	if adapter, ok := m.registry.Find(fromVal.Type()); ok {
		value, err := adapter.Encode(m, fromVal)
		if err != nil {
			return tree.Absent(), named(name, err)
		}

		return value, nil
	}

	switch fromVal.Kind() {
	case reflect.Pointer, reflect.Interface:
		if fromVal.IsNil() {
			return tree.Absent(), nil
		}

		return m.encode(name, fromVal.Elem())
	case reflect.Slice:
		if fromVal.IsNil() {
			return tree.Absent(), nil
		}
		if fromVal.Type().Elem().Kind() == reflect.Uint8 {
			return tree.Scalar(string(fromVal.Bytes())), nil
		}

		return m.encodeItems(name, fromVal)
	case reflect.Array:
		return m.encodeItems(name, fromVal)
	case reflect.Map:
		if fromVal.IsNil() {
			return tree.Absent(), nil
		}

		return m.encodeMap(name, fromVal)
	case reflect.Struct:
		return m.encodeStruct(name, fromVal)
	case reflect.Bool:
		return tree.Scalar(fromVal.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tree.Scalar(fromVal.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return tree.Scalar(fromVal.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return tree.Scalar(fromVal.Float()), nil
	case reflect.String:
		return tree.Scalar(fromVal.String()), nil
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if fromVal.IsNil() {
			return tree.Absent(), nil
		}

		fallthrough
	default:
		return tree.Absent(), named(name, fmt.Errorf("%s: %w", fromVal.Type(), ErrNoAdapterNoConstructor))
	}
}

func (m *Mapper) encodeItems(name string, fromVal reflect.Value) (tree.Value, error) {
	items := make([]tree.Value, fromVal.Len())
	errs := make([]error, 0, len(items))
	for i := range items {
		item, err := m.encode(index(name, i), fromVal.Index(i))
		if err != nil {
			errs = append(errs, err)
		}
		items[i] = item
	}

	return tree.Sequence(items...), errors.Join(errs...)
}

func (m *Mapper) encodeMap(name string, fromVal reflect.Value) (tree.Value, error) {
	type kv struct {
		key   string
		value reflect.Value
	}
	entries := make([]kv, 0, fromVal.Len())
	var errs []error
	iter := fromVal.MapRange()
	for iter.Next() {
		key, err := m.encode(name, iter.Key())
		if err != nil {
			errs = append(errs, err)

			continue
		}
		if key.Kind() != tree.KindScalar {
			errs = append(errs, named(name, fmt.Errorf(
				"map key %v encodes to %s: %w", iter.Key(), key.Kind(), ErrShapeMismatch,
			)))

			continue
		}
		entries = append(entries, kv{key: fmt.Sprint(key.Scalar()), value: iter.Value()})
	}
	// Go maps are unordered, sort keys for a deterministic layout.
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	mapping := tree.NewMap()
	for _, entry := range entries {
		value, err := m.encode(tree.Join(name, entry.key), entry.value)
		if err != nil {
			errs = append(errs, err)
		}
		mapping.Set(entry.key, value)
	}

	return tree.Mapping(mapping), errors.Join(errs...)
}

func (m *Mapper) encodeStruct(name string, fromVal reflect.Value) (tree.Value, error) {
	descriptor, err := schema.Of(fromVal.Type())
	if err != nil {
		return tree.Absent(), named(name, fmt.Errorf("%w: %w", ErrNoAdapterNoConstructor, err))
	}

	mapping := tree.NewMap()
	var errs []error
	for _, field := range descriptor.Fields {
		fieldName := tree.Join(name, field.Name)
		value, err := m.encode(fieldName, fromVal.FieldByIndex(field.Index))
		if err != nil {
			errs = append(errs, err)
		}
		// Absent values are kept as explicit entries.
		mapping.Set(field.Name, value)
	}

	return tree.Mapping(mapping), errors.Join(errs...)
}

func index(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

func named(name string, err error) error {
	if name == "" {
		return err
	}

	return fmt.Errorf("'%s': %w", name, err)
}

func shapeMismatch(name string, expected tree.Kind, node tree.Value) error {
	return named(name, fmt.Errorf("expected %s, got %s: %w", expected, node.Kind(), ErrShapeMismatch))
}

type (
	// Option configures a Mapper with specific options.
	Option  func(*options)
	options Mapper
)

// WithRegistry provides the Registry of adapters.
//
// By default, it uses an empty Registry.
func WithRegistry(registry *Registry) Option {
	return func(options *options) {
		options.registry = registry
	}
}
