// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package treeconf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"github.com/nil-go/treeconf/mapper"
	"github.com/nil-go/treeconf/schema"
	"github.com/nil-go/treeconf/tree"
)

// engine reads and writes the configuration file of a Store.
// It is not concurrency-safe.
type engine struct {
	path     string
	format   Format
	mapper   *mapper.Mapper
	logger   *slog.Logger
	seed     fs.FS
	seedName string
	mode     fs.FileMode

	// Content of the file as last read or written.
	content []byte
}

// load reads the file into a T and rewrites it in the shape of T.
// If the file does not exist, it is created from the seed or from defaults.
func load[T any](e *engine, defaults func() (T, error)) (T, error) {
	var value T

	current, err := os.ReadFile(e.path)
	data := current
	if errors.Is(err, fs.ErrNotExist) {
		data, err = e.readSeed()
		if errors.Is(err, fs.ErrNotExist) {
			return bootstrap(e, defaults)
		}
	}
	if err != nil {
		return value, fmt.Errorf("%w: read %s: %w", ErrLoad, e.path, err)
	}
	e.content = current

	doc, err := e.format.Unmarshal(data)
	if err != nil {
		return value, fmt.Errorf("%w: parse %s: %w", ErrLoad, e.path, err)
	}
	// The file is left untouched if it cannot be decoded,
	// since writing the partial value back would discard the user's edits.
	if err := e.mapper.Decode(tree.Mapping(doc.Root), &value); err != nil {
		return value, fmt.Errorf("%w: decode %s: %w", ErrLoad, e.path, err)
	}

	if err := e.persist(value, doc, current); err != nil {
		return value, err
	}

	return value, nil
}

func bootstrap[T any](e *engine, defaults func() (T, error)) (T, error) {
	value, err := defaults()
	if err != nil {
		return value, fmt.Errorf("%w: defaults of %s: %w", ErrLoad, reflect.TypeFor[T](), err)
	}
	if err := e.persist(value, tree.Document{}, nil); err != nil {
		return value, err
	}
	e.logger.LogAttrs(
		context.Background(), slog.LevelInfo,
		"Configuration file has been created with defaults.",
		slog.String("file", e.path),
	)

	return value, nil
}

func (e *engine) readSeed() ([]byte, error) {
	if e.seed == nil {
		return nil, fs.ErrNotExist
	}

	data, err := fs.ReadFile(e.seed, e.seedName)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", e.seedName, err)
	}
	e.logger.LogAttrs(
		context.Background(), slog.LevelInfo,
		"Configuration file has been seeded.",
		slog.String("file", e.path),
		slog.String("seed", e.seedName),
	)

	return data, nil
}

// save writes value over the existing file, keeping the keys it does not declare.
// An existing file that cannot be parsed is replaced.
func (e *engine) save(value any) error {
	var existing tree.Document

	current, err := os.ReadFile(e.path)
	switch {
	case err == nil:
		doc, err := e.format.Unmarshal(current)
		if err != nil {
			e.logger.LogAttrs(
				context.Background(), slog.LevelWarn,
				"Configuration file is not valid and will be replaced.",
				slog.String("file", e.path),
				slog.Any("error", err),
			)

			break
		}
		existing = doc
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("%w: read %s: %w", ErrIO, e.path, err)
	}

	return e.persist(value, existing, current)
}

// persist renders value over existing and writes the result if it differs from current.
// A nil current means there is no file.
func (e *engine) persist(value any, existing tree.Document, current []byte) error {
	written, structs, err := e.render(value)
	if err != nil {
		return fmt.Errorf("render %T: %w", value, err)
	}

	if existing.Root != nil && structs[written.Root] {
		// Undeclared keys of structs are kept, everything else is replaced.
		tree.MergeMissing(written.Root, existing.Root, func(m *tree.Map) bool { return structs[m] })
		if len(written.Header) == 0 {
			written.Header = existing.Header
		}
	}

	data, err := e.format.Marshal(written)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.path, err)
	}
	if current != nil && bytes.Equal(data, current) {
		return nil
	}

	if err := e.write(data); err != nil {
		return err
	}
	e.content = data
	e.logger.LogAttrs(
		context.Background(), slog.LevelDebug,
		"Configuration file has been written.",
		slog.String("file", e.path),
	)

	return nil
}

// render writes value into a new document following its schema,
// and returns the Mappings written for structs.
func (e *engine) render(value any) (tree.Document, map[*tree.Map]bool, error) {
	doc := tree.Document{Root: tree.NewMap()}
	structs := map[*tree.Map]bool{doc.Root: true}
	err := e.writeObject(&doc, structs, nil, reflect.ValueOf(value))

	return doc, structs, err
}

//nolint:cyclop
func (e *engine) writeObject(doc *tree.Document, structs map[*tree.Map]bool, keys []string, value reflect.Value) error {
	if !value.IsValid() {
		tree.Insert(doc.Root, keys, tree.Absent())

		return nil
	}

	if !e.composite(value.Type()) {
		node, err := e.mapper.EncodeValue(value)
		if err != nil {
			return fmt.Errorf("encode '%s': %w", joinKeys(keys), err)
		}
		if len(keys) > 0 {
			tree.Insert(doc.Root, keys, node)

			return nil
		}
		// Root value of a type which is not a struct.
		if node.Kind() != tree.KindMapping {
			return fmt.Errorf("%s encodes to %s: %w", value.Type(), node.Kind(), mapper.ErrShapeMismatch)
		}
		doc.Root = node.Map()

		return nil
	}

	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			tree.Insert(doc.Root, keys, tree.Absent())

			return nil
		}
		value = value.Elem()
	}

	descriptor, err := schema.Of(value.Type())
	if err != nil {
		return err
	}

	mapping := doc.Root
	if len(keys) == 0 {
		doc.Header = descriptor.Header
	} else {
		mapping = tree.NewMap()
		tree.Insert(doc.Root, keys, tree.Mapping(mapping))
		structs[mapping] = true
	}

	var errs []error
	for _, field := range descriptor.Fields {
		fieldKeys := append(keys[:len(keys):len(keys)], field.Name)
		if err := e.writeObject(doc, structs, fieldKeys, value.FieldByIndex(field.Index)); err != nil {
			errs = append(errs, err)
		}
		mapping.SetComment(field.Name, field.Comment...)
	}

	return errors.Join(errs...)
}

// composite reports whether values of t are written field by field.
func (e *engine) composite(t reflect.Type) bool {
	for {
		if _, ok := e.mapper.Registry().Find(t); ok {
			return false
		}
		if t.Kind() != reflect.Pointer {
			return schema.Has(t)
		}
		t = t.Elem()
	}
}

func (e *engine) write(data []byte) error {
	dir, file := filepath.Split(e.path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec,mnd
		return fmt.Errorf("%w: create directory %s: %w", ErrIO, dir, err)
	}

	// Write to a temporary file first so the file is replaced atomically.
	temp, err := os.CreateTemp(dir, "."+file+".*")
	if err != nil {
		return fmt.Errorf("%w: create temporary file: %w", ErrIO, err)
	}
	defer func() {
		_ = os.Remove(temp.Name())
	}()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()

		return fmt.Errorf("%w: write %s: %w", ErrIO, temp.Name(), err)
	}
	if err := temp.Chmod(e.mode); err != nil {
		_ = temp.Close()

		return fmt.Errorf("%w: chmod %s: %w", ErrIO, temp.Name(), err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, temp.Name(), err)
	}
	if err := os.Rename(temp.Name(), e.path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrIO, e.path, err)
	}

	return nil
}

func joinKeys(keys []string) string {
	path := ""
	for _, key := range keys {
		path = tree.Join(path, key)
	}

	return path
}

var (
	// ErrLoad is returned when the configuration file cannot be read, parsed or decoded.
	ErrLoad = errors.New("load configuration")
	// ErrIO is returned when the configuration file cannot be written.
	ErrIO = errors.New("persist configuration")
)
