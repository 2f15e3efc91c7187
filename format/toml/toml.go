// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package toml reads and writes tree documents as TOML.
//
// Key order follows the document. A leading block of comment lines that is
// followed by a blank line is read as the document header. Other comments
// are not read back, they are written above their keys.
// Absent values are omitted, since TOML has no null.
package toml

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nil-go/treeconf/internal"
	"github.com/nil-go/treeconf/tree"
)

// TOML is a TOML codec for tree documents.
type TOML struct{}

// New creates a TOML.
func New() TOML {
	return TOML{}
}

// Unmarshal parses data into a document.
func (TOML) Unmarshal(data []byte) (tree.Document, error) {
	var raw map[string]any
	meta, err := toml.Decode(internal.ByteSlice2String(data), &raw)
	if err != nil {
		return tree.Document{}, fmt.Errorf("unmarshal toml: %w", err)
	}

	builder := builder{root: tree.NewMap(), raw: raw, tables: make(map[string]int)}
	for _, key := range meta.Keys() {
		builder.place(key)
	}
	fill(builder.root, raw)

	return tree.Document{Header: header(data), Root: builder.root}, nil
}

// Marshal renders doc as TOML.
func (TOML) Marshal(doc tree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Header) > 0 {
		writeComment(&buf, doc.Header)
		buf.WriteByte('\n')
	}
	if err := writeTable(&buf, nil, doc.Root); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

type builder struct {
	root   *tree.Map
	raw    map[string]any
	tables map[string]int // occurrences of each array of tables seen so far
}

// place inserts the value of key into the ordered tree at the position it
// appears in the document.
func (b builder) place(key toml.Key) { //nolint:cyclop
	mapping, raw := b.root, b.raw
	for i, segment := range key {
		value, ok := raw[segment]
		if !ok {
			return
		}
		last := i == len(key)-1

		switch value := value.(type) {
		case map[string]any:
			child, exists := mapping.Lookup(segment)
			if !exists || child.Kind() != tree.KindMapping {
				child = tree.Mapping(tree.NewMap())
				mapping.Set(segment, child)
			}
			mapping, raw = child.Map(), value
		case []map[string]any:
			path := key[:i+1].String()
			var items []tree.Value
			if child, exists := mapping.Lookup(segment); exists {
				items = child.Items()
			}
			if last {
				// A new [[table]] header.
				b.enter(path)
				if len(items) < len(value) {
					mapping.Set(segment, tree.Sequence(append(slices.Clone(items), tree.Mapping(tree.NewMap()))...))
				}

				return
			}
			index := b.tables[path] - 1
			if index < 0 || index >= len(value) || index >= len(items) {
				return
			}
			mapping, raw = items[index].Map(), value[index]
		default:
			if last {
				if _, exists := mapping.Lookup(segment); !exists {
					mapping.Set(segment, convert(value))
				}
			}

			return
		}
	}
}

func (b builder) enter(path string) {
	b.tables[path]++
	for nested := range b.tables {
		if strings.HasPrefix(nested, path+".") {
			delete(b.tables, nested)
		}
	}
}

// fill adds the values of raw that are missing from mapping in key order.
func fill(mapping *tree.Map, raw map[string]any) {
	for _, key := range sortedKeys(raw) {
		existing, exists := mapping.Lookup(key)
		if !exists {
			mapping.Set(key, convert(raw[key]))

			continue
		}

		switch value := raw[key].(type) {
		case map[string]any:
			if existing.Kind() == tree.KindMapping {
				fill(existing.Map(), value)
			}
		case []map[string]any:
			items := existing.Items()
			for i := 0; i < len(items) && i < len(value); i++ {
				fill(items[i].Map(), value[i])
			}
			if len(items) < len(value) {
				for _, item := range value[len(items):] {
					items = append(items, convert(item))
				}
				mapping.Set(key, tree.Sequence(items...))
			}
		}
	}
}

func convert(value any) tree.Value {
	switch value := value.(type) {
	case map[string]any:
		mapping := tree.NewMap()
		for _, key := range sortedKeys(value) {
			mapping.Set(key, convert(value[key]))
		}

		return tree.Mapping(mapping)
	case []map[string]any:
		items := make([]tree.Value, len(value))
		for i, item := range value {
			items[i] = convert(item)
		}

		return tree.Sequence(items...)
	case []any:
		items := make([]tree.Value, len(value))
		for i, item := range value {
			items[i] = convert(item)
		}

		return tree.Sequence(items...)
	default:
		return tree.Scalar(value)
	}
}

func header(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#"):
			line = strings.TrimPrefix(line, "#")
			lines = append(lines, strings.TrimPrefix(line, " "))
		case line == "":
			return lines
		default:
			// The comment belongs to the first key.
			return nil
		}
	}

	return lines
}

func writeTable(buf *bytes.Buffer, path []string, mapping *tree.Map) error { //nolint:cyclop
	var (
		tables []string
		err    error
	)
	mapping.Range(func(key string, value tree.Value) bool {
		switch {
		case value.IsAbsent():
			return true
		case value.Kind() == tree.KindMapping, isTableArray(value):
			tables = append(tables, key)

			return true
		}

		writeComment(buf, mapping.Comment(key))
		err = writeKeyValue(buf, key, value)

		return err == nil
	})
	if err != nil {
		return err
	}

	for _, key := range tables {
		value := mapping.Get(key)
		sub := append(slices.Clone(path), key)
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		writeComment(buf, mapping.Comment(key))

		if value.Kind() == tree.KindMapping {
			fmt.Fprintf(buf, "[%s]\n", joinKey(sub))
			if err := writeTable(buf, sub, value.Map()); err != nil {
				return err
			}

			continue
		}

		first := true
		for _, item := range value.Items() {
			if item.IsAbsent() {
				continue
			}
			if !first {
				buf.WriteByte('\n')
			}
			first = false
			fmt.Fprintf(buf, "[[%s]]\n", joinKey(sub))
			if err := writeTable(buf, sub, item.Map()); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeKeyValue(buf *bytes.Buffer, key string, value tree.Value) error {
	if err := toml.NewEncoder(buf).Encode(map[string]any{key: plain(value)}); err != nil {
		return fmt.Errorf("marshal toml key %s: %w", key, err)
	}

	return nil
}

func writeComment(buf *bytes.Buffer, lines []string) {
	for _, line := range lines {
		if line == "" {
			buf.WriteString("#\n")

			continue
		}
		buf.WriteString("# ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

// plain converts value into data for the TOML encoder, dropping Absent values.
func plain(value tree.Value) any {
	switch value.Kind() {
	case tree.KindScalar:
		return value.Scalar()
	case tree.KindSequence:
		items := make([]any, 0, len(value.Items()))
		for _, item := range value.Items() {
			if !item.IsAbsent() {
				items = append(items, plain(item))
			}
		}

		return items
	case tree.KindMapping:
		mapping := make(map[string]any, value.Map().Len())
		value.Map().Range(func(key string, item tree.Value) bool {
			if !item.IsAbsent() {
				mapping[key] = plain(item)
			}

			return true
		})

		return mapping
	default:
		return nil
	}
}

// isTableArray reports whether value is a sequence of mappings, ignoring Absent items
// which TOML cannot represent.
func isTableArray(value tree.Value) bool {
	if value.Kind() != tree.KindSequence {
		return false
	}
	tables := 0
	for _, item := range value.Items() {
		switch item.Kind() {
		case tree.KindAbsent:
		case tree.KindMapping:
			tables++
		default:
			return false
		}
	}

	return tables > 0
}

func joinKey(path []string) string {
	keys := make([]string, len(path))
	for i, key := range path {
		if bareKey.MatchString(key) {
			keys[i] = key
		} else {
			keys[i] = strconv.Quote(key)
		}
	}

	return strings.Join(keys, ".")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`) //nolint:gochecknoglobals
