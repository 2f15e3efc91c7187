// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package yaml reads and writes tree documents as YAML.
//
// Mapping order, field comments and the document header are kept:
// a field comment is the head comment of its key, and the header is
// the head comment of the document, separated from the first key by a blank line.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nil-go/treeconf/tree"
)

// YAML is a comment-preserving YAML codec for tree documents.
//
// To create a new YAML, call [New].
type YAML struct {
	indent int
}

// New creates a YAML with the given Option(s).
func New(opts ...Option) YAML {
	option := &options{indent: 2} //nolint:mnd
	for _, opt := range opts {
		opt(option)
	}

	return YAML(*option)
}

// Unmarshal parses data into a document.
//
// Empty data gives an empty document. The root must be a mapping.
func (y YAML) Unmarshal(data []byte) (tree.Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return tree.Document{}, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return tree.Document{Header: uncomment(doc.HeadComment), Root: tree.NewMap()}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return tree.Document{Header: uncomment(doc.HeadComment), Root: tree.NewMap()}, nil
	}
	if root.Kind != yaml.MappingNode {
		return tree.Document{}, fmt.Errorf("%w, got %s at line %d", errNotMapping, kindName(root), root.Line)
	}

	value, err := fromNode(root)
	if err != nil {
		return tree.Document{}, err
	}

	return tree.Document{Header: uncomment(doc.HeadComment), Root: value.Map()}, nil
}

// Marshal renders doc as YAML. Absent values are written as null.
func (y YAML) Marshal(doc tree.Document) ([]byte, error) {
	root, err := toNode(tree.Mapping(doc.Root))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(y.indent)
	if err := encoder.Encode(&yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: comment(doc.Header),
		Content:     []*yaml.Node{root},
	}); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return buf.Bytes(), nil
}

func fromNode(node *yaml.Node) (tree.Value, error) { //nolint:cyclop
	switch node.Kind {
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return tree.Absent(), nil
		}
		var scalar any
		if err := node.Decode(&scalar); err != nil {
			return tree.Absent(), fmt.Errorf("decode scalar at line %d: %w", node.Line, err)
		}

		return tree.Scalar(scalar), nil
	case yaml.SequenceNode:
		items := make([]tree.Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := fromNode(child)
			if err != nil {
				return tree.Absent(), err
			}
			items = append(items, item)
		}

		return tree.Sequence(items...), nil
	case yaml.MappingNode:
		mapping := tree.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, child := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return tree.Absent(), fmt.Errorf("%w, got %s key at line %d", errKeyNotScalar, kindName(key), key.Line)
			}
			value, err := fromNode(child)
			if err != nil {
				return tree.Absent(), err
			}
			mapping.Set(key.Value, value)
			mapping.SetComment(key.Value, uncomment(key.HeadComment)...)
		}

		return tree.Mapping(mapping), nil
	default:
		return tree.Absent(), fmt.Errorf("unsupported %s at line %d", kindName(node), node.Line) //nolint:err113
	}
}

func toNode(value tree.Value) (*yaml.Node, error) {
	switch value.Kind() {
	case tree.KindAbsent:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case tree.KindScalar:
		node := &yaml.Node{}
		if err := node.Encode(value.Scalar()); err != nil {
			return nil, fmt.Errorf("encode %v: %w", value.Scalar(), err)
		}

		return node, nil
	case tree.KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range value.Items() {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}

		return node, nil
	default:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		value.Map().Range(func(key string, item tree.Value) bool {
			var child *yaml.Node
			if child, err = toNode(item); err != nil {
				return false
			}
			node.Content = append(node.Content,
				&yaml.Node{
					Kind:        yaml.ScalarNode,
					Tag:         "!!str",
					Value:       key,
					HeadComment: comment(value.Map().Comment(key)),
				},
				child,
			)

			return true
		})

		return node, err
	}
}

func comment(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, line := range lines {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString("#")
		if line != "" {
			builder.WriteString(" ")
			builder.WriteString(line)
		}
	}

	return builder.String()
}

func uncomment(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "#")
		result = append(result, strings.TrimPrefix(line, " "))
	}

	return result
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}

var (
	errNotMapping   = errors.New("yaml document root must be a mapping")
	errKeyNotScalar = errors.New("yaml mapping key must be a scalar")
)
