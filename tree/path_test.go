// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/nil-go/treeconf/internal/assert"
	"github.com/nil-go/treeconf/tree"
)

func TestSub(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		values      map[string]any
		path        string
		expected    tree.Value
	}{
		{
			description: "empty values",
			values:      map[string]any{},
			path:        "a.b",
			expected:    tree.Absent(),
		},
		{
			description: "empty path",
			values:      map[string]any{"a": 1},
			path:        "",
			expected:    tree.From(map[string]any{"a": 1}),
		},
		{
			description: "top level key",
			values:      map[string]any{"a": 1, "b": 2},
			path:        "a",
			expected:    tree.Scalar(1),
		},
		{
			description: "value not exist",
			values:      map[string]any{"a": 1},
			path:        "a.b",
			expected:    tree.Absent(),
		},
		{
			description: "nest map",
			values:      map[string]any{"a": map[string]any{"x": 1, "y": 2}},
			path:        "a.y",
			expected:    tree.Scalar(2),
		},
		{
			description: "case sensitive",
			values:      map[string]any{"A": 1},
			path:        "a",
			expected:    tree.Absent(),
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			actual := tree.Sub(tree.From(testcase.values).Map(), tree.Split(testcase.path))
			assert.True(t, testcase.expected.Equal(actual))
		})
	}
}

func TestInsert(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		keys        []string
		dst         map[string]any
		expected    map[string]any
	}{
		{
			description: "empty",
			keys:        []string{"p", "k"},
			dst:         map[string]any{},
			expected:    map[string]any{"p": map[string]any{"k": "v"}},
		},
		{
			description: "override nested keys",
			keys:        []string{"p", "k"},
			dst:         map[string]any{"p": map[string]any{"k": "a"}},
			expected:    map[string]any{"p": map[string]any{"k": "v"}},
		},
		{
			description: "override non-map",
			keys:        []string{"p", "k"},
			dst:         map[string]any{"p": "a"},
			expected:    map[string]any{"p": map[string]any{"k": "v"}},
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			dst := tree.From(testcase.dst).Map()
			tree.Insert(dst, testcase.keys, tree.Scalar("v"))
			assert.Equal(t, any(testcase.expected), tree.Mapping(dst).Interface())
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		src         map[string]any
		dst         map[string]any
		expected    map[string]any
	}{
		{
			description: "empty",
			src:         map[string]any{},
			dst:         map[string]any{},
			expected:    map[string]any{},
		},
		{
			description: "no key conflict",
			src:         map[string]any{"b": 2},
			dst:         map[string]any{"a": 1},
			expected:    map[string]any{"a": 1, "b": 2},
		},
		{
			description: "key conflict",
			src:         map[string]any{"a": 0},
			dst:         map[string]any{"a": 1},
			expected:    map[string]any{"a": 0},
		},
		{
			description: "no key conflict (nest map)",
			src:         map[string]any{"a": map[string]any{"y": 2}},
			dst:         map[string]any{"a": map[string]any{"x": 1}},
			expected:    map[string]any{"a": map[string]any{"x": 1, "y": 2}},
		},
		{
			description: "key conflict (srcVal is not map)",
			src:         map[string]any{"a": 2},
			dst:         map[string]any{"a": map[string]any{"x": 1}},
			expected:    map[string]any{"a": 2},
		},
		{
			description: "key conflict (dstVal is not map)",
			src:         map[string]any{"a": map[string]any{"x": 2}},
			dst:         map[string]any{"a": 1},
			expected:    map[string]any{"a": map[string]any{"x": 2}},
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			dst := tree.From(testcase.dst).Map()
			tree.Merge(dst, tree.From(testcase.src).Map())
			assert.Equal(t, any(testcase.expected), tree.Mapping(dst).Interface())
		})
	}
}

func TestMerge_keepsOrderAndComments(t *testing.T) {
	t.Parallel()

	dst := tree.NewMap()
	dst.Set("unknown", tree.Scalar("kept"))
	dst.SetComment("unknown", "hand written")
	dst.Set("limit", tree.Scalar(5))

	src := tree.NewMap()
	src.Set("limit", tree.Scalar(9))
	src.SetComment("limit", "maximum")
	src.Set("name", tree.Scalar("x"))

	tree.Merge(dst, src)
	assert.Equal(t, []string{"unknown", "limit", "name"}, dst.Keys())
	assert.Equal(t, []string{"hand written"}, dst.Comment("unknown"))
	assert.Equal(t, []string{"maximum"}, dst.Comment("limit"))
	assert.Equal(t, any(9), dst.Get("limit").Scalar())
}

func TestMergeMissing(t *testing.T) {
	t.Parallel()

	dst := tree.From(map[string]any{
		"labels": map[string]any{"new": "y"},
		"server": map[string]any{"port": 8080},
	}).Map()
	src := tree.From(map[string]any{
		"extra":  1,
		"labels": map[string]any{"old": "x"},
		"server": map[string]any{"host": "localhost", "port": 80},
	}).Map()
	src.SetComment("extra", "hand written")
	src.SetComment("server", "from file")
	dst.SetComment("labels", "declared")

	server := dst.Get("server").Map()
	tree.MergeMissing(dst, src, func(m *tree.Map) bool { return m == server })
	assert.Equal[any](t,
		map[string]any{
			"extra":  1,
			"labels": map[string]any{"new": "y"},
			"server": map[string]any{"host": "localhost", "port": 8080},
		},
		tree.Mapping(dst).Interface(),
	)
	assert.Equal(t, []string{"labels", "server", "extra"}, dst.Keys())
	assert.Equal(t, []string{"port", "host"}, server.Keys())
	assert.Equal(t, []string{"hand written"}, dst.Comment("extra"))
	assert.Equal(t, []string{"declared"}, dst.Comment("labels"))
	assert.Equal(t, []string{"from file"}, dst.Comment("server"))
}
