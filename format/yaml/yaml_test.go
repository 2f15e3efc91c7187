// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nil-go/treeconf/format/yaml"
	"github.com/nil-go/treeconf/tree"
)

const document = `# Service settings.

# Number of workers.
count: 3
name: svc
nothing: null
ports:
  - 80
  - 443
database:
  # Host name.
  host: localhost
  port: 5432
`

func TestYAML_Unmarshal(t *testing.T) {
	t.Parallel()

	doc, err := yaml.New().Unmarshal([]byte(document))
	require.NoError(t, err)

	require.Equal(t, []string{"Service settings."}, doc.Header)
	require.Equal(t, []string{"count", "name", "nothing", "ports", "database"}, doc.Root.Keys())
	require.Equal(t, []string{"Number of workers."}, doc.Root.Comment("count"))
	require.Equal(t, 3, doc.Root.Get("count").Scalar())
	require.True(t, doc.Root.Get("nothing").IsAbsent())
	require.Equal(t, []any{80, 443}, doc.Root.Get("ports").Interface())

	database := doc.Root.Get("database").Map()
	require.Equal(t, []string{"host", "port"}, database.Keys())
	require.Equal(t, []string{"Host name."}, database.Comment("host"))
}

func TestYAML_Unmarshal_errors(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		data        string
		err         string
	}{
		{
			description: "sequence root",
			data:        "- a\n- b\n",
			err:         "yaml document root must be a mapping, got sequence at line 1",
		},
		{
			description: "scalar root",
			data:        "hello\n",
			err:         "yaml document root must be a mapping, got scalar at line 1",
		},
		{
			description: "syntax",
			data:        "a: [1, 2\n",
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			_, err := yaml.New().Unmarshal([]byte(testcase.data))
			require.Error(t, err)
			if testcase.err != "" {
				require.EqualError(t, err, testcase.err)
			}
		})
	}
}

func TestYAML_Unmarshal_empty(t *testing.T) {
	t.Parallel()

	for _, data := range []string{"", "\n", "null\n", "# only a comment\n"} {
		doc, err := yaml.New().Unmarshal([]byte(data))
		require.NoError(t, err)
		require.Equal(t, 0, doc.Root.Len())
	}
}

func TestYAML_Marshal(t *testing.T) {
	t.Parallel()

	root := tree.NewMap()
	root.Set("count", tree.Scalar(3))
	root.SetComment("count", "Number of workers.", "Zero disables them.")
	root.Set("tag", tree.Absent())
	root.Set("version", tree.Scalar("1.0"))
	root.Set("ports", tree.Sequence(tree.Scalar(80), tree.Scalar(443)))
	database := tree.NewMap()
	database.Set("host", tree.Scalar("localhost"))
	database.SetComment("host", "Host name.")
	root.Set("database", tree.Mapping(database))
	root.Set("labels", tree.Mapping(nil))

	data, err := yaml.New().Marshal(tree.Document{Header: []string{"Service settings."}, Root: root})
	require.NoError(t, err)
	require.Equal(t, `# Service settings.

# Number of workers.
# Zero disables them.
count: 3
tag: null
version: "1.0"
ports:
  - 80
  - 443
database:
  # Host name.
  host: localhost
labels: {}
`, string(data))
}

func TestYAML_roundTrip(t *testing.T) {
	t.Parallel()

	codec := yaml.New(yaml.WithIndent(4))
	doc, err := codec.Unmarshal([]byte(document))
	require.NoError(t, err)

	data, err := codec.Marshal(doc)
	require.NoError(t, err)
	again, err := codec.Unmarshal(data)
	require.NoError(t, err)

	require.Equal(t, doc.Header, again.Header)
	require.True(t, tree.Mapping(doc.Root).Equal(tree.Mapping(again.Root)))
	require.Equal(t, doc.Root.Keys(), again.Root.Keys())
	require.Equal(t, doc.Root.Comment("count"), again.Root.Comment("count"))
	require.Equal(t,
		doc.Root.Get("database").Map().Comment("host"),
		again.Root.Get("database").Map().Comment("host"),
	)
}
