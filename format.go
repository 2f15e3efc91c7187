// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package treeconf

import (
	"path/filepath"
	"strings"

	"github.com/nil-go/treeconf/format/toml"
	"github.com/nil-go/treeconf/format/yaml"
	"github.com/nil-go/treeconf/tree"
)

// Format reads and writes the document of a configuration file.
//
// Unmarshal must return a document with a non-nil root,
// and treat empty data as an empty document.
type Format interface {
	Unmarshal(data []byte) (tree.Document, error)
	Marshal(doc tree.Document) ([]byte, error)
}

func formatFor(path string) Format { //nolint:ireturn
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.New()
	}

	return yaml.New()
}
