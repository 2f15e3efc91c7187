// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package adapter

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nil-go/treeconf/mapper"
	"github.com/nil-go/treeconf/tree"
)

// UUID converts uuid.UUID to and from its canonical string form.
// Absent decodes to uuid.Nil.
var UUID = mapper.Func( //nolint:gochecknoglobals
	func(_ *mapper.Mapper, node tree.Value) (uuid.UUID, error) {
		if node.IsAbsent() {
			return uuid.Nil, nil
		}

		text, ok := node.Scalar().(string)
		if !ok {
			return uuid.Nil, fmt.Errorf("uuid expected string, got %s: %w", node, mapper.ErrTypeMismatch)
		}
		id, err := uuid.Parse(text)
		if err != nil {
			return uuid.Nil, fmt.Errorf("parse uuid: %w: %w", err, mapper.ErrTypeMismatch)
		}

		return id, nil
	},
	func(_ *mapper.Mapper, id uuid.UUID) (tree.Value, error) {
		return tree.Scalar(id.String()), nil
	},
)
