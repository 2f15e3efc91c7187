// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package internal_test

import (
	"testing"

	"github.com/nil-go/treeconf/internal"
	"github.com/nil-go/treeconf/internal/assert"
)

func TestByteSlice2String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", internal.ByteSlice2String(nil))
	assert.Equal(t, "limit = 5", internal.ByteSlice2String([]byte("limit = 5")))
}
