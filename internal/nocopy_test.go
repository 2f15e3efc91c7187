// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package internal_test

import (
	"testing"

	"github.com/nil-go/treeconf/internal"
	"github.com/nil-go/treeconf/internal/assert"
)

func TestNoCopy(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		copied      bool
		expected    any
	}{
		{
			description: "same receiver",
		},
		{
			description: "copied by value",
			copied:      true,
			expected:    "illegal use of non-zero internal_test.holder copied by value",
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			defer func() {
				assert.Equal(t, testcase.expected, recover())
			}()

			var original holder
			original.check()
			original.check()
			if testcase.copied {
				copied := original //nolint:govet
				copied.check()
			}
		})
	}
}

type holder struct {
	nocopy internal.NoCopy[holder]
}

func (h *holder) check() {
	h.nocopy.Check()
}
