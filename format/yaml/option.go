// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package yaml

// WithIndent provides the number of spaces used for indentation.
//
// The default indentation is 2 spaces.
func WithIndent(indent int) Option {
	return func(options *options) {
		options.indent = indent
	}
}

type (
	// Option configures a YAML with specific options.
	Option  func(options *options)
	options YAML
)
