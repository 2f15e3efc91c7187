// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package treeconf

import (
	"io/fs"
	"log/slog"

	"github.com/nil-go/treeconf/adapter"
	"github.com/nil-go/treeconf/mapper"
)

// WithFormat provides the Format of the configuration file.
//
// By default, files with the `.toml` extension are TOML, and others are YAML.
func WithFormat(format Format) Option {
	return func(options *options) {
		options.format = format
	}
}

// WithRegistry provides the adapter registry used to convert values.
//
// By default, it uses a registry with all built-in adapters (see package adapter).
func WithRegistry(registry *mapper.Registry) Option {
	return func(options *options) {
		options.registry = registry
	}
}

// WithLogHandler provides the slog.Handler for logs from Store.
//
// By default, it uses handler from slog.Default().
func WithLogHandler(handler slog.Handler) Option {
	return func(options *options) {
		if handler != nil {
			options.handler = handler
		}
	}
}

// WithSeed provides a document copied into place when the configuration file does not exist,
// for example from an embed.FS. The seed is then loaded like an existing file.
//
// If the seed does not exist in fsys either, the file is created from defaults.
func WithSeed(fsys fs.FS, name string) Option {
	return func(options *options) {
		options.seed = fsys
		options.seedName = name
	}
}

// WithFileMode provides the permission bits of the configuration file when it is written.
//
// The default mode is 0o644.
func WithFileMode(mode fs.FileMode) Option {
	return func(options *options) {
		options.mode = mode
	}
}

// Option configures a Store with specific options.
type Option func(*options)

type options struct {
	format   Format
	registry *mapper.Registry
	handler  slog.Handler
	seed     fs.FS
	seedName string
	mode     fs.FileMode
}

func apply(path string, opts []Option) options {
	option := &options{
		mode: 0o644, //nolint:mnd
	}
	for _, opt := range opts {
		opt(option)
	}
	if option.format == nil {
		option.format = formatFor(path)
	}
	if option.registry == nil {
		option.registry = mapper.NewRegistry()
		adapter.RegisterAll(option.registry)
	}
	if option.handler == nil {
		option.handler = slog.Default().Handler()
	}

	return *option
}
