// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

//go:build appengine || !(darwin || dragonfly || freebsd || openbsd || linux || netbsd || solaris || windows)

package treeconf

import (
	"context"
	"log/slog"
	"runtime"
)

// Watch is not supported on this platform. It returns immediately.
func (s *Store[T]) Watch(ctx context.Context) error {
	s.logger.LogAttrs(
		ctx, slog.LevelWarn,
		"Store.Watch is not supported on this platform.",
		slog.String("os", runtime.GOOS),
	)

	return nil
}
