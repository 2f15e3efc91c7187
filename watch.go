// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

//go:build !appengine && (darwin || dragonfly || freebsd || openbsd || linux || netbsd || solaris || windows)

package treeconf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration file whenever it changes on disk,
// as [Store.Reload] does. Writes made by the Store itself are ignored.
// It blocks until ctx is done.
//
// It panics if ctx is nil.
func (s *Store[T]) Watch(ctx context.Context) error { //nolint:cyclop,funlen
	if ctx == nil {
		panic("cannot watch change with nil context")
	}
	s.nocopy.Check()

	path := s.engine.path
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher for %s: %w", path, err)
	}
	defer func() {
		if e := watcher.Close(); e != nil {
			s.logger.LogAttrs(
				ctx, slog.LevelWarn,
				"Error when closing file watcher.",
				slog.String("file", path),
				slog.Any("error", e),
			)
		}
	}()

	// Although only a single file is being watched, fsnotify has to watch
	// the whole parent directory to pick up all events such as symlink changes.
	dir, _ := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if e := watcher.Add(dir); e != nil {
		return fmt.Errorf("watch dir %s: %w", dir, e)
	}

	// Resolve symlinks and save the original path so that changes to symlinks
	// can be detected.
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("eval symlink: %w", err)
	}
	realPath = filepath.Clean(realPath)
	cleanPath := filepath.Clean(path)

	var (
		lastEvent     string
		lastEventTime time.Time

		// Reload once the file has not changed for a while,
		// so a file being written is not read half way.
		settle  = time.NewTimer(time.Hour)
		settled <-chan time.Time
	)
	settle.Stop()
	defer settle.Stop()
	for {
		select {
		case event := <-watcher.Events:
			// Use a simple timer to buffer events as certain events fire
			// multiple times on some platforms.
			if event.String() == lastEvent && time.Since(lastEventTime) < 5*time.Millisecond {
				continue
			}
			lastEvent = event.String()
			lastEventTime = time.Now()

			// Since the event is triggered on a directory, is this
			// one on the file being watched?
			evFile := filepath.Clean(event.Name)
			if evFile != realPath && evFile != cleanPath {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove):
				s.logger.LogAttrs(
					ctx, slog.LevelWarn,
					"Configuration file has been removed.",
					slog.String("file", path),
				)
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				if !settle.Stop() && settled != nil {
					select {
					case <-settle.C:
					default:
					}
				}
				settle.Reset(settlePeriod)
				settled = settle.C
			}

		case <-settled:
			settled = nil
			data, err := os.ReadFile(path)
			if err != nil || bytes.Equal(data, s.content()) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.LogAttrs(
					ctx, slog.LevelWarn,
					"Error when reloading configuration file.",
					slog.String("file", path),
					slog.Any("error", err),
				)
			}

		case err := <-watcher.Errors:
			s.logger.LogAttrs(
				ctx, slog.LevelWarn,
				"Error when watching file.",
				slog.String("file", path),
				slog.Any("error", err),
			)

		case <-ctx.Done():
			return nil
		}
	}
}

const settlePeriod = 100 * time.Millisecond
