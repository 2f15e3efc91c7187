// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

//go:build !appengine && (darwin || dragonfly || freebsd || openbsd || linux || netbsd || solaris || windows)

package treeconf_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nil-go/treeconf"
)

func TestStore_Watch(t *testing.T) {
	t.Parallel()

	dir, err := os.MkdirTemp("", "*") // t.TempDir() causes deadlock on macos.
	require.NoError(t, err)
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	path := filepath.Join(dir, "config.yaml")

	store, err := treeconf.Open[config](path, nil, discardLogs())
	require.NoError(t, err)
	values := make(chan config, 16)
	store.OnReload(func(value config) {
		values <- value
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error)
	go func() {
		done <- store.Watch(ctx)
	}()
	time.Sleep(time.Second) // wait for the watcher to start

	// Writes by the store itself do not reload.
	value := store.Get()
	value.Name = "self"
	require.NoError(t, store.SetAndSave(value))
	time.Sleep(500 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("limit: 9\n"), 0o600))
	timeout := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case value := <-values:
			require.NotEqual(t, "self", value.Name)
			reloaded = value.Limit == 9
		case <-timeout:
			require.FailNow(t, "configuration has not been reloaded")
		}
	}
	require.Equal(t, 9, store.Get().Limit)

	cancel()
	require.NoError(t, <-done)
}

func TestStore_Watch_panic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := treeconf.Open[config](path, nil, discardLogs())
	require.NoError(t, err)

	require.PanicsWithValue(t, "cannot watch change with nil context", func() {
		//nolint:staticcheck
		_ = store.Watch(nil)
	})
}
