// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package treeconf

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/nil-go/treeconf/internal"
	"github.com/nil-go/treeconf/mapper"
	"github.com/nil-go/treeconf/schema"
)

// Store owns the live configuration value of type T backed by a file.
//
// To create a new Store, call [Open].
type Store[T any] struct {
	nocopy internal.NoCopy[Store[T]]

	logger   *slog.Logger
	defaults func() (T, error)
	value    atomic.Pointer[T]

	// Serializes access to the file and the swap of value on reload.
	engine      engine
	engineMutex sync.Mutex

	listeners      []func(T)
	listenersMutex sync.RWMutex
}

// Open loads the configuration file at path into a new Store with the given Option(s).
//
// If the file does not exist, it is created from defaults, or from the defaults
// declared by the schema of T if defaults is nil. Otherwise the file is decoded
// and then rewritten in the shape of T, so that new fields and comments appear in it.
// It returns an error wrapping [ErrLoad] if the file cannot be loaded,
// or [ErrIO] if it cannot be written.
//
// It panics if the path is empty.
func Open[T any](path string, defaults func() T, opts ...Option) (*Store[T], error) {
	if path == "" {
		panic("cannot open Store with empty path")
	}

	option := apply(path, opts)
	logger := slog.New(option.handler).WithGroup("treeconf")
	store := &Store[T]{
		logger: logger,
		engine: engine{
			path:     path,
			format:   option.format,
			mapper:   mapper.New(mapper.WithRegistry(option.registry)),
			logger:   logger,
			seed:     option.seed,
			seedName: option.seedName,
			mode:     option.mode,
		},
	}
	if defaults == nil {
		store.defaults = schemaDefaults[T]
	} else {
		store.defaults = func() (T, error) { return defaults(), nil }
	}

	value, err := load(&store.engine, store.defaults)
	if err != nil {
		return nil, err
	}
	store.value.Store(&value)

	return store, nil
}

// Get returns the current value. It does not block.
func (s *Store[T]) Get() T {
	s.nocopy.Check()

	return *s.value.Load()
}

// Path returns the path of the configuration file.
func (s *Store[T]) Path() string {
	return s.engine.path
}

// Reload loads the configuration file again, replaces the current value,
// and then calls every listener registered with [Store.OnReload] in registration order.
// The file is always read after Reload is called, even if another reload is in progress.
//
// On error, the current value is kept and no listener is called.
func (s *Store[T]) Reload() error {
	s.nocopy.Check()

	value, err := s.reload()
	if err != nil {
		return err
	}
	s.logger.LogAttrs(
		context.Background(), slog.LevelInfo,
		"Configuration has been reloaded.",
		slog.String("file", s.engine.path),
	)
	// Listeners run outside the lock so they may call Reload or Save.
	s.notify(value)

	return nil
}

func (s *Store[T]) reload() (T, error) {
	s.engineMutex.Lock()
	defer s.engineMutex.Unlock()

	value, err := load(&s.engine, s.defaults)
	if err != nil {
		return value, err
	}
	s.value.Store(&value)

	return value, nil
}

func (s *Store[T]) notify(value T) {
	s.listenersMutex.RLock()
	listeners := s.listeners
	s.listenersMutex.RUnlock()

	for _, listener := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.LogAttrs(
						context.Background(), slog.LevelError,
						"Panic in configuration reload listener.",
						slog.String("file", s.engine.path),
						slog.Any("panic", r),
					)
				}
			}()

			listener(value)
		}()
	}
}

// OnReload registers a listener called with the new value after each successful reload.
// Listeners are never removed.
//
// It panics if listener is nil.
func (s *Store[T]) OnReload(listener func(T)) {
	s.nocopy.Check()

	if listener == nil {
		panic("cannot register nil reload listener")
	}

	s.listenersMutex.Lock()
	defer s.listenersMutex.Unlock()

	// Appending to a full slice copies it, so a notification in progress keeps its snapshot.
	s.listeners = append(s.listeners[:len(s.listeners):len(s.listeners)], listener)
}

// Save writes the current value to the configuration file.
// Keys in the file that T does not declare are kept.
//
// It returns an error wrapping [ErrIO] if the file cannot be written.
func (s *Store[T]) Save() error {
	s.nocopy.Check()

	s.engineMutex.Lock()
	defer s.engineMutex.Unlock()

	return s.engine.save(*s.value.Load())
}

// SetAndSave replaces the current value with value and writes it to the configuration file.
// Listeners are not called.
func (s *Store[T]) SetAndSave(value T) error {
	s.nocopy.Check()

	s.engineMutex.Lock()
	defer s.engineMutex.Unlock()

	s.value.Store(&value)

	return s.engine.save(value)
}

func (s *Store[T]) content() []byte {
	s.engineMutex.Lock()
	defer s.engineMutex.Unlock()

	return s.engine.content
}

// schemaDefaults returns the zero T with the defaults declared by its schema applied.
func schemaDefaults[T any]() (T, error) {
	var value T

	target := reflect.ValueOf(&value).Elem()
	if target.Kind() == reflect.Pointer && schema.Has(target.Type().Elem()) {
		target.Set(reflect.New(target.Type().Elem()))
		target = target.Elem()
	}
	if !schema.Has(target.Type()) {
		return value, nil
	}
	if err := schema.ApplyDefaults(target); err != nil {
		return value, fmt.Errorf("apply defaults: %w", err)
	}

	return value, nil
}
