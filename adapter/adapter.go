// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package adapter provides built-in adapters for types commonly found in configuration.
package adapter

import (
	"encoding"
	"image/color"
	"time"

	"github.com/google/uuid"

	"github.com/nil-go/treeconf/mapper"
)

// RegisterAll registers all built-in adapters into the given registry.
// The text adapter is registered last, so it only serves types
// without a more specific adapter.
func RegisterAll(registry *mapper.Registry) {
	mapper.Register[time.Duration](registry, Duration)
	mapper.Register[uuid.UUID](registry, UUID)
	mapper.Register[color.RGBA](registry, Color)
	mapper.Register[encoding.TextUnmarshaler](registry, Text)
}
