// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package adapter_test

import (
	"image/color"
	"log/slog"
	"math"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nil-go/treeconf/adapter"
	"github.com/nil-go/treeconf/internal/assert"
	"github.com/nil-go/treeconf/mapper"
	"github.com/nil-go/treeconf/tree"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		text     string
		expected time.Duration
		err      string
	}{
		{text: "10s", expected: 10 * time.Second},
		{text: "5m30s", expected: 5*time.Minute + 30*time.Second},
		{text: "2H", expected: 2 * time.Hour},
		{text: "1w2d3h", expected: 9*24*time.Hour + 3*time.Hour},
		{text: " 90 ", expected: 90 * time.Second},
		{text: "1.5h", expected: 90 * time.Minute},
		{text: "300ms", expected: 300 * time.Millisecond},
		{text: "soon", err: `invalid duration "soon": type mismatch`},
		{text: "5x", err: `invalid duration "5x": type mismatch`},
		{text: "9223372036854775807", err: "duration 9223372036854775807s overflows: type mismatch"},
		{text: "300000000w", err: `duration "300000000w" overflows: type mismatch`},
		{text: "2562047h2562047h", err: `duration "2562047h2562047h" overflows: type mismatch`},
	}

	for _, testcase := range testcases {
		t.Run(testcase.text, func(t *testing.T) {
			t.Parallel()

			actual, err := adapter.ParseDuration(testcase.text)
			if testcase.err != "" {
				assert.EqualError(t, err, testcase.err)

				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testcase.expected, actual)
		})
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	m := newMapper()
	testcases := []struct {
		description string
		value       time.Duration
		encoded     string
	}{
		{description: "whole minutes", value: 2 * time.Hour, encoded: "120m"},
		{description: "seconds", value: 90 * time.Second, encoded: "90s"},
		{description: "zero", value: 0, encoded: "0m"},
		{description: "sub-second is dropped", value: 1500 * time.Millisecond, encoded: "1s"},
	}

	for _, testcase := range testcases {
		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			node, err := m.Encode(testcase.value)
			assert.NoError(t, err)
			assert.Equal(t, any(testcase.encoded), node.Scalar())

			decoded, err := mapper.DecodeAs[time.Duration](m, node)
			assert.NoError(t, err)
			// Round trip is exact to the second.
			assert.Equal(t, testcase.value.Truncate(time.Second), decoded)
		})
	}

	decoded, err := mapper.DecodeAs[time.Duration](m, tree.Scalar(30))
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Second, decoded)

	decoded, err = mapper.DecodeAs[time.Duration](m, tree.Absent())
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), decoded)

	_, err = mapper.DecodeAs[time.Duration](m, tree.Sequence())
	assert.ErrorIs(t, err, mapper.ErrShapeMismatch)

	for _, huge := range []any{int64(math.MaxInt64), int64(math.MinInt64), 1e300, math.NaN()} {
		_, err = mapper.DecodeAs[time.Duration](m, tree.Scalar(huge))
		assert.ErrorIs(t, err, mapper.ErrTypeMismatch)
	}
}

func TestUUID(t *testing.T) {
	t.Parallel()

	m := newMapper()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	node, err := m.Encode(id)
	assert.NoError(t, err)
	assert.Equal(t, any("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), node.Scalar())

	decoded, err := mapper.DecodeAs[uuid.UUID](m, node)
	assert.NoError(t, err)
	assert.Equal(t, id, decoded)

	decoded, err = mapper.DecodeAs[uuid.UUID](m, tree.Absent())
	assert.NoError(t, err)
	assert.Equal(t, uuid.Nil, decoded)

	_, err = mapper.DecodeAs[uuid.UUID](m, tree.Scalar("not-a-uuid"))
	assert.ErrorIs(t, err, mapper.ErrTypeMismatch)
}

func TestColor(t *testing.T) {
	t.Parallel()

	m := newMapper()
	testcases := []struct {
		description string
		node        tree.Value
		expected    color.RGBA
		err         bool
	}{
		{
			description: "hex",
			node:        tree.Scalar("#00AAFF"),
			expected:    color.RGBA{R: 0, G: 0xaa, B: 0xff, A: 0xff},
		},
		{
			description: "short hex",
			node:        tree.Scalar("#0af"),
			expected:    color.RGBA{R: 0, G: 0xaa, B: 0xff, A: 0xff},
		},
		{
			description: "mapping",
			node:        tree.From(map[string]any{"r": 1, "b": 3}),
			expected:    color.RGBA{R: 1, G: 0, B: 3, A: 0xff},
		},
		{
			description: "invalid hex",
			node:        tree.Scalar("#GGGGGG"),
			err:         true,
		},
		{
			description: "missing hash",
			node:        tree.Scalar("00AAFF"),
			err:         true,
		},
		{
			description: "channel overflow",
			node:        tree.From(map[string]any{"r": 256}),
			err:         true,
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			actual, err := mapper.DecodeAs[color.RGBA](m, testcase.node)
			if testcase.err {
				assert.ErrorIs(t, err, mapper.ErrTypeMismatch)

				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testcase.expected, actual)
		})
	}

	node, err := m.Encode(color.RGBA{R: 0, G: 170, B: 255, A: 0xff})
	assert.NoError(t, err)
	assert.Equal(t, []string{"r", "g", "b"}, node.Map().Keys())
	assert.Equal(t, any(uint64(170)), node.Map().Get("g").Scalar())
}

func TestText(t *testing.T) {
	t.Parallel()

	type holder struct {
		At    time.Time  `conf:"at"`
		Since *time.Time `conf:"since"`
		IP    net.IP     `conf:"ip"`
		Level slog.Level `conf:"level"`
	}

	m := newMapper()
	at := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	value := holder{At: at, Since: &at, IP: net.ParseIP("10.0.0.1").To4(), Level: slog.LevelWarn}
	node, err := m.Encode(value)
	assert.NoError(t, err)
	assert.Equal(t, any("2026-10-19T08:30:00Z"), node.Map().Get("at").Scalar())
	assert.Equal(t, any("10.0.0.1"), node.Map().Get("ip").Scalar())
	assert.Equal(t, any("WARN"), node.Map().Get("level").Scalar())

	decoded, err := mapper.DecodeAs[holder](m, node)
	assert.NoError(t, err)
	assert.True(t, decoded.At.Equal(at))
	assert.True(t, decoded.Since.Equal(at))
	assert.Equal(t, "10.0.0.1", decoded.IP.String())
	assert.Equal(t, slog.LevelWarn, decoded.Level)

	// A time scalar produced by the format is taken as-is.
	decoded, err = mapper.DecodeAs[holder](m, tree.From(map[string]any{"at": at}))
	assert.NoError(t, err)
	assert.True(t, decoded.At.Equal(at))
	assert.True(t, decoded.Since == nil)

	_, err = mapper.DecodeAs[holder](m, tree.From(map[string]any{"at": "yesterday"}))
	assert.ErrorIs(t, err, mapper.ErrTypeMismatch)
}

func newMapper() *mapper.Mapper {
	registry := mapper.NewRegistry()
	adapter.RegisterAll(registry)

	return mapper.New(mapper.WithRegistry(registry))
}
