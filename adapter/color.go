// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package adapter

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/nil-go/treeconf/mapper"
	"github.com/nil-go/treeconf/tree"
)

// Color converts opaque color.RGBA values.
//
// It decodes either a mapping `{r: 0, g: 170, b: 255}` (missing channels are 0)
// or a hex string `#00AAFF` (or short `#0AF`), and encodes the mapping form.
var Color = mapper.Func(decodeColor, encodeColor) //nolint:gochecknoglobals

type rgb struct {
	R uint8 `conf:"r"`
	G uint8 `conf:"g"`
	B uint8 `conf:"b"`
}

func decodeColor(m *mapper.Mapper, node tree.Value) (color.RGBA, error) {
	switch node.Kind() {
	case tree.KindAbsent:
		return color.RGBA{}, nil
	case tree.KindMapping:
		channels, err := mapper.DecodeAs[rgb](m, node)
		if err != nil {
			return color.RGBA{}, err
		}

		return color.RGBA{R: channels.R, G: channels.G, B: channels.B, A: 0xff}, nil
	case tree.KindScalar:
		if text, ok := node.Scalar().(string); ok {
			if hex, err := colorful.Hex(text); err == nil {
				r, g, b := hex.RGB255()

				return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
			}
		}
	default:
	}

	return color.RGBA{}, fmt.Errorf(`color must be {r,g,b} or "#RRGGBB", got %s: %w`, node, mapper.ErrTypeMismatch)
}

func encodeColor(m *mapper.Mapper, value color.RGBA) (tree.Value, error) {
	return m.Encode(rgb{R: value.R, G: value.G, B: value.B})
}
