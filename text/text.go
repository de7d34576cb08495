// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"github.com/gogpu/homescreen/glyph"
	"github.com/gogpu/homescreen/slot"
)

// DefaultSize is the font size in pixels used when Text.Size is zero.
const DefaultSize = 24

// White is the default text color.
var White = [4]float32{1, 1, 1, 1}

// TextID identifies a persistent text owned by a Pass.
type TextID slot.Handle

// IsZero reports whether id is the zero ID.
func (id TextID) IsZero() bool { return slot.Handle(id).IsZero() }

// Text is a run of text placed in camera units.
type Text struct {
	Content string
	// Size is the font size in pixels. Zero selects DefaultSize.
	Size float32
	// Position is the top-left corner in camera units plus depth.
	Position [3]float32
	// Color is straight RGBA. The zero value selects White.
	Color [4]float32
	// Bounds clips the run to a width and height in camera units.
	Bounds [2]float32
}

// NewText returns a Text with the default size and color.
func NewText(content string, x, y, z float32) Text {
	return Text{Content: content, Size: DefaultSize, Position: [3]float32{x, y, z}, Color: White}
}

func (t Text) section() glyph.Section {
	s := glyph.Section{
		Text:     t.Content,
		Size:     t.Size,
		Position: t.Position,
		Color:    t.Color,
		Bounds:   t.Bounds,
	}
	if s.Size <= 0 {
		s.Size = DefaultSize
	}
	if s.Color == ([4]float32{}) {
		s.Color = White
	}
	return s
}
