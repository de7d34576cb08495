// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyph

import (
	"bytes"
	"errors"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrFont is returned when font data cannot be parsed.
var ErrFont = errors.New("glyph: invalid font")

// Font is a parsed TrueType/OpenType font.
//
// The same bytes are parsed twice: go-text for shaping and sfnt for
// outlines and metrics. Both views are read-only and may be shared.
type Font struct {
	name   string
	shaper *gotext.Font
	sfnt   *opentype.Font
}

// ParseFont parses TTF or OTF data.
func ParseFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrFont)
	}
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	name, _ := sf.Name(nil, sfnt.NameIDFamily)
	return &Font{name: name, shaper: face.Font, sfnt: sf}, nil
}

// DefaultFont returns the bundled Go Regular font.
func DefaultFont() *Font {
	f, err := ParseFont(goregular.TTF)
	if err != nil {
		panic("glyph: bundled font: " + err.Error())
	}
	return f
}

// Name returns the font family name, or "" if the font has none.
func (f *Font) Name() string { return f.name }

// LineMetrics are vertical metrics in pixels for one font size.
type LineMetrics struct {
	Ascent  float32
	Descent float32
	Height  float32
}

// Metrics returns the line metrics at size pixels per em.
func (f *Font) Metrics(size float32) LineMetrics {
	var buf sfnt.Buffer
	m, err := f.sfnt.Metrics(&buf, toFixed(size), font.HintingNone)
	if err != nil {
		return LineMetrics{Ascent: size, Height: size * 1.2}
	}
	lm := LineMetrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
	}
	if lm.Height <= 0 {
		lm.Height = lm.Ascent + lm.Descent
	}
	return lm
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
