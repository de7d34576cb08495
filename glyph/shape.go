// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyph

import (
	"strings"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// positioned is one shaped glyph, in pixels relative to the start of its
// line on the baseline. Y grows downward.
type positioned struct {
	id uint16
	x  float32
	y  float32
}

// line is one shaped line of a run.
type line struct {
	glyphs []positioned
	width  float32
}

// runKey identifies a shaped run in the shaping cache.
type runKey struct {
	text string
	size float32
}

// shaper turns text into positioned glyph IDs using HarfBuzz shaping.
type shaper struct {
	font *Font
	hb   shaping.HarfbuzzShaper
	face *gotext.Face
}

func newShaper(f *Font) *shaper {
	return &shaper{font: f, face: gotext.NewFace(f.shaper)}
}

// shape splits text on newlines and shapes every line left to right.
func (s *shaper) shape(text string, size float32) []line {
	parts := strings.Split(text, "\n")
	lines := make([]line, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, s.shapeLine([]rune(strings.TrimSuffix(p, "\r")), size))
	}
	return lines
}

func (s *shaper) shapeLine(runes []rune, size float32) line {
	if len(runes) == 0 {
		return line{}
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      toFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	out := s.hb.Shape(input)

	l := line{glyphs: make([]positioned, 0, len(out.Glyphs))}
	var pen float32
	for _, g := range out.Glyphs {
		l.glyphs = append(l.glyphs, positioned{
			id: uint16(g.GlyphID), //nolint:gosec // glyph IDs fit in 16 bits for TrueType fonts
			x:  pen + fromFixed(g.XOffset),
			y:  -fromFixed(g.YOffset),
		})
		pen += fromFixed(g.Advance)
	}
	l.width = pen
	return l
}

// detectScript returns the script of the first rune that has one.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
