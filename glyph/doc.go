// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package glyph lays out text and packs rasterized glyphs into an atlas.
//
// A Brush collects Sections each frame. Process shapes them with HarfBuzz
// (go-text/typesetting), rasterizes glyphs it has not seen from their
// outlines and hands the coverage masks to an upload callback together
// with their atlas rectangle. The result is a list of glyph Instances in
// camera units, ready to be drawn as textured quads.
//
// When the atlas fills up Process asks for a bigger texture instead of
// evicting glyphs:
//
//	for {
//		act := brush.Process(upload)
//		if act.Kind != glyph.ActionTextureTooSmall {
//			break
//		}
//		recreateAtlas(act.Width, act.Height)
//		brush.Resize(act.Width, act.Height)
//	}
package glyph
