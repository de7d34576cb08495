// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyph

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"
)

// bitmap is a rasterized glyph coverage mask.
//
// Left and Top place the mask relative to the pen position on the
// baseline, in whole pixels, y down.
type bitmap struct {
	mask *image.Alpha
	left int
	top  int
}

func (b bitmap) empty() bool {
	return b.mask == nil || b.mask.Rect.Empty()
}

// rasterizer converts glyph outlines into coverage masks.
type rasterizer struct {
	font *Font
	buf  sfnt.Buffer
}

func newRasterizer(f *Font) *rasterizer {
	return &rasterizer{font: f}
}

// rasterize renders glyph id at size pixels per em. Glyphs without an
// outline (spaces) produce an empty bitmap.
func (r *rasterizer) rasterize(id uint16, size float32) (bitmap, error) {
	segs, err := r.font.sfnt.LoadGlyph(&r.buf, sfnt.GlyphIndex(id), toFixed(size), nil)
	if err != nil {
		return bitmap{}, err
	}
	if len(segs) == 0 {
		return bitmap{}, nil
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, seg := range segs {
		for i := range segmentArgs(seg.Op) {
			x, y := fromFixed(seg.Args[i].X), fromFixed(seg.Args[i].Y)
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	left := int(math.Floor(float64(minX)))
	top := int(math.Floor(float64(minY)))
	w := int(math.Ceil(float64(maxX))) - left
	h := int(math.Ceil(float64(maxY))) - top
	if w <= 0 || h <= 0 {
		return bitmap{}, nil
	}

	ox, oy := float32(left), float32(top)
	pt := func(i int, seg sfnt.Segment) (float32, float32) {
		return fromFixed(seg.Args[i].X) - ox, fromFixed(seg.Args[i].Y) - oy
	}

	v := vector.NewRasterizer(w, h)
	v.DrawOp = draw.Src
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			v.MoveTo(pt(0, seg))
		case sfnt.SegmentOpLineTo:
			v.LineTo(pt(0, seg))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(0, seg)
			x2, y2 := pt(1, seg)
			v.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(0, seg)
			x2, y2 := pt(1, seg)
			x3, y3 := pt(2, seg)
			v.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	v.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	v.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return bitmap{mask: mask, left: left, top: top}, nil
}

func segmentArgs(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}
