// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyph

import "image"

// shelfPadding is the gap left between packed glyphs so that linear
// sampling never bleeds into a neighbour.
const shelfPadding = 1

// shelf is a horizontal strip of the atlas holding glyphs left to right.
type shelf struct {
	y      int
	height int
	nextX  int
}

// shelfPacker assigns atlas rectangles to glyph bitmaps.
//
// Rectangles go on the first shelf with room and enough height. Only the
// last shelf may grow taller, since nothing sits below it yet.
type shelfPacker struct {
	width   int
	height  int
	shelves []shelf
	used    int
}

func newShelfPacker(width, height int) *shelfPacker {
	return &shelfPacker{width: width, height: height}
}

// allocate reserves a w by h rectangle. It reports false when the atlas
// has no room left.
func (p *shelfPacker) allocate(w, h int) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	if w > p.width || h > p.height {
		return image.Rectangle{}, false
	}
	pw, ph := w+shelfPadding, h+shelfPadding

	last := len(p.shelves) - 1
	for i := range p.shelves {
		s := &p.shelves[i]
		if s.nextX+w > p.width {
			continue
		}
		if ph > s.height {
			if i != last || s.y+h > p.height {
				continue
			}
			s.height = ph
		}
		return p.place(s, w, h, pw), true
	}

	y := 0
	if last >= 0 {
		y = p.shelves[last].y + p.shelves[last].height
	}
	if y+h > p.height {
		return image.Rectangle{}, false
	}
	p.shelves = append(p.shelves, shelf{y: y, height: ph})
	return p.place(&p.shelves[len(p.shelves)-1], w, h, pw), true
}

func (p *shelfPacker) place(s *shelf, w, h, pw int) image.Rectangle {
	r := image.Rect(s.nextX, s.y, s.nextX+w, s.y+h)
	s.nextX += pw
	p.used += w * h
	return r
}

// reset forgets every allocation and adopts new dimensions.
func (p *shelfPacker) reset(width, height int) {
	p.width, p.height = width, height
	p.shelves = p.shelves[:0]
	p.used = 0
}

// utilization returns the fraction of the atlas covered by glyphs.
func (p *shelfPacker) utilization() float64 {
	if p.width == 0 || p.height == 0 {
		return 0
	}
	return float64(p.used) / float64(p.width*p.height)
}
