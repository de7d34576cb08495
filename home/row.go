// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package home

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/sprite"
	"github.com/gogpu/homescreen/text"
)

// ScrollDuration is the length of focus scroll animations in seconds.
const ScrollDuration = 0.5

// TileStride is the horizontal distance between tile centers.
const TileStride = TileWidth + TileSpacing

// RowStride is the vertical distance between rows.
const RowStride = TitleHeight + TileHeight + RowSpacing

// Row is a titled horizontal strip of tiles. Moving focus scrolls the
// strip so the focused tile sits at the left margin.
type Row struct {
	Position

	title   *Label
	tiles   []*Tile
	focused int
	active  bool
	scroll  tween
}

// NewRow returns an empty row.
func NewRow(title string) *Row {
	l := NewLabel(title)
	l.SetSize(RowTitleSize)
	l.SetLocalPosition(mgl32.Vec3{LeftMargin, 0, 0})
	return &Row{title: l, scroll: tween{ease: EaseInOutCubic}}
}

// Title returns the title label.
func (r *Row) Title() *Label { return r.title }

// Tiles returns the tiles in order.
func (r *Row) Tiles() []*Tile { return r.tiles }

// Focused returns the index of the focused tile.
func (r *Row) Focused() int { return r.focused }

// TilePosition returns the local center of tile i before scrolling.
func TilePosition(i int) mgl32.Vec3 {
	return mgl32.Vec3{LeftMargin + TileWidth/2 + TileStride*float32(i), TitleHeight + TileHeight/2, 0}
}

// PushTile appends t to the row.
func (r *Row) PushTile(t *Tile) {
	t.SetLocalPosition(TilePosition(len(r.tiles)))
	t.SetParentPosition(r.stripOrigin())
	if r.active && len(r.tiles) == r.focused {
		t.SetFocus(true)
	}
	r.tiles = append(r.tiles, t)
}

// SetActive gives or takes focus from the row's focused tile.
func (r *Row) SetActive(active bool) {
	r.active = active
	if r.focused < len(r.tiles) {
		r.tiles[r.focused].SetFocus(active)
	}
}

// Move shifts focus by dx tiles, clamped to the row. It reports whether
// focus changed.
func (r *Row) Move(dx int) bool {
	if len(r.tiles) == 0 {
		return false
	}
	next := min(max(r.focused+dx, 0), len(r.tiles)-1)
	if next == r.focused {
		return false
	}
	r.focus(next)
	return true
}

func (r *Row) focus(i int) {
	if r.focused < len(r.tiles) {
		r.tiles[r.focused].SetFocus(false)
	}
	r.focused = i
	if r.active {
		r.tiles[i].SetFocus(true)
	}
	r.scroll.retarget(mgl32.Vec3{-TileStride * float32(i), 0, 0}, ScrollDuration)
}

// Update advances the scroll animation by dt seconds.
func (r *Row) Update(dt float64) {
	if r.scroll.advance(dt) {
		r.PropagateToChildren()
	}
}

func (r *Row) stripOrigin() mgl32.Vec3 {
	return r.AbsolutePosition().Add(r.scroll.value())
}

func (r *Row) SetLocalPosition(p mgl32.Vec3)  { setLocal(r, &r.Position, p) }
func (r *Row) SetParentPosition(p mgl32.Vec3) { setParent(r, &r.Position, p) }

// PropagateToChildren moves the title and the scrolled tile strip.
func (r *Row) PropagateToChildren() {
	r.title.SetParentPosition(r.AbsolutePosition())
	origin := r.stripOrigin()
	for _, t := range r.tiles {
		t.SetParentPosition(origin)
	}
}

// SetRenderDetails syncs the title and every tile. Tiles outside the
// camera window are not loaded until they scroll into view.
func (r *Row) SetRenderDetails(sp *sprite.Pass, tp *text.Pass, cam gfx.Camera) error {
	r.title.Sync(tp)
	for _, t := range r.tiles {
		if !t.Loaded() && !t.Visible(cam) {
			continue
		}
		if err := t.SetRenderDetails(sp, tp); err != nil {
			return err
		}
	}
	return nil
}
