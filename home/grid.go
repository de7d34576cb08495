// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package home

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/sprite"
	"github.com/gogpu/homescreen/text"
)

// Grid is the vertical stack of rows making up the home screen. Moving
// focus between rows scrolls the stack so the focused row is at the top.
type Grid struct {
	Position

	rows    []*Row
	focused int
	scroll  tween
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{scroll: tween{ease: EaseInOutCubic}}
}

// Rows returns the rows in order.
func (g *Grid) Rows() []*Row { return g.rows }

// Focus returns the focused row and tile indices.
func (g *Grid) Focus() (row, tile int) {
	if len(g.rows) == 0 {
		return 0, 0
	}
	return g.focused, g.rows[g.focused].Focused()
}

// FocusedTile returns the tile with focus, or nil.
func (g *Grid) FocusedTile() *Tile {
	if len(g.rows) == 0 {
		return nil
	}
	r := g.rows[g.focused]
	if r.focused >= len(r.tiles) {
		return nil
	}
	return r.tiles[r.focused]
}

// PushRow appends r below the existing rows. The first row receives focus.
func (g *Grid) PushRow(r *Row) {
	r.SetLocalPosition(mgl32.Vec3{0, RowStride * float32(len(g.rows)), 0})
	r.SetParentPosition(g.stackOrigin())
	g.rows = append(g.rows, r)
	if len(g.rows) == 1 {
		r.SetActive(true)
	}
}

// Move shifts focus by dx tiles within the focused row and dy rows. The
// tile index carries over between rows, clamped to the new row's length.
// It reports whether focus changed.
func (g *Grid) Move(dx, dy int) bool {
	if len(g.rows) == 0 {
		return false
	}
	changed := false
	if dy != 0 {
		next := min(max(g.focused+dy, 0), len(g.rows)-1)
		if next != g.focused {
			tile := g.rows[g.focused].Focused()
			g.rows[g.focused].SetActive(false)
			g.focused = next
			r := g.rows[next]
			if n := len(r.tiles); n > 0 && r.focused != min(tile, n-1) {
				r.focus(min(tile, n-1))
			}
			r.SetActive(true)
			g.scroll.retarget(mgl32.Vec3{0, -RowStride * float32(next), 0}, ScrollDuration)
			changed = true
		}
	}
	if dx != 0 && g.rows[g.focused].Move(dx) {
		changed = true
	}
	return changed
}

// Update advances every scroll animation by dt seconds.
func (g *Grid) Update(dt float64) {
	if g.scroll.advance(dt) {
		g.PropagateToChildren()
	}
	for _, r := range g.rows {
		r.Update(dt)
	}
}

func (g *Grid) stackOrigin() mgl32.Vec3 {
	return g.AbsolutePosition().Add(g.scroll.value())
}

func (g *Grid) SetLocalPosition(p mgl32.Vec3)  { setLocal(g, &g.Position, p) }
func (g *Grid) SetParentPosition(p mgl32.Vec3) { setParent(g, &g.Position, p) }

// PropagateToChildren moves every row with the scrolled stack.
func (g *Grid) PropagateToChildren() {
	origin := g.stackOrigin()
	for _, r := range g.rows {
		r.SetParentPosition(origin)
	}
}

// SetRenderDetails syncs every row with the passes.
func (g *Grid) SetRenderDetails(sp *sprite.Pass, tp *text.Pass, cam gfx.Camera) error {
	for _, r := range g.rows {
		if err := r.SetRenderDetails(sp, tp, cam); err != nil {
			return err
		}
	}
	return nil
}
