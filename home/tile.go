// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package home

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/sprite"
	"github.com/gogpu/homescreen/text"
)

// Layout constants in camera units.
const (
	TileWidth     = 1.78
	TileHeight    = 1.0
	TileSpacing   = 0.25
	RowSpacing    = 0.75
	LeftMargin    = 0.75
	TitleHeight   = 0.5
	RowTitleSize  = 36
	fallbackInset = 0.05
)

// Tile is one piece of artwork in a row.
type Tile struct {
	Position

	title   string
	size    mgl32.Vec2
	focused bool
	image   []byte

	sprite   sprite.SpriteID
	instance sprite.InstanceID
	fallback *Label
}

// NewTile returns a tile of the default size whose image is not yet
// available.
func NewTile(title string) *Tile {
	return &Tile{title: title, size: mgl32.Vec2{TileWidth, TileHeight}}
}

// Title returns the tile title.
func (t *Tile) Title() string { return t.title }

// Size returns the unfocused tile size.
func (t *Tile) Size() mgl32.Vec2 { return t.size }

// SetSize changes the unfocused tile size.
func (t *Tile) SetSize(s mgl32.Vec2) { t.size = s }

// Focused reports whether the tile has focus.
func (t *Tile) Focused() bool { return t.focused }

// SetFocus changes the focus flag.
func (t *Tile) SetFocus(f bool) { t.focused = f }

// SetImage hands the tile its encoded image. It has an effect before the
// tile is rendered and while the tile shows placeholder art; a pending image
// is not replaced.
func (t *Tile) SetImage(data []byte) {
	if t.image == nil && (t.sprite.IsZero() || t.fallback != nil) {
		t.image = data
	}
}

// Loaded reports whether the tile has a sprite.
func (t *Tile) Loaded() bool { return !t.sprite.IsZero() }

// Sprite returns the sprite handle, zero until the tile is loaded.
func (t *Tile) Sprite() sprite.SpriteID { return t.sprite }

// Fallback returns the title label shown over placeholder art, or nil when
// the image decoded.
func (t *Tile) Fallback() *Label { return t.fallback }

func (t *Tile) SetLocalPosition(p mgl32.Vec3)  { setLocal(t, &t.Position, p) }
func (t *Tile) SetParentPosition(p mgl32.Vec3) { setParent(t, &t.Position, p) }

// PropagateToChildren moves the fallback label with the tile.
func (t *Tile) PropagateToChildren() {
	if t.fallback != nil {
		t.fallback.SetParentPosition(t.AbsolutePosition())
	}
}

// FocusedInstance returns the sprite placement for the tile's position
// and focus.
func (t *Tile) FocusedInstance() sprite.Instance {
	p := t.AbsolutePosition()
	return sprite.Focused(sprite.NewInstance(p[0], p[1], p[2], t.size[0], t.size[1]), t.focused)
}

// Visible reports whether any corner of the tile is inside the camera
// window.
func (t *Tile) Visible(cam gfx.Camera) bool {
	p := t.AbsolutePosition()
	hw, hh := t.size[0]/2, t.size[1]/2
	return cam.PointInWindow(p[0]-hw, p[1]-hh) || cam.PointInWindow(p[0]+hw, p[1]-hh) ||
		cam.PointInWindow(p[0]-hw, p[1]+hh) || cam.PointInWindow(p[0]+hw, p[1]+hh)
}

// SetRenderDetails creates the tile's sprite once its image is available
// and afterwards keeps the sprite instance in step with position and focus.
//
// Image bytes that fail to decode are replaced by the placeholder texture
// and a label with the tile title; that is not an error. An image set later
// swaps the placeholder out once it decodes. Errors are only returned when
// GPU resources cannot be created.
func (t *Tile) SetRenderDetails(sp *sprite.Pass, tp *text.Pass) error {
	if t.Loaded() {
		if t.image != nil {
			if err := t.replacePlaceholder(sp, tp); err != nil {
				return err
			}
		}
		want := t.FocusedInstance()
		if cur, ok := sp.Instance(t.instance); ok && cur != want {
			sp.SetInstance(t.instance, want)
		}
		if t.fallback != nil {
			t.layoutFallback()
			t.fallback.Sync(tp)
		}
		return nil
	}
	if t.image == nil {
		return nil
	}

	tex, err := sp.AddTextureBytes(t.image)
	if errors.Is(err, sprite.ErrDecode) {
		gfx.Logger().Warn("home: tile image rejected, using placeholder", "title", t.title, "err", err)
		tex, err = sp.Placeholder()
		if err == nil {
			t.fallback = t.newFallback()
			t.fallback.Sync(tp)
		}
	}
	if err != nil {
		return fmt.Errorf("home: tile %q: %w", t.title, err)
	}

	t.instance = sp.AddInstance(t.FocusedInstance())
	t.sprite = sp.AddSprite(tex, t.instance)
	t.image = nil
	return nil
}

func (t *Tile) replacePlaceholder(sp *sprite.Pass, tp *text.Pass) error {
	tex, err := sp.AddTextureBytes(t.image)
	t.image = nil
	if errors.Is(err, sprite.ErrDecode) {
		gfx.Logger().Warn("home: tile image rejected, keeping placeholder", "title", t.title, "err", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("home: tile %q: %w", t.title, err)
	}
	sp.SetSpriteTexture(t.sprite, tex)
	t.fallback.Remove(tp)
	t.fallback = nil
	return nil
}

func (t *Tile) newFallback() *Label {
	l := NewLabel(t.title)
	t.fallback = l
	t.layoutFallback()
	l.SetParentPosition(t.AbsolutePosition())
	return l
}

// layoutFallback fits the label inside the tile's focused quad, on the same
// depth as the quad.
func (t *Tile) layoutFallback() {
	q := sprite.Focused(sprite.NewInstance(0, 0, 0, t.size[0], t.size[1]), t.focused)
	w, h := q.Size[0], q.Size[1]
	t.fallback.SetBounds(w-2*fallbackInset, h-2*fallbackInset)
	local := mgl32.Vec3{-w/2 + fallbackInset, -h/2 + fallbackInset, q.Position[2]}
	if t.fallback.LocalPosition() != local {
		t.fallback.SetLocalPosition(local)
	}
}

// Release removes the tile's sprite and fallback label.
func (t *Tile) Release(sp *sprite.Pass, tp *text.Pass) {
	if t.Loaded() {
		sp.RemoveSprite(t.sprite)
		t.sprite, t.instance = sprite.SpriteID{}, sprite.InstanceID{}
	}
	if t.fallback != nil {
		t.fallback.Remove(tp)
		t.fallback = nil
	}
}
