// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package home

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/homescreen/text"
)

// Label is a line of text owned by the text pass once synced.
type Label struct {
	Position

	content string
	size    float32
	color   [4]float32
	bounds  [2]float32

	id    text.TextID
	dirty bool
}

// NewLabel returns a white label at the default text size.
func NewLabel(content string) *Label {
	return &Label{content: content, size: text.DefaultSize, color: text.White, dirty: true}
}

// Text returns the label string.
func (l *Label) Text() string { return l.content }

// Size returns the font size in pixels.
func (l *Label) Size() float32 { return l.size }

// ID returns the text handle, zero until the label is first synced.
func (l *Label) ID() text.TextID { return l.id }

// SetText changes the string.
func (l *Label) SetText(s string) {
	if s != l.content {
		l.content = s
		l.dirty = true
	}
}

// SetSize changes the font size in pixels.
func (l *Label) SetSize(px float32) {
	if px != l.size {
		l.size = px
		l.dirty = true
	}
}

// SetColor changes the straight RGBA color.
func (l *Label) SetColor(c [4]float32) {
	if c != l.color {
		l.color = c
		l.dirty = true
	}
}

// Bounds returns the clip width and height in camera units.
func (l *Label) Bounds() [2]float32 { return l.bounds }

// SetBounds clips the label to a width and height in camera units.
func (l *Label) SetBounds(w, h float32) {
	if b := [2]float32{w, h}; b != l.bounds {
		l.bounds = b
		l.dirty = true
	}
}

func (l *Label) SetLocalPosition(p mgl32.Vec3)  { setLocal(l, &l.Position, p) }
func (l *Label) SetParentPosition(p mgl32.Vec3) { setParent(l, &l.Position, p) }

// PropagateToChildren marks the label for an update; it has no children.
func (l *Label) PropagateToChildren() { l.dirty = true }

func (l *Label) text() text.Text {
	p := l.AbsolutePosition()
	return text.Text{
		Content:  l.content,
		Size:     l.size,
		Position: [3]float32{p[0], p[1], p[2]},
		Color:    l.color,
		Bounds:   l.bounds,
	}
}

// Sync adds the label to tp on first use and updates it after changes.
func (l *Label) Sync(tp *text.Pass) {
	if !l.dirty {
		return
	}
	if !tp.UpdateText(l.id, l.text()) {
		l.id = tp.AddText(l.text())
	}
	l.dirty = false
}

// Remove drops the label from tp. A later Sync adds it again.
func (l *Label) Remove(tp *text.Pass) {
	tp.RemoveText(l.id)
	l.id = text.TextID{}
	l.dirty = true
}
