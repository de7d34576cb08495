// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package home

import "github.com/go-gl/mathgl/mgl32"

// Node is an element of the layout hierarchy. A node's absolute position
// is its parent's absolute position plus its local offset.
type Node interface {
	LocalPosition() mgl32.Vec3
	AbsolutePosition() mgl32.Vec3
	SetLocalPosition(p mgl32.Vec3)
	SetParentPosition(p mgl32.Vec3)
	// PropagateToChildren pushes the absolute position down to children.
	PropagateToChildren()
}

// Position holds the local and inherited offsets of a node. Embedding
// types provide PropagateToChildren.
type Position struct {
	parent mgl32.Vec3
	local  mgl32.Vec3
}

// LocalPosition returns the offset relative to the parent.
func (p *Position) LocalPosition() mgl32.Vec3 { return p.local }

// AbsolutePosition returns the parent position plus the local offset.
func (p *Position) AbsolutePosition() mgl32.Vec3 { return p.parent.Add(p.local) }

func setLocal(n Node, p *Position, v mgl32.Vec3) {
	p.local = v
	n.PropagateToChildren()
}

func setParent(n Node, p *Position, v mgl32.Vec3) {
	p.parent = v
	n.PropagateToChildren()
}

var (
	_ Node = (*Label)(nil)
	_ Node = (*Tile)(nil)
	_ Node = (*Row)(nil)
	_ Node = (*Grid)(nil)
)
