// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCameraScale is the visible height of the window in camera units.
const DefaultCameraScale = 5.0

// CameraUniformSize is the size in bytes of the camera uniform: one
// column-major 4x4 float32 matrix.
const CameraUniformSize = 64

// clipDepth maps OpenGL clip depth [-w, w] onto the [0, w] range WebGPU
// expects. mgl32.Ortho follows the OpenGL convention.
var clipDepth = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is an orthographic camera anchored at the top-left of the window.
//
// Right is always Aspect*Scale and Bottom is always -Scale, so the vertical
// extent is fixed and the horizontal extent follows the window shape.
// Shaders flip layout y (which grows downward) into world y before applying
// the view-projection, so the visible layout area is [0, Right] x [0, Scale].
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	Left, Right float32
	Bottom, Top float32
	Near, Far   float32

	Scale float32
}

// NewCamera returns the camera for a surface of the given pixel size. A
// non-positive scale selects DefaultCameraScale.
func NewCamera(width, height uint32, scale float32) Camera {
	if scale <= 0 {
		scale = DefaultCameraScale
	}
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return Camera{
		Eye:    mgl32.Vec3{0, 0, 1},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		Left:   0,
		Right:  aspect * scale,
		Bottom: -scale,
		Top:    0,
		Near:   0,
		Far:    100,
		Scale:  scale,
	}
}

// ViewProjection returns projection * view in WebGPU clip space.
func (c Camera) ViewProjection() mgl32.Mat4 {
	view := mgl32.LookAtV(c.Eye, c.Target, c.Up)
	proj := mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
	return clipDepth.Mul4(proj).Mul4(view)
}

// PointInWindow reports whether the layout point (x, y) is strictly inside
// the visible area. y grows downward.
func (c Camera) PointInWindow(x, y float32) bool {
	return x > c.Left && x < c.Right && y > c.Top && y < -c.Bottom
}

// PixelsPerUnit returns how many surface pixels one camera unit spans for a
// surface of the given height.
func (c Camera) PixelsPerUnit(height uint32) float32 {
	if c.Scale <= 0 {
		return 0
	}
	return float32(height) / c.Scale
}

// Uniform encodes the view-projection matrix as a CameraUniformSize byte
// uniform block.
func (c Camera) Uniform() []byte {
	m := c.ViewProjection()
	buf := make([]byte, CameraUniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
