// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyph

import (
	"encoding/binary"
	"math"
)

// InstanceStride is the encoded size of an Instance in bytes.
const InstanceStride = 52

// Instance is one glyph quad in camera units, y down.
type Instance struct {
	Z              float32
	LeftTop        [2]float32
	RightBottom    [2]float32
	TexLeftTop     [2]float32
	TexRightBottom [2]float32
	Color          [4]float32
}

// clip trims the quad to the rectangle [min, max], moving the texture
// coordinates by the same fraction. It reports false when nothing is left.
func (g *Instance) clip(minX, minY, maxX, maxY float32) bool {
	l, t := g.LeftTop[0], g.LeftTop[1]
	r, b := g.RightBottom[0], g.RightBottom[1]
	if r <= minX || l >= maxX || b <= minY || t >= maxY {
		return false
	}
	w, h := r-l, b-t
	du := g.TexRightBottom[0] - g.TexLeftTop[0]
	dv := g.TexRightBottom[1] - g.TexLeftTop[1]

	if l < minX {
		g.TexLeftTop[0] += (minX - l) / w * du
		g.LeftTop[0] = minX
	}
	if r > maxX {
		g.TexRightBottom[0] -= (r - maxX) / w * du
		g.RightBottom[0] = maxX
	}
	if t < minY {
		g.TexLeftTop[1] += (minY - t) / h * dv
		g.LeftTop[1] = minY
	}
	if b > maxY {
		g.TexRightBottom[1] -= (b - maxY) / h * dv
		g.RightBottom[1] = maxY
	}
	return true
}

// EncodeInstances appends the GPU layout of insts to dst.
func EncodeInstances(dst []byte, insts []Instance) []byte {
	for _, g := range insts {
		dst = appendFloats(dst, g.Z)
		dst = appendFloats(dst, g.LeftTop[:]...)
		dst = appendFloats(dst, g.RightBottom[:]...)
		dst = appendFloats(dst, g.TexLeftTop[:]...)
		dst = appendFloats(dst, g.TexRightBottom[:]...)
		dst = appendFloats(dst, g.Color[:]...)
	}
	return dst
}

func appendFloats(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}
