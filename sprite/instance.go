// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"encoding/binary"
	"math"
)

// InstanceStride is the encoded size of an Instance in bytes.
const InstanceStride = 24

// FocusScale is the size multiplier applied to a focused element.
const FocusScale = 1.2

// Instance places one quad in layout space: Position is the quad center
// (x right, y down, z toward the viewer) and Size its extent in camera units.
type Instance struct {
	Position [3]float32
	Size     [2]float32
	Alpha    float32
}

// NewInstance returns an opaque instance.
func NewInstance(x, y, z, w, h float32) Instance {
	return Instance{Position: [3]float32{x, y, z}, Size: [2]float32{w, h}, Alpha: 1}
}

// Focused returns inst scaled by FocusScale and raised one depth unit when
// focused is true, and inst unchanged otherwise.
func Focused(inst Instance, focused bool) Instance {
	if !focused {
		return inst
	}
	inst.Size[0] *= FocusScale
	inst.Size[1] *= FocusScale
	inst.Position[2]++
	return inst
}

// encodeInstance writes inst in the layout of the sprite shader's
// InstanceInput.
func encodeInstance(dst []byte, inst Instance) {
	le := binary.LittleEndian
	le.PutUint32(dst[0:4], math.Float32bits(inst.Position[0]))
	le.PutUint32(dst[4:8], math.Float32bits(inst.Position[1]))
	le.PutUint32(dst[8:12], math.Float32bits(inst.Position[2]))
	le.PutUint32(dst[12:16], math.Float32bits(inst.Size[0]))
	le.PutUint32(dst[16:20], math.Float32bits(inst.Size[1]))
	le.PutUint32(dst[20:24], math.Float32bits(inst.Alpha))
}

// decodeInstance is the inverse of encodeInstance.
func decodeInstance(src []byte) Instance {
	le := binary.LittleEndian
	f := func(off int) float32 { return math.Float32frombits(le.Uint32(src[off:])) }
	return Instance{
		Position: [3]float32{f(0), f(4), f(8)},
		Size:     [2]float32{f(12), f(16)},
		Alpha:    f(20),
	}
}
