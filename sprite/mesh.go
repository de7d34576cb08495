// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

const (
	quadVertexStride = 16
	quadIndexCount   = 6
)

// quadVertices is a unit quad centered on the origin in y-down layout space:
// position (x, y) followed by texture coordinate (u, v).
var quadVertices = [4][4]float32{
	{-0.5, -0.5, 0, 0},
	{-0.5, 0.5, 0, 1},
	{0.5, 0.5, 1, 1},
	{0.5, -0.5, 1, 0},
}

var quadIndices = [quadIndexCount]uint16{0, 1, 2, 2, 3, 0}

func quadVertexBytes() []byte {
	buf := make([]byte, len(quadVertices)*quadVertexStride)
	for i, v := range quadVertices {
		for j, f := range v {
			binary.LittleEndian.PutUint32(buf[i*quadVertexStride+j*4:], math.Float32bits(f))
		}
	}
	return buf
}

// quadIndexBytes pads the index data to a multiple of four bytes, the
// granularity of buffer writes.
func quadIndexBytes() []byte {
	buf := make([]byte, 16)
	for i, idx := range quadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// spriteVertexLayout matches VertexInput and InstanceInput in sprite.wgsl:
//
//	buffer 0, per vertex:   location 0 position, location 1 uv
//	buffer 1, per instance: location 2 position, location 3 size, location 4 alpha
func spriteVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: InstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32, Offset: 20, ShaderLocation: 4},
			},
		},
	}
}
