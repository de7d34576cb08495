// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputest

import (
	"maps"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DrawCall is one recorded draw.
type DrawCall struct {
	Indexed       bool
	Count         uint32 // index count for indexed draws, vertex count otherwise
	InstanceCount uint32
	FirstInstance uint32
	Pipeline      hal.RenderPipeline
	Groups        map[uint32]hal.BindGroup
}

// Recorder records render pass commands instead of encoding them.
type Recorder struct {
	Draws         []DrawCall
	VertexBuffers map[uint32]hal.Buffer
	IndexBuffer   hal.Buffer
	IndexFormat   gputypes.IndexFormat

	pipeline hal.RenderPipeline
	groups   map[uint32]hal.BindGroup
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		VertexBuffers: make(map[uint32]hal.Buffer),
		groups:        make(map[uint32]hal.BindGroup),
	}
}

func (r *Recorder) SetPipeline(p hal.RenderPipeline) { r.pipeline = p }

func (r *Recorder) SetBindGroup(index uint32, group hal.BindGroup, _ []uint32) {
	r.groups[index] = group
}

func (r *Recorder) SetVertexBuffer(slot uint32, buf hal.Buffer, _ uint64) {
	r.VertexBuffers[slot] = buf
}

func (r *Recorder) SetIndexBuffer(buf hal.Buffer, format gputypes.IndexFormat, _ uint64) {
	r.IndexBuffer = buf
	r.IndexFormat = format
}

func (r *Recorder) Draw(vertexCount, instanceCount, _, firstInstance uint32) {
	r.record(false, vertexCount, instanceCount, firstInstance)
}

func (r *Recorder) DrawIndexed(indexCount, instanceCount, _ uint32, _ int32, firstInstance uint32) {
	r.record(true, indexCount, instanceCount, firstInstance)
}

func (r *Recorder) record(indexed bool, count, instances, first uint32) {
	groups := maps.Clone(r.groups)
	r.Draws = append(r.Draws, DrawCall{
		Indexed:       indexed,
		Count:         count,
		InstanceCount: instances,
		FirstInstance: first,
		Pipeline:      r.pipeline,
		Groups:        groups,
	})
}
