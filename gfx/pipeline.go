// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DepthState returns the depth-stencil state for pipelines drawing into the
// shared depth target. Stencil is always Always/Keep.
func DepthState(compare gputypes.CompareFunction, write bool) *hal.DepthStencilState {
	face := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront:      face,
		StencilBack:       face,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// ColorTarget returns the alpha-blended color target for the surface format.
// Fragment shaders output premultiplied color.
func (c *Context) ColorTarget() gputypes.ColorTargetState {
	blend := gputypes.BlendStatePremultiplied()
	return gputypes.ColorTargetState{
		Format:    c.opts.surfaceFormat,
		Blend:     &blend,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
}

// TextureLayoutEntries returns the bind group layout entries of a sampled
// float texture at binding 0 and its filtering sampler at binding 1.
func TextureLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
}

// CreateTextureBindGroup binds view and sampler to a layout built from
// TextureLayoutEntries.
func (c *Context) CreateTextureBindGroup(label string, layout hal.BindGroupLayout, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	return c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		},
	})
}
