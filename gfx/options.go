// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/gputypes"

// DefaultClearColor is the near-black background of the home screen.
var DefaultClearColor = gputypes.Color{R: 0, G: 0.005, B: 0, A: 1}

// ShaderFormat selects how WGSL sources reach the device.
type ShaderFormat uint8

const (
	// ShaderWGSL hands WGSL source to the HAL unchanged.
	ShaderWGSL ShaderFormat = iota
	// ShaderSPIRV compiles WGSL to SPIR-V with naga before module creation.
	ShaderSPIRV
)

// String returns the format name.
func (f ShaderFormat) String() string {
	switch f {
	case ShaderWGSL:
		return "wgsl"
	case ShaderSPIRV:
		return "spirv"
	default:
		return "unknown"
	}
}

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx, err := gfx.NewContext(dev, queue, surface, 1280, 720,
//	    gfx.WithCameraScale(6),
//	    gfx.WithShaderFormat(gfx.ShaderSPIRV),
//	)
type ContextOption func(*contextOptions)

type contextOptions struct {
	clearColor    gputypes.Color
	cameraScale   float32
	surfaceFormat gputypes.TextureFormat
	presentMode   PresentMode
	shaderFormat  ShaderFormat
}

func defaultOptions() contextOptions {
	return contextOptions{
		clearColor:    DefaultClearColor,
		cameraScale:   DefaultCameraScale,
		surfaceFormat: gputypes.TextureFormatBGRA8Unorm,
		presentMode:   PresentModeFifo,
		shaderFormat:  ShaderWGSL,
	}
}

// WithClearColor sets the color the clear pass fills the frame with.
func WithClearColor(c gputypes.Color) ContextOption {
	return func(o *contextOptions) {
		o.clearColor = c
	}
}

// WithCameraScale sets the visible window height in camera units.
// Non-positive values are ignored.
func WithCameraScale(scale float32) ContextOption {
	return func(o *contextOptions) {
		if scale > 0 {
			o.cameraScale = scale
		}
	}
}

// WithSurfaceFormat sets the color format of the surface and of every
// pipeline color target.
func WithSurfaceFormat(f gputypes.TextureFormat) ContextOption {
	return func(o *contextOptions) {
		o.surfaceFormat = f
	}
}

// WithPresentMode sets the presentation mode requested from the surface.
func WithPresentMode(m PresentMode) ContextOption {
	return func(o *contextOptions) {
		o.presentMode = m
	}
}

// WithShaderFormat selects WGSL or naga-compiled SPIR-V shader modules.
func WithShaderFormat(f ShaderFormat) ContextOption {
	return func(o *contextOptions) {
		o.shaderFormat = f
	}
}
