// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PresentMode controls how acquired frames are paced against the display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank.
	PresentModeFifo PresentMode = iota
	// PresentModeMailbox replaces the queued frame without tearing.
	PresentModeMailbox
	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

// SurfaceConfig is the configuration applied to a Surface on creation and on
// every resize.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
}

// SurfaceFrame is one acquired presentable image.
type SurfaceFrame struct {
	Texture hal.Texture
	View    hal.TextureView
	// Suboptimal is set when the frame can be drawn but the surface should
	// be reconfigured soon.
	Suboptimal bool
}

// Surface is the presentable target of a Context, implemented by the
// windowing layer.
//
// Acquire reports per-frame conditions through ErrSurfaceLost,
// ErrSurfaceOutdated, ErrSurfaceTimeout and ErrOutOfMemory (wrapped or not);
// any other error is treated as transient by the renderer.
type Surface interface {
	Configure(device hal.Device, cfg SurfaceConfig) error
	Acquire() (SurfaceFrame, error)
	Present(queue hal.Queue, frame SurfaceFrame) error
	Discard(frame SurfaceFrame)
}
