// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx owns the GPU state shared by every render pass of the home
// screen: the HAL device and queue, the presentable surface, the orthographic
// camera uniform and the depth target.
//
// A Context is created once from an opened device (see [OpenDevice]) or from
// a host that already owns one (see [NewContextFromProvider]). Passes such as
// sprite.Pass and text.Pass are built independently against the Context and
// composed into one frame by render.Renderer.
//
// # Coordinates
//
// World space is measured in camera units with the origin at the top-left
// corner of the window and y growing downward. The visible height is always
// [Camera.Scale] units; the visible width follows the aspect ratio.
//
// # Buffers
//
// [SyncedBuffer] mirrors a slot arena of fixed-layout records into one GPU
// buffer. A hal.Buffer returned by [SyncedBuffer.Buffer] may be replaced by
// the next Sync, so callers fetch it again every frame.
//
// # Logging
//
// gfx logs nothing by default. Call [SetLogger] to route diagnostics from gfx
// and the passes built on it to a [log/slog] logger.
package gfx
