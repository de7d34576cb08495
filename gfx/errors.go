// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "errors"

var (
	// ErrSetup wraps every failure that happens while building GPU state a
	// session cannot run without: no adapter, device, surface configuration,
	// camera or depth resources. It is unrecoverable.
	ErrSetup = errors.New("gfx: setup failed")

	// ErrNoAdapter is returned by OpenDevice when the backend exposes no
	// usable adapter.
	ErrNoAdapter = errors.New("gfx: no compatible GPU adapter")

	// ErrBackendUnavailable is returned by OpenDevice when the requested
	// backend was not registered with the HAL.
	ErrBackendUnavailable = errors.New("gfx: backend not available")

	// ErrSurfaceLost means the surface must be reconfigured before the next
	// frame can be acquired.
	ErrSurfaceLost = errors.New("gfx: surface lost")

	// ErrSurfaceOutdated means the surface no longer matches the window and
	// the frame should be skipped.
	ErrSurfaceOutdated = errors.New("gfx: surface outdated")

	// ErrSurfaceTimeout means no frame became available in time.
	ErrSurfaceTimeout = errors.New("gfx: surface acquire timeout")

	// ErrOutOfMemory is reported by the presentation layer when it cannot
	// allocate a frame. It is fatal for the session.
	ErrOutOfMemory = errors.New("gfx: out of memory")

	// ErrInvalidTexture is returned when an image has no pixels or exceeds
	// the maximum texture dimension.
	ErrInvalidTexture = errors.New("gfx: invalid texture size")
)
