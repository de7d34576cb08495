// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by hosts that expose their HAL objects next to
// the gpucontext interfaces.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewContextFromProvider builds a Context on the device and queue of a host
// application, such as a gogpu window. The provider must expose
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// The device stays owned by the host.
func NewContextFromProvider(provider gpucontext.DeviceProvider, surface Surface, width, height uint32, opts ...ContextOption) (*Context, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: nil device provider", ErrSetup)
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrSetup)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrSetup)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrSetup)
	}
	return NewContext(device, queue, surface, width, height, opts...)
}
