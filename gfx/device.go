// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// InstanceFactory creates HAL instances. Registered HAL backends and the
// noop API implement it.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Device is an opened adapter together with the instance it came from.
type Device struct {
	Instance hal.Instance
	Device   hal.Device
	Queue    hal.Queue
	// Adapter is the name reported by the selected adapter.
	Adapter string
}

// OpenDevice opens a device on a registered HAL backend. The backend package
// must be linked in, for example with
//
//	import _ "github.com/gogpu/wgpu/hal/vulkan"
//
// Failures wrap ErrSetup.
func OpenDevice(backend gputypes.Backend) (*Device, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %v", ErrSetup, ErrBackendUnavailable, backend)
	}
	return OpenDeviceWith(b)
}

// OpenDeviceWith opens a device from factory, preferring a discrete or
// integrated GPU over other adapter types.
func OpenDeviceWith(factory InstanceFactory) (*Device, error) {
	instance, err := factory.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrSetup, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrSetup, ErrNoAdapter)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", ErrSetup, err)
	}
	Logger().Info("GPU adapter selected", "name", selected.Info.Name, "type", selected.Info.DeviceType)

	return &Device{
		Instance: instance,
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Adapter:  selected.Info.Name,
	}, nil
}

// Destroy releases the device and its instance.
func (d *Device) Destroy() {
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
	}
	if d.Instance != nil {
		d.Instance.Destroy()
		d.Instance = nil
	}
}
