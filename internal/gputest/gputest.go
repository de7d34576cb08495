// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides GPU test helpers built on the noop HAL backend.
package gputest

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// NoopDevice opens a device and queue on the noop backend. Both are released
// when the test finishes.
func NoopDevice(t testing.TB) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop backend exposes no adapter")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

var errTextureRefused = errors.New("gputest: texture creation refused")

// CountingDevice wraps a hal.Device and counts resource creation by label.
type CountingDevice struct {
	hal.Device

	Buffers        map[string]int
	Textures       map[string]int
	BufferSizes    map[string]uint64
	TextureSizes   map[string]hal.Extent3D
	BuffersFreed   int
	TexturesFreed  int
	FailTextureFor string

	// Events logs begun render passes ("pass:<label>") and, through a
	// CountingQueue built on this device, submissions ("submit").
	Events []string
	// Passes holds a copy of every render pass descriptor in begin order.
	Passes []hal.RenderPassDescriptor
	// Waits holds the timeout of every fence wait.
	Waits []time.Duration
}

// NewCountingDevice wraps d.
func NewCountingDevice(d hal.Device) *CountingDevice {
	return &CountingDevice{
		Device:       d,
		Buffers:      make(map[string]int),
		Textures:     make(map[string]int),
		BufferSizes:  make(map[string]uint64),
		TextureSizes: make(map[string]hal.Extent3D),
	}
}

// CreateBuffer counts the buffer and forwards to the wrapped device.
func (d *CountingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.Buffers[desc.Label]++
	d.BufferSizes[desc.Label] = desc.Size
	return d.Device.CreateBuffer(desc)
}

// DestroyBuffer counts the release and forwards to the wrapped device.
func (d *CountingDevice) DestroyBuffer(b hal.Buffer) {
	d.BuffersFreed++
	d.Device.DestroyBuffer(b)
}

// CreateTexture counts the texture and forwards to the wrapped device.
func (d *CountingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	d.Textures[desc.Label]++
	d.TextureSizes[desc.Label] = desc.Size
	if d.FailTextureFor != "" && desc.Label == d.FailTextureFor {
		return nil, errTextureRefused
	}
	return d.Device.CreateTexture(desc)
}

// DestroyTexture counts the release and forwards to the wrapped device.
func (d *CountingDevice) DestroyTexture(t hal.Texture) {
	d.TexturesFreed++
	d.Device.DestroyTexture(t)
}

// CreateCommandEncoder wraps the encoder so begun passes are logged.
func (d *CountingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &loggingEncoder{CommandEncoder: enc, dev: d}, nil
}

// Wait records the timeout and forwards to the wrapped device.
func (d *CountingDevice) Wait(fence hal.Fence, value uint64, timeout time.Duration) (bool, error) {
	d.Waits = append(d.Waits, timeout)
	return d.Device.Wait(fence, value, timeout)
}

type loggingEncoder struct {
	hal.CommandEncoder
	dev *CountingDevice
}

func (e *loggingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	cp := *desc
	cp.ColorAttachments = append([]hal.RenderPassColorAttachment(nil), desc.ColorAttachments...)
	if desc.DepthStencilAttachment != nil {
		ds := *desc.DepthStencilAttachment
		cp.DepthStencilAttachment = &ds
	}
	e.dev.Passes = append(e.dev.Passes, cp)
	e.dev.Events = append(e.dev.Events, "pass:"+desc.Label)
	return e.CommandEncoder.BeginRenderPass(desc)
}

// ErrWriteRefused is returned by a CountingQueue with FailWrites set.
var ErrWriteRefused = errors.New("gputest: queue write refused")

// CountingQueue wraps a hal.Queue, counting submissions and writes. With
// FailWrites set every buffer and texture write fails with ErrWriteRefused.
type CountingQueue struct {
	hal.Queue

	Submits       int
	BufferWrites  int
	TextureWrites int
	FailWrites    bool

	dev *CountingDevice
}

// NewCountingQueue wraps q. Submissions are also logged to dev.Events when
// dev is not nil.
func NewCountingQueue(q hal.Queue, dev *CountingDevice) *CountingQueue {
	return &CountingQueue{Queue: q, dev: dev}
}

// Submit counts the submission and forwards to the wrapped queue.
func (q *CountingQueue) Submit(cmds []hal.CommandBuffer, fence hal.Fence, value uint64) error {
	q.Submits++
	if q.dev != nil {
		q.dev.Events = append(q.dev.Events, "submit")
	}
	return q.Queue.Submit(cmds, fence, value)
}

// WriteBuffer counts the write and forwards to the wrapped queue.
func (q *CountingQueue) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error {
	if q.FailWrites {
		return ErrWriteRefused
	}
	q.BufferWrites++
	return q.Queue.WriteBuffer(buf, offset, data)
}

// WriteTexture counts the write and forwards to the wrapped queue.
func (q *CountingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	if q.FailWrites {
		return ErrWriteRefused
	}
	q.TextureWrites++
	return q.Queue.WriteTexture(dst, data, layout, size)
}
