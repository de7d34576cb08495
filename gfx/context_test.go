// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/homescreen/internal/gputest"
	"github.com/gogpu/wgpu/hal"
)

type failingSurface struct {
	OffscreenSurface
}

func (s *failingSurface) Configure(hal.Device, SurfaceConfig) error {
	return errors.New("no swapchain")
}

func TestNewContext(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	device := gputest.NewCountingDevice(dev)
	surface := NewOffscreenSurface()

	ctx, err := NewContext(device, queue, surface, 1280, 720)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer ctx.Destroy()

	if ctx.CameraLayout() == nil || ctx.CameraBindGroup() == nil {
		t.Error("camera bind resources missing")
	}
	if ctx.DepthView() == nil {
		t.Error("depth view missing")
	}
	if got := device.TextureSizes["depth_target"]; got.Width != 1280 || got.Height != 720 {
		t.Errorf("depth size = %dx%d, want 1280x720", got.Width, got.Height)
	}
	if cfg := surface.Config(); cfg.Width != 1280 || cfg.Height != 720 || cfg.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("surface config = %+v", cfg)
	}
	if ctx.ClearColor() != DefaultClearColor {
		t.Errorf("clear color = %+v, want %+v", ctx.ClearColor(), DefaultClearColor)
	}
	if cam := ctx.Camera(); !almostEqual(cam.Right, 1280.0/720.0*5) {
		t.Errorf("camera right = %v", cam.Right)
	}
}

func TestNewContextSetupErrors(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	tests := []struct {
		name    string
		device  hal.Device
		surface Surface
		w, h    uint32
	}{
		{"nil device", nil, NewOffscreenSurface(), 10, 10},
		{"nil surface", dev, nil, 10, 10},
		{"zero size", dev, NewOffscreenSurface(), 0, 10},
		{"surface configure", dev, &failingSurface{}, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContext(tt.device, queue, tt.surface, tt.w, tt.h)
			if !errors.Is(err, ErrSetup) {
				t.Errorf("err = %v, want ErrSetup", err)
			}
		})
	}
}

func TestContextOptions(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	clear := gputypes.Color{R: 1, G: 0, B: 0, A: 1}
	ctx, err := NewContext(dev, queue, NewOffscreenSurface(), 100, 100,
		WithClearColor(clear),
		WithCameraScale(8),
		WithCameraScale(-1),
		WithSurfaceFormat(gputypes.TextureFormatRGBA8Unorm),
		WithShaderFormat(ShaderSPIRV),
		WithPresentMode(PresentModeMailbox),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Destroy()

	if ctx.ClearColor() != clear {
		t.Errorf("clear color = %+v", ctx.ClearColor())
	}
	if ctx.Camera().Scale != 8 {
		t.Errorf("scale = %v, want 8", ctx.Camera().Scale)
	}
	if ctx.SurfaceFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("surface format = %v", ctx.SurfaceFormat())
	}
	if ctx.ShaderFormat() != ShaderSPIRV {
		t.Errorf("shader format = %v", ctx.ShaderFormat())
	}
}

func TestContextResize(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	device := gputest.NewCountingDevice(dev)
	surface := NewOffscreenSurface()
	ctx, err := NewContext(device, queue, surface, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Destroy()

	if err := ctx.Resize(1600, 900); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := ctx.Size(); w != 1600 || h != 900 {
		t.Errorf("size = %dx%d", w, h)
	}
	if device.Textures["depth_target"] != 2 {
		t.Errorf("depth created %d times, want 2", device.Textures["depth_target"])
	}
	if cfg := surface.Config(); cfg.Width != 1600 || cfg.Height != 900 {
		t.Errorf("surface not reconfigured: %+v", cfg)
	}
	if !almostEqual(ctx.Camera().Right, 1600.0/900.0*5) {
		t.Errorf("camera right = %v", ctx.Camera().Right)
	}
}

func TestContextResizeZeroIsNoOp(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	device := gputest.NewCountingDevice(dev)
	ctx, err := NewContext(device, queue, NewOffscreenSurface(), 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Destroy()
	before := ctx.Camera()

	for _, size := range [][2]uint32{{0, 600}, {800, 0}, {0, 0}} {
		if err := ctx.Resize(size[0], size[1]); err != nil {
			t.Errorf("Resize(%v): %v", size, err)
		}
	}
	if w, h := ctx.Size(); w != 800 || h != 600 {
		t.Errorf("size changed to %dx%d", w, h)
	}
	if ctx.Camera() != before {
		t.Error("camera changed on zero resize")
	}
	if device.Textures["depth_target"] != 1 {
		t.Errorf("depth recreated on zero resize")
	}
}

type hostProvider struct {
	gpucontext.DeviceProvider
	device hal.Device
	queue  hal.Queue
}

func (p hostProvider) HalDevice() any { return p.device }
func (p hostProvider) HalQueue() any  { return p.queue }

type plainProvider struct {
	gpucontext.DeviceProvider
}

func TestNewContextFromProvider(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)

	ctx, err := NewContextFromProvider(hostProvider{device: dev, queue: queue}, NewOffscreenSurface(), 64, 64)
	if err != nil {
		t.Fatalf("NewContextFromProvider: %v", err)
	}
	defer ctx.Destroy()
	if ctx.Device() != dev || ctx.Queue() != queue {
		t.Error("context does not use the host device")
	}

	if _, err := NewContextFromProvider(plainProvider{}, NewOffscreenSurface(), 64, 64); !errors.Is(err, ErrSetup) {
		t.Errorf("provider without HAL types: err = %v, want ErrSetup", err)
	}
	if _, err := NewContextFromProvider(hostProvider{}, NewOffscreenSurface(), 64, 64); !errors.Is(err, ErrSetup) {
		t.Errorf("provider with nil device: err = %v, want ErrSetup", err)
	}
}

func TestQueueWriteFailures(t *testing.T) {
	dev, q := gputest.NoopDevice(t)
	device := gputest.NewCountingDevice(dev)
	queue := gputest.NewCountingQueue(q, device)

	queue.FailWrites = true
	if _, err := NewContext(device, queue, NewOffscreenSurface(), 64, 64); !errors.Is(err, ErrSetup) || !errors.Is(err, gputest.ErrWriteRefused) {
		t.Errorf("NewContext error = %v, want ErrSetup wrapping the write failure", err)
	}

	queue.FailWrites = false
	ctx, err := NewContext(device, queue, NewOffscreenSurface(), 64, 64)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer ctx.Destroy()

	queue.FailWrites = true
	freed := device.TexturesFreed
	if _, err := ctx.UploadTexture("art", image.NewRGBA(image.Rect(0, 0, 4, 4))); !errors.Is(err, gputest.ErrWriteRefused) {
		t.Errorf("UploadTexture error = %v, want ErrWriteRefused", err)
	}
	if device.TexturesFreed != freed+1 {
		t.Errorf("textures freed = %d, want %d", device.TexturesFreed, freed+1)
	}
	if err := ctx.Resize(128, 128); !errors.Is(err, gputest.ErrWriteRefused) {
		t.Errorf("Resize error = %v, want ErrWriteRefused", err)
	}
}
