// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DepthFormat is the format of the shared depth target.
const DepthFormat = gputypes.TextureFormatDepth24PlusStencil8

// Context owns the device, queue and surface of a session together with the
// resources every pass shares: the camera uniform and its bind group, and a
// depth target matching the surface size.
//
// Context is not safe for concurrent use; create, resize and render from one
// goroutine.
type Context struct {
	device  hal.Device
	queue   hal.Queue
	surface Surface
	opts    contextOptions

	width  uint32
	height uint32
	camera Camera

	cameraBuf    hal.Buffer
	cameraLayout hal.BindGroupLayout
	cameraGroup  hal.BindGroup

	depthTex  hal.Texture
	depthView hal.TextureView
}

// NewContext configures surface and builds the shared camera and depth
// resources for a width x height target. Failures wrap ErrSetup.
func NewContext(device hal.Device, queue hal.Queue, surface Surface, width, height uint32, opts ...ContextOption) (*Context, error) {
	if device == nil || queue == nil || surface == nil {
		return nil, fmt.Errorf("%w: device, queue and surface are required", ErrSetup)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: initial size %dx%d", ErrSetup, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		device:  device,
		queue:   queue,
		surface: surface,
		opts:    o,
		width:   width,
		height:  height,
		camera:  NewCamera(width, height, o.cameraScale),
	}
	if err := c.init(); err != nil {
		c.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	Logger().Info("render context created",
		"width", width, "height", height, "scale", c.camera.Scale, "shaders", o.shaderFormat)
	return c, nil
}

func (c *Context) init() error {
	if err := c.surface.Configure(c.device, c.surfaceConfig()); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}

	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "camera_uniform",
		Size:  CameraUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create camera buffer: %w", err)
	}
	c.cameraBuf = buf
	if err := c.queue.WriteBuffer(c.cameraBuf, 0, c.camera.Uniform()); err != nil {
		return fmt.Errorf("write camera uniform: %w", err)
	}

	layout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "camera_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create camera layout: %w", err)
	}
	c.cameraLayout = layout

	group, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "camera_bind",
		Layout: c.cameraLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: c.cameraBuf.NativeHandle(), Offset: 0, Size: CameraUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create camera bind group: %w", err)
	}
	c.cameraGroup = group

	return c.createDepth()
}

func (c *Context) createDepth() error {
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "depth_target",
		Size:          hal.Extent3D{Width: c.width, Height: c.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "depth_target_view",
		Format:        DepthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return fmt.Errorf("create depth view: %w", err)
	}
	c.destroyDepth()
	c.depthTex = tex
	c.depthView = view
	return nil
}

func (c *Context) destroyDepth() {
	if c.depthView != nil {
		c.device.DestroyTextureView(c.depthView)
		c.depthView = nil
	}
	if c.depthTex != nil {
		c.device.DestroyTexture(c.depthTex)
		c.depthTex = nil
	}
}

func (c *Context) surfaceConfig() SurfaceConfig {
	return SurfaceConfig{
		Width:       c.width,
		Height:      c.height,
		Format:      c.opts.surfaceFormat,
		PresentMode: c.opts.presentMode,
	}
}

// Resize rebuilds the camera, camera uniform, depth target and surface
// configuration for a new size. A zero width or height is ignored so a
// minimized window does not create degenerate resources.
func (c *Context) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	c.width, c.height = width, height
	c.camera = NewCamera(width, height, c.opts.cameraScale)
	if err := c.queue.WriteBuffer(c.cameraBuf, 0, c.camera.Uniform()); err != nil {
		return fmt.Errorf("resize: write camera uniform: %w", err)
	}

	if err := c.createDepth(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if err := c.surface.Configure(c.device, c.surfaceConfig()); err != nil {
		return fmt.Errorf("resize: configure surface: %w", err)
	}
	Logger().Debug("render context resized", "width", width, "height", height)
	return nil
}

// Device returns the HAL device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Surface returns the presentable surface.
func (c *Context) Surface() Surface { return c.surface }

// Size returns the current surface size in pixels.
func (c *Context) Size() (width, height uint32) { return c.width, c.height }

// Camera returns the camera for the current size.
func (c *Context) Camera() Camera { return c.camera }

// PixelsPerUnit returns how many surface pixels one camera unit spans.
func (c *Context) PixelsPerUnit() float32 { return c.camera.PixelsPerUnit(c.height) }

// CameraLayout returns the bind group layout of the camera uniform. Passes
// place it at group 0.
func (c *Context) CameraLayout() hal.BindGroupLayout { return c.cameraLayout }

// CameraBindGroup returns the bind group holding the camera uniform.
func (c *Context) CameraBindGroup() hal.BindGroup { return c.cameraGroup }

// DepthView returns the view of the shared depth target.
func (c *Context) DepthView() hal.TextureView { return c.depthView }

// SurfaceFormat returns the color format of the surface.
func (c *Context) SurfaceFormat() gputypes.TextureFormat { return c.opts.surfaceFormat }

// ClearColor returns the clear pass color.
func (c *Context) ClearColor() gputypes.Color { return c.opts.clearColor }

// ShaderFormat returns the configured shader format.
func (c *Context) ShaderFormat() ShaderFormat { return c.opts.shaderFormat }

// Destroy releases every resource the context created. The device, queue
// and surface are owned by the caller.
func (c *Context) Destroy() {
	c.destroyDepth()
	if c.cameraGroup != nil {
		c.device.DestroyBindGroup(c.cameraGroup)
		c.cameraGroup = nil
	}
	if c.cameraLayout != nil {
		c.device.DestroyBindGroupLayout(c.cameraLayout)
		c.cameraLayout = nil
	}
	if c.cameraBuf != nil {
		c.device.DestroyBuffer(c.cameraBuf)
		c.cameraBuf = nil
	}
}
