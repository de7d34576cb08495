// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"
)

// MaxTextureDimension is the largest texture edge the context creates.
const MaxTextureDimension = 8192

// Texture is a sampled 2D texture and its default view.
type Texture struct {
	Texture hal.Texture
	View    hal.TextureView
	Width   uint32
	Height  uint32
	Format  gputypes.TextureFormat
}

// CreateTexture creates a sampled texture that can be written from the CPU.
func (c *Context) CreateTexture(label string, width, height uint32, format gputypes.TextureFormat) (*Texture, error) {
	if width == 0 || height == 0 || width > MaxTextureDimension || height > MaxTextureDimension {
		return nil, fmt.Errorf("%s %dx%d: %w", label, width, height, ErrInvalidTexture)
	}
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %s: %w", label, err)
	}
	return &Texture{Texture: tex, View: view, Width: width, Height: height, Format: format}, nil
}

// WriteTexture uploads tightly packed pixels into rect of t.
func (c *Context) WriteTexture(t *Texture, rect image.Rectangle, pix []byte, bytesPerPixel uint32) error {
	w, h := uint32(rect.Dx()), uint32(rect.Dy())
	if w == 0 || h == 0 {
		return nil
	}
	err := c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.Texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(rect.Min.X), Y: uint32(rect.Min.Y)},
			Aspect:   gputypes.TextureAspectAll,
		},
		pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * bytesPerPixel,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("write texture %v: %w", rect, err)
	}
	return nil
}

// UploadTexture converts img to premultiplied RGBA8 and uploads it as a new
// texture.
func (c *Context) UploadTexture(label string, img image.Image) (*Texture, error) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	t, err := c.CreateTexture(label, uint32(b.Dx()), uint32(b.Dy()), gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	if err := c.WriteTexture(t, rgba.Bounds(), rgba.Pix, 4); err != nil {
		c.DestroyTexture(t)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return t, nil
}

// DestroyTexture releases t.
func (c *Context) DestroyTexture(t *Texture) {
	if t == nil {
		return
	}
	if t.View != nil {
		c.device.DestroyTextureView(t.View)
	}
	if t.Texture != nil {
		c.device.DestroyTexture(t.Texture)
	}
}

// CreateSampler creates a clamp-to-edge sampler with the given filter.
func (c *Context) CreateSampler(label string, filter gputypes.FilterMode) (hal.Sampler, error) {
	s, err := c.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler %s: %w", label, err)
	}
	return s, nil
}
