// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment required for texture-to-buffer
// copies.
const copyPitchAlignment = 256

// OffscreenSurface is a Surface backed by a plain render-attachment texture.
// It never loses frames, which makes it suitable for snapshots and tests.
type OffscreenSurface struct {
	device hal.Device
	cfg    SurfaceConfig
	tex    hal.Texture
	view   hal.TextureView

	presented int
}

// NewOffscreenSurface returns an unconfigured offscreen surface.
func NewOffscreenSurface() *OffscreenSurface {
	return &OffscreenSurface{}
}

// Configure (re)creates the backing texture at the configured size.
func (s *OffscreenSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_target",
		Size:          hal.Extent3D{Width: cfg.Width, Height: cfg.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        cfg.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "offscreen_target_view",
		Format:        cfg.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("create offscreen view: %w", err)
	}

	s.release()
	s.device = device
	s.cfg = cfg
	s.tex = tex
	s.view = view
	return nil
}

// Acquire returns the backing texture.
func (s *OffscreenSurface) Acquire() (SurfaceFrame, error) {
	if s.tex == nil {
		return SurfaceFrame{}, fmt.Errorf("offscreen surface not configured: %w", ErrSurfaceLost)
	}
	return SurfaceFrame{Texture: s.tex, View: s.view}, nil
}

// Present counts the frame; the texture keeps its contents for Readback.
func (s *OffscreenSurface) Present(hal.Queue, SurfaceFrame) error {
	s.presented++
	return nil
}

// Discard does nothing.
func (s *OffscreenSurface) Discard(SurfaceFrame) {}

// Presented returns how many frames were presented.
func (s *OffscreenSurface) Presented() int { return s.presented }

// Config returns the current configuration.
func (s *OffscreenSurface) Config() SurfaceConfig { return s.cfg }

// Readback copies the last rendered frame into an RGBA image. BGRA surfaces
// are swizzled to RGBA.
func (s *OffscreenSurface) Readback(device hal.Device, queue hal.Queue) (*image.RGBA, error) {
	if s.tex == nil {
		return nil, fmt.Errorf("readback: %w", ErrSurfaceLost)
	}
	w, h := s.cfg.Width, s.cfg.Height

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "offscreen_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("offscreen_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offscreen_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(s.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, 5*time.Second)
	if err != nil || !ok {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}

	raw := make([]byte, stagingSize)
	if err := queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	unpackRows(img.Pix, raw, int(bytesPerRow), int(alignedBytesPerRow), int(h))
	if s.cfg.Format == gputypes.TextureFormatBGRA8Unorm {
		swizzleBGRA(img.Pix)
	}
	return img, nil
}

// Destroy releases the backing texture.
func (s *OffscreenSurface) Destroy() {
	s.release()
}

func (s *OffscreenSurface) release() {
	if s.device == nil {
		return
	}
	if s.view != nil {
		s.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		s.device.DestroyTexture(s.tex)
		s.tex = nil
	}
}

// unpackRows copies rows of rowBytes from src, laid out with pitch bytes per
// row, into the tightly packed dst.
func unpackRows(dst, src []byte, rowBytes, pitch, rows int) {
	if pitch == rowBytes {
		copy(dst, src[:rowBytes*rows])
		return
	}
	for y := range rows {
		copy(dst[y*rowBytes:(y+1)*rowBytes], src[y*pitch:y*pitch+rowBytes])
	}
}

// swizzleBGRA swaps the red and blue channel of every pixel in place.
func swizzleBGRA(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
