// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render drives one frame: it clears the surface and depth target,
// draws sprites and then text into it with a single command submission, and
// presents the result.
package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/sprite"
	"github.com/gogpu/homescreen/text"
	"github.com/gogpu/wgpu/hal"
)

// flushTimeout bounds the wait in Flush for frames still on the GPU.
const flushTimeout = 5 * time.Second

// FrameStatus reports what Render did with a frame.
type FrameStatus int

const (
	// FrameRendered means the frame was drawn and presented.
	FrameRendered FrameStatus = iota
	// FrameLost means the surface was lost and has been reconfigured.
	FrameLost
	// FrameSkipped means no frame could be acquired this time.
	FrameSkipped
)

// String returns the status name.
func (s FrameStatus) String() string {
	switch s {
	case FrameRendered:
		return "rendered"
	case FrameLost:
		return "lost"
	case FrameSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("FrameStatus(%d)", int(s))
	}
}

// Renderer composes the sprite and text passes onto the context surface.
// Either pass may be nil.
type Renderer struct {
	ctx     *gfx.Context
	sprites *sprite.Pass
	text    *text.Pass

	frames  int
	skipped int

	// inFlight holds submitted frames whose command buffers the GPU may
	// still be reading.
	inFlight []submission
}

type submission struct {
	cmd   hal.CommandBuffer
	fence hal.Fence
}

// New returns a renderer drawing sprites, then text.
func New(ctx *gfx.Context, sprites *sprite.Pass, txt *text.Pass) (*Renderer, error) {
	if ctx == nil {
		return nil, fmt.Errorf("render: %w: nil context", gfx.ErrSetup)
	}
	return &Renderer{ctx: ctx, sprites: sprites, text: txt}, nil
}

// Context returns the render context.
func (r *Renderer) Context() *gfx.Context { return r.ctx }

// Sprites returns the sprite pass.
func (r *Renderer) Sprites() *sprite.Pass { return r.sprites }

// Text returns the text pass.
func (r *Renderer) Text() *text.Pass { return r.text }

// Frames returns the number of presented frames.
func (r *Renderer) Frames() int { return r.frames }

// Skipped returns the number of frames that were lost or skipped.
func (r *Renderer) Skipped() int { return r.skipped }

// Resize resizes the surface, depth target and camera.
func (r *Renderer) Resize(width, height uint32) error {
	return r.ctx.Resize(width, height)
}

// Render draws one frame.
//
// A lost surface is reconfigured at its current size and reported as
// FrameLost. Outdated and timed out surfaces skip the frame. Running out of
// memory is returned as an error; other acquire failures are logged and the
// frame is skipped.
func (r *Renderer) Render() (FrameStatus, error) {
	if err := r.prepare(); err != nil {
		return FrameSkipped, err
	}

	surface := r.ctx.Surface()
	frame, err := surface.Acquire()
	if err != nil {
		return r.acquireFailed(err)
	}

	if err := r.encodeAndSubmit(frame.View); err != nil {
		surface.Discard(frame)
		return FrameSkipped, fmt.Errorf("render: %w", err)
	}
	if err := surface.Present(r.ctx.Queue(), frame); err != nil {
		return r.acquireFailed(err)
	}
	r.frames++
	return FrameRendered, nil
}

func (r *Renderer) prepare() error {
	if r.text != nil {
		err := r.text.ProcessQueue()
		if errors.Is(err, text.ErrAtlasRetries) {
			gfx.Logger().Warn("render: text skipped", "err", err)
		} else if err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	if r.sprites != nil {
		if err := r.sprites.Prepare(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return nil
}

func (r *Renderer) acquireFailed(err error) (FrameStatus, error) {
	r.skipped++
	log := gfx.Logger()
	switch {
	case errors.Is(err, gfx.ErrSurfaceLost):
		log.Debug("render: surface lost, reconfiguring", "err", err)
		w, h := r.ctx.Size()
		if rerr := r.ctx.Resize(w, h); rerr != nil {
			log.Warn("render: reconfigure failed", "err", rerr)
		}
		return FrameLost, nil
	case errors.Is(err, gfx.ErrSurfaceOutdated), errors.Is(err, gfx.ErrSurfaceTimeout):
		log.Debug("render: frame skipped", "err", err)
		return FrameSkipped, nil
	case errors.Is(err, gfx.ErrOutOfMemory):
		return FrameSkipped, fmt.Errorf("render: %w", err)
	default:
		log.Warn("render: frame skipped", "err", err)
		return FrameSkipped, nil
	}
}

func (r *Renderer) encodeAndSubmit(target hal.TextureView) error {
	device := r.ctx.Device()
	r.retire()
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	clearPass := encoder.BeginRenderPass(r.passDescriptor("clear_pass", target, gputypes.LoadOpClear))
	clearPass.End()

	if r.sprites != nil {
		rp := encoder.BeginRenderPass(r.passDescriptor("sprite_pass", target, gputypes.LoadOpLoad))
		r.sprites.Record(rp)
		rp.End()
	}
	if r.text != nil {
		rp := encoder.BeginRenderPass(r.passDescriptor("text_pass", target, gputypes.LoadOpLoad))
		r.text.Record(rp)
		rp.End()
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	fence, err := device.CreateFence()
	if err != nil {
		device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("create fence: %w", err)
	}
	if err := r.ctx.Queue().Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		device.FreeCommandBuffer(cmdBuf)
		device.DestroyFence(fence)
		return fmt.Errorf("submit: %w", err)
	}
	// Presentation paces the GPU; the command buffer is released once a
	// later frame sees its fence signaled.
	r.inFlight = append(r.inFlight, submission{cmd: cmdBuf, fence: fence})
	return nil
}

// retire releases submissions whose fence has signaled. It polls with a
// zero timeout and never blocks.
func (r *Renderer) retire() {
	device := r.ctx.Device()
	kept := r.inFlight[:0]
	for _, s := range r.inFlight {
		done, err := device.Wait(s.fence, 1, 0)
		if err != nil {
			gfx.Logger().Warn("render: fence poll failed", "err", err)
		}
		if !done {
			kept = append(kept, s)
			continue
		}
		device.FreeCommandBuffer(s.cmd)
		device.DestroyFence(s.fence)
	}
	clear(r.inFlight[len(kept):])
	r.inFlight = kept
}

// InFlight returns the number of submitted frames not yet retired.
func (r *Renderer) InFlight() int { return len(r.inFlight) }

// Flush waits for every submitted frame to finish on the GPU and releases
// its command buffer. Call it before reading back the surface or
// destroying the passes.
func (r *Renderer) Flush() error {
	device := r.ctx.Device()
	var firstErr error
	for _, s := range r.inFlight {
		ok, err := device.Wait(s.fence, 1, flushTimeout)
		if err == nil && !ok {
			err = fmt.Errorf("timed out after %v", flushTimeout)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("render: flush: %w", err)
		}
		device.FreeCommandBuffer(s.cmd)
		device.DestroyFence(s.fence)
	}
	clear(r.inFlight)
	r.inFlight = r.inFlight[:0]
	return firstErr
}

// passDescriptor targets the frame view and the shared depth buffer. The
// clear pass clears both; later passes load what is there.
func (r *Renderer) passDescriptor(label string, target hal.TextureView, load gputypes.LoadOp) *hal.RenderPassDescriptor {
	return &hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.ctx.ClearColor(),
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              r.ctx.DepthView(),
			DepthLoadOp:       load,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     load,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		},
	}
}
