// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/glyph"
	"github.com/gogpu/homescreen/internal/gputest"
	"github.com/gogpu/homescreen/sprite"
	"github.com/gogpu/homescreen/text"
	"github.com/gogpu/wgpu/hal"
)

// flakySurface fails Acquire with the queued errors before behaving like an
// offscreen surface.
type flakySurface struct {
	*gfx.OffscreenSurface
	acquireErrs []error
	configures  int
	discarded   int
}

func newFlakySurface(errs ...error) *flakySurface {
	return &flakySurface{OffscreenSurface: gfx.NewOffscreenSurface(), acquireErrs: errs}
}

func (s *flakySurface) Configure(device hal.Device, cfg gfx.SurfaceConfig) error {
	s.configures++
	return s.OffscreenSurface.Configure(device, cfg)
}

func (s *flakySurface) Acquire() (gfx.SurfaceFrame, error) {
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		if err != nil {
			return gfx.SurfaceFrame{}, err
		}
	}
	return s.OffscreenSurface.Acquire()
}

func (s *flakySurface) Discard(f gfx.SurfaceFrame) {
	s.discarded++
	s.OffscreenSurface.Discard(f)
}

type fixture struct {
	device   *gputest.CountingDevice
	queue    *gputest.CountingQueue
	ctx      *gfx.Context
	surface  *flakySurface
	sprites  *sprite.Pass
	text     *text.Pass
	renderer *Renderer
}

func newFixture(t *testing.T, surface *flakySurface) *fixture {
	t.Helper()
	dev, q := gputest.NoopDevice(t)
	device := gputest.NewCountingDevice(dev)
	queue := gputest.NewCountingQueue(q, device)
	ctx, err := gfx.NewContext(device, queue, surface, 320, 180)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(ctx.Destroy)
	sp, err := sprite.New(ctx)
	if err != nil {
		t.Fatalf("sprite.New: %v", err)
	}
	t.Cleanup(sp.Destroy)
	tp, err := text.New(ctx, glyph.NewBrush(nil))
	if err != nil {
		t.Fatalf("text.New: %v", err)
	}
	t.Cleanup(tp.Destroy)
	r, err := New(ctx, sp, tp)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Flush(); err != nil {
			t.Errorf("Flush: %v", err)
		}
	})
	return &fixture{device: device, queue: queue, ctx: ctx, surface: surface, sprites: sp, text: tp, renderer: r}
}

func TestRenderFrame(t *testing.T) {
	f := newFixture(t, newFlakySurface())

	tex, err := f.sprites.AddTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatal(err)
	}
	f.sprites.AddSprite(tex, f.sprites.AddInstance(sprite.NewInstance(1, 1, 0, 1.78, 1)))
	f.text.Queue("Movies", 36, [3]float32{0.75, 0.2, 0}, text.White)

	status, err := f.renderer.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if status != FrameRendered {
		t.Errorf("status = %v, want rendered", status)
	}
	if f.surface.Presented() != 1 || f.renderer.Frames() != 1 {
		t.Errorf("presented %d, frames %d; want 1", f.surface.Presented(), f.renderer.Frames())
	}
	if f.text.InstanceCount() != 6 {
		t.Errorf("text instances = %d, want 6", f.text.InstanceCount())
	}
	if f.sprites.Stats().DrawCalls != 1 {
		t.Errorf("sprite draws = %d, want 1", f.sprites.Stats().DrawCalls)
	}
}

func TestRenderFrameStructure(t *testing.T) {
	f := newFixture(t, newFlakySurface())
	f.text.Queue("Movies", 36, [3]float32{0.75, 0.2, 0}, text.White)

	if _, err := f.renderer.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []string{"pass:clear_pass", "pass:sprite_pass", "pass:text_pass", "submit"}
	if len(f.device.Events) != len(want) {
		t.Fatalf("events = %v, want %v", f.device.Events, want)
	}
	for i := range want {
		if f.device.Events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, f.device.Events[i], want[i])
		}
	}
	if f.queue.Submits != 1 {
		t.Errorf("submits = %d, want 1", f.queue.Submits)
	}

	for i, p := range f.device.Passes {
		load := gputypes.LoadOpLoad
		if i == 0 {
			load = gputypes.LoadOpClear
		}
		if len(p.ColorAttachments) != 1 {
			t.Fatalf("%s: %d color attachments", p.Label, len(p.ColorAttachments))
		}
		c := p.ColorAttachments[0]
		if c.LoadOp != load || c.StoreOp != gputypes.StoreOpStore {
			t.Errorf("%s: color load %v store %v, want %v store", p.Label, c.LoadOp, c.StoreOp, load)
		}
		ds := p.DepthStencilAttachment
		if ds == nil || ds.View != f.ctx.DepthView() {
			t.Fatalf("%s: depth attachment missing", p.Label)
		}
		if ds.DepthLoadOp != load || ds.DepthStoreOp != gputypes.StoreOpStore {
			t.Errorf("%s: depth load %v, want %v", p.Label, ds.DepthLoadOp, load)
		}
	}
	clearPass := f.device.Passes[0]
	if clearPass.ColorAttachments[0].ClearValue != f.ctx.ClearColor() || clearPass.DepthStencilAttachment.DepthClearValue != 1 {
		t.Errorf("clear values = %+v / %v", clearPass.ColorAttachments[0].ClearValue,
			clearPass.DepthStencilAttachment.DepthClearValue)
	}
}

func TestRenderDoesNotBlock(t *testing.T) {
	f := newFixture(t, newFlakySurface())

	for frame := 1; frame <= 3; frame++ {
		if status, err := f.renderer.Render(); err != nil || status != FrameRendered {
			t.Fatalf("frame %d = %v, %v", frame, status, err)
		}
		for _, d := range f.device.Waits {
			if d != 0 {
				t.Fatalf("frame %d waited %v on a fence", frame, d)
			}
		}
	}
	// Earlier frames are retired by later ones; only the newest is pending.
	if got := f.renderer.InFlight(); got != 1 {
		t.Errorf("InFlight = %d, want 1", got)
	}

	if err := f.renderer.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := f.renderer.InFlight(); got != 0 {
		t.Errorf("InFlight after Flush = %d, want 0", got)
	}
	if last := f.device.Waits[len(f.device.Waits)-1]; last != flushTimeout {
		t.Errorf("Flush wait = %v, want %v", last, flushTimeout)
	}
}

func TestRenderAcquireFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      FrameStatus
		fatal       bool
		reconfigure bool
	}{
		{"lost", gfx.ErrSurfaceLost, FrameLost, false, true},
		{"outdated", gfx.ErrSurfaceOutdated, FrameSkipped, false, false},
		{"timeout", fmt.Errorf("acquire: %w", gfx.ErrSurfaceTimeout), FrameSkipped, false, false},
		{"out of memory", gfx.ErrOutOfMemory, FrameSkipped, true, false},
		{"other", errors.New("driver hiccup"), FrameSkipped, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, newFlakySurface(tt.err))
			before := f.surface.configures

			status, err := f.renderer.Render()
			if status != tt.status {
				t.Errorf("status = %v, want %v", status, tt.status)
			}
			if tt.fatal {
				if !errors.Is(err, gfx.ErrOutOfMemory) {
					t.Errorf("error = %v, want ErrOutOfMemory", err)
				}
			} else if err != nil {
				t.Errorf("error = %v, want nil", err)
			}
			if got := f.surface.configures > before; got != tt.reconfigure {
				t.Errorf("reconfigured = %v, want %v", got, tt.reconfigure)
			}
			if f.surface.Presented() != 0 || f.renderer.Skipped() != 1 {
				t.Errorf("presented %d skipped %d", f.surface.Presented(), f.renderer.Skipped())
			}

			// The next frame goes through.
			if status, err := f.renderer.Render(); err != nil || status != FrameRendered {
				t.Errorf("recovery frame = %v, %v", status, err)
			}
		})
	}
}

func TestRenderWithoutPasses(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	surface := gfx.NewOffscreenSurface()
	ctx, err := gfx.NewContext(device, queue, surface, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Destroy()
	r, err := New(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Flush() }()
	if status, err := r.Render(); err != nil || status != FrameRendered {
		t.Fatalf("Render = %v, %v", status, err)
	}
	if surface.Presented() != 1 {
		t.Errorf("presented %d", surface.Presented())
	}
}

func TestNewRejectsNilContext(t *testing.T) {
	if _, err := New(nil, nil, nil); !errors.Is(err, gfx.ErrSetup) {
		t.Errorf("New(nil) error = %v, want ErrSetup", err)
	}
}

func TestRendererResize(t *testing.T) {
	f := newFixture(t, newFlakySurface())
	if err := f.renderer.Resize(640, 360); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := f.ctx.Size(); w != 640 || h != 360 {
		t.Errorf("Size = %dx%d", w, h)
	}
	if cfg := f.surface.Config(); cfg.Width != 640 || cfg.Height != 360 {
		t.Errorf("surface config = %+v", cfg)
	}
}

func TestFrameStatusString(t *testing.T) {
	for s, want := range map[FrameStatus]string{
		FrameRendered:  "rendered",
		FrameLost:      "lost",
		FrameSkipped:   "skipped",
		FrameStatus(9): "FrameStatus(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
