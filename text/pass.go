// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package text draws glyph runs on top of the scene.
//
// The Pass owns the glyph atlas texture and the glyph instance buffer. Text
// comes from two places each frame: persistent texts added with AddText,
// and one-off runs queued with Queue that are drawn by the next
// ProcessQueue only.
package text

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"iter"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/glyph"
	"github.com/gogpu/homescreen/slot"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/text.wgsl
var textShaderSource string

// DefaultMaxRetries bounds the atlas grow-and-retry loop of ProcessQueue.
const DefaultMaxRetries = 8

// ErrAtlasRetries is returned when the brush still reports a full atlas
// after the retry budget is spent.
var ErrAtlasRetries = errors.New("text: glyph atlas did not converge")

// Brush lays out queued sections and fills the glyph atlas.
// *glyph.Brush implements it.
type Brush interface {
	Queue(s glyph.Section)
	Process(upload glyph.UploadFunc) glyph.Action
	Resize(width, height uint32)
	Dimensions() (uint32, uint32)
	Discard()
}

// scaler is implemented by brushes that lay out in camera units.
type scaler interface {
	SetPixelsPerUnit(ppu float32)
}

// Option configures a Pass.
type Option func(*Pass)

// WithMaxRetries sets how many times ProcessQueue grows the atlas before
// giving up.
func WithMaxRetries(n int) Option {
	return func(p *Pass) {
		if n >= 0 {
			p.maxRetries = n
		}
	}
}

// Stats describes the last ProcessQueue.
type Stats struct {
	Action       glyph.ActionKind
	Retries      int
	Reallocated  bool
	Instances    int
	AtlasResized bool
}

// Pass is the text render pass. It is not safe for concurrent use.
type Pass struct {
	ctx   *gfx.Context
	brush Brush

	shader      hal.ShaderModule
	atlasLayout hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	sampler     hal.Sampler
	atlas       *gfx.Texture
	atlasGroup  hal.BindGroup

	instanceBuf   hal.Buffer
	instanceCap   int
	instanceCount uint32
	scratch       []byte

	texts      slot.Arena[Text]
	oneOff     []glyph.Section
	maxRetries int
	stats      Stats
	uploadErr  error
}

// New builds the text pipeline and an atlas sized to the brush dimensions.
func New(ctx *gfx.Context, brush Brush, opts ...Option) (*Pass, error) {
	if brush == nil {
		return nil, fmt.Errorf("text pass: %w: nil brush", gfx.ErrSetup)
	}
	p := &Pass{ctx: ctx, brush: brush, maxRetries: DefaultMaxRetries}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.init(); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("text pass: %w", err)
	}
	return p, nil
}

func (p *Pass) init() error {
	device := p.ctx.Device()

	shader, err := p.ctx.CreateShaderModule("text_shader", textShaderSource)
	if err != nil {
		return err
	}
	p.shader = shader

	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "text_atlas_layout",
		Entries: gfx.TextureLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create atlas layout: %w", err)
	}
	p.atlasLayout = layout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "text_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.ctx.CameraLayout(), p.atlasLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.ctx.CreateSampler("text_sampler", gputypes.FilterModeLinear)
	if err != nil {
		return err
	}
	p.sampler = sampler

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "text_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{p.ctx.ColorTarget()},
		},
		DepthStencil: gfx.DepthState(gputypes.CompareFunctionAlways, false),
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	p.pipeline = pipeline

	w, h := p.brush.Dimensions()
	return p.createAtlas(w, h)
}

// glyphVertexLayout matches GlyphInput in text.wgsl, one step per instance.
func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: glyph.InstanceStride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 4, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 2},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 20, ShaderLocation: 3},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 28, ShaderLocation: 4},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 36, ShaderLocation: 5},
		},
	}}
}

// createAtlas replaces the atlas texture and its bind group.
func (p *Pass) createAtlas(width, height uint32) error {
	tex, err := p.ctx.CreateTexture("text_atlas", width, height, gputypes.TextureFormatR8Unorm)
	if err != nil {
		return err
	}
	group, err := p.ctx.CreateTextureBindGroup("text_atlas_bind", p.atlasLayout, tex.View, p.sampler)
	if err != nil {
		p.ctx.DestroyTexture(tex)
		return fmt.Errorf("create atlas bind group: %w", err)
	}
	p.releaseAtlas()
	p.atlas, p.atlasGroup = tex, group
	return nil
}

func (p *Pass) releaseAtlas() {
	if p.atlasGroup != nil {
		p.ctx.Device().DestroyBindGroup(p.atlasGroup)
		p.atlasGroup = nil
	}
	if p.atlas != nil {
		p.ctx.DestroyTexture(p.atlas)
		p.atlas = nil
	}
}

// Queue adds a one-off run drawn by the next ProcessQueue.
func (p *Pass) Queue(content string, size float32, position [3]float32, color [4]float32) {
	p.QueueText(Text{Content: content, Size: size, Position: position, Color: color})
}

// QueueText adds a one-off run drawn by the next ProcessQueue.
func (p *Pass) QueueText(t Text) {
	p.oneOff = append(p.oneOff, t.section())
}

// QueueSection adds a prepared section drawn by the next ProcessQueue.
func (p *Pass) QueueSection(s glyph.Section) {
	p.oneOff = append(p.oneOff, s)
}

// AddText stores a text drawn every frame until it is removed.
func (p *Pass) AddText(t Text) TextID {
	return TextID(p.texts.Push(t))
}

// UpdateText replaces a stored text. It reports false for an unknown id.
func (p *Pass) UpdateText(id TextID, t Text) bool {
	return p.texts.Set(slot.Handle(id), t)
}

// Text returns a stored text.
func (p *Pass) Text(id TextID) (Text, bool) {
	return p.texts.Get(slot.Handle(id))
}

// RemoveText stops drawing a stored text.
func (p *Pass) RemoveText(id TextID) {
	p.texts.Reclaim(slot.Handle(id))
}

// Texts iterates over stored texts in slot order.
func (p *Pass) Texts() iter.Seq2[TextID, Text] {
	return func(yield func(TextID, Text) bool) {
		for h, t := range p.texts.All() {
			if !yield(TextID(h), t) {
				return
			}
		}
	}
}

// ProcessQueue lays out this frame's text and updates the atlas and the
// instance buffer. When the atlas is too small it is recreated at the size
// the brush asks for, at most the configured number of times.
func (p *Pass) ProcessQueue() error {
	if s, ok := p.brush.(scaler); ok {
		s.SetPixelsPerUnit(p.ctx.PixelsPerUnit())
	}
	for _, t := range p.texts.All() {
		p.brush.Queue(t.section())
	}
	for _, s := range p.oneOff {
		p.brush.Queue(s)
	}
	p.oneOff = p.oneOff[:0]

	p.stats = Stats{}
	p.uploadErr = nil
	for retry := 0; ; retry++ {
		act := p.brush.Process(p.upload)
		p.stats.Action = act.Kind
		p.stats.Retries = retry
		if p.uploadErr != nil {
			// Glyphs the brush counts as cached never reached the atlas.
			p.brush.Resize(p.atlas.Width, p.atlas.Height)
			return p.abandon(fmt.Errorf("text: atlas upload: %w", p.uploadErr))
		}
		switch act.Kind {
		case glyph.ActionDraw:
			return p.writeInstances(act.Instances)
		case glyph.ActionRedraw:
			return nil
		case glyph.ActionTextureTooSmall:
			if retry >= p.maxRetries {
				return p.abandon(fmt.Errorf("%w after %d retries", ErrAtlasRetries, retry))
			}
			if err := p.growAtlas(act.Width, act.Height); err != nil {
				return p.abandon(err)
			}
		default:
			return fmt.Errorf("text: unknown brush action %v", act.Kind)
		}
	}
}

// abandon gives up on the frame. Instances written for an earlier atlas
// are dropped so Record draws nothing rather than UVs into missing glyphs.
func (p *Pass) abandon(err error) error {
	p.brush.Discard()
	p.instanceCount = 0
	p.stats.Instances = 0
	return err
}

func (p *Pass) upload(rect image.Rectangle, pix []byte) {
	if p.uploadErr != nil {
		return
	}
	p.uploadErr = p.ctx.WriteTexture(p.atlas, rect, pix, 1)
}

// growAtlas recreates the atlas at the suggested size. The atlas never
// shrinks.
func (p *Pass) growAtlas(width, height uint32) error {
	width = max(width, p.atlas.Width)
	height = max(height, p.atlas.Height)
	if err := p.createAtlas(width, height); err != nil {
		return fmt.Errorf("text: grow atlas: %w", err)
	}
	p.brush.Resize(width, height)
	p.stats.AtlasResized = true
	gfx.Logger().Debug("text: atlas grown", "width", width, "height", height)
	return nil
}

func (p *Pass) writeInstances(insts []glyph.Instance) error {
	n := len(insts)
	p.stats.Instances = n
	p.instanceCount = uint32(n)
	if n == 0 {
		return nil
	}
	p.scratch = glyph.EncodeInstances(p.scratch[:0], insts)

	if p.instanceBuf == nil || n > p.instanceCap {
		newCap := max(n, p.instanceCap*2)
		buf, err := p.ctx.Device().CreateBuffer(&hal.BufferDescriptor{
			Label: "text_instances",
			Size:  uint64(newCap * glyph.InstanceStride),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			p.instanceCount = 0
			return fmt.Errorf("text: create instance buffer: %w", err)
		}
		if p.instanceBuf != nil {
			p.ctx.Device().DestroyBuffer(p.instanceBuf)
		}
		p.instanceBuf, p.instanceCap = buf, newCap
		p.stats.Reallocated = true
		gfx.Logger().Debug("text: instance buffer reallocated", "capacity", newCap)
	}
	if err := p.ctx.Queue().WriteBuffer(p.instanceBuf, 0, p.scratch); err != nil {
		p.instanceCount = 0
		return fmt.Errorf("text: write instances: %w", err)
	}
	return nil
}

// Record draws the glyph instances of the last ProcessQueue.
func (p *Pass) Record(rp gfx.PassEncoder) {
	if p.instanceCount == 0 || p.instanceBuf == nil {
		return
	}
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.ctx.CameraBindGroup(), nil)
	rp.SetBindGroup(1, p.atlasGroup, nil)
	rp.SetVertexBuffer(0, p.instanceBuf, 0)
	rp.Draw(4, p.instanceCount, 0, 0)
}

// AtlasSize returns the dimensions of the atlas texture.
func (p *Pass) AtlasSize() (uint32, uint32) {
	if p.atlas == nil {
		return 0, 0
	}
	return p.atlas.Width, p.atlas.Height
}

// InstanceCount returns the number of glyphs drawn by Record.
func (p *Pass) InstanceCount() uint32 { return p.instanceCount }

// InstanceBuffer returns the glyph instance buffer.
func (p *Pass) InstanceBuffer() hal.Buffer { return p.instanceBuf }

// AtlasBindGroup returns the bind group of the current atlas.
func (p *Pass) AtlasBindGroup() hal.BindGroup { return p.atlasGroup }

// Stats returns counters of the last ProcessQueue.
func (p *Pass) Stats() Stats { return p.stats }

// Destroy releases every GPU resource owned by the pass.
func (p *Pass) Destroy() {
	device := p.ctx.Device()
	p.releaseAtlas()
	if p.instanceBuf != nil {
		device.DestroyBuffer(p.instanceBuf)
		p.instanceBuf = nil
		p.instanceCap, p.instanceCount = 0, 0
	}
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.atlasLayout != nil {
		device.DestroyBindGroupLayout(p.atlasLayout)
		p.atlasLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
