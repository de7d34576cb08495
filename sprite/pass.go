// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sprite draws textured quads, one instanced draw per sprite.
//
// A Pass keeps three registries: textures (decoded images bound with a
// sampler), instances (placement records mirrored into a GPU buffer) and
// sprites (a texture paired with an instance). Textures are never
// deduplicated; several sprites may share one texture, but each sprite owns
// exactly one instance slot.
package sprite

import (
	"cmp"
	_ "embed"
	"fmt"
	"image"
	"iter"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/slot"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

// TextureID identifies a texture registered with a Pass.
type TextureID slot.Handle

// InstanceID identifies an instance slot of a Pass.
type InstanceID slot.Handle

// SpriteID identifies a texture/instance pairing of a Pass.
type SpriteID slot.Handle

// IsZero reports whether id is the zero ID.
func (id TextureID) IsZero() bool { return slot.Handle(id).IsZero() }

// IsZero reports whether id is the zero ID.
func (id InstanceID) IsZero() bool { return slot.Handle(id).IsZero() }

// IsZero reports whether id is the zero ID.
func (id SpriteID) IsZero() bool { return slot.Handle(id).IsZero() }

// Sprite pairs a texture with the instance that places it.
type Sprite struct {
	Texture  TextureID
	Instance InstanceID
}

// Stats describes the last Prepare and Record.
type Stats struct {
	DrawCalls   int
	Skipped     int
	Reallocated bool
	BytesSynced int
}

type texture struct {
	tex   *gfx.Texture
	group hal.BindGroup
}

// Pass is the sprite render pass. It is not safe for concurrent use.
type Pass struct {
	ctx *gfx.Context

	shader        hal.ShaderModule
	textureLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	sampler       hal.Sampler
	vertexBuf     hal.Buffer
	indexBuf      hal.Buffer

	textures    slot.Arena[texture]
	instances   *gfx.SyncedBuffer[Instance]
	sprites     slot.Arena[Sprite]
	placeholder TextureID

	order []drawItem
	stats Stats
}

type drawItem struct {
	group hal.BindGroup
	index uint32
	z     float32
}

// New builds the sprite pipeline, the shared quad mesh and an empty instance
// buffer against ctx.
func New(ctx *gfx.Context) (*Pass, error) {
	p := &Pass{
		ctx:       ctx,
		instances: gfx.NewSyncedBuffer("sprite_instances", gputypes.BufferUsageVertex, InstanceStride, encodeInstance),
	}
	if err := p.init(); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("sprite pass: %w", err)
	}
	return p, nil
}

func (p *Pass) init() error {
	device := p.ctx.Device()

	shader, err := p.ctx.CreateShaderModule("sprite_shader", spriteShaderSource)
	if err != nil {
		return err
	}
	p.shader = shader

	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "sprite_texture_layout",
		Entries: gfx.TextureLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create texture layout: %w", err)
	}
	p.textureLayout = layout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.ctx.CameraLayout(), p.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.ctx.CreateSampler("sprite_sampler", gputypes.FilterModeLinear)
	if err != nil {
		return err
	}
	p.sampler = sampler

	target := p.ctx.ColorTarget()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    spriteVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		DepthStencil: gfx.DepthState(gputypes.CompareFunctionLess, true),
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
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

	p.vertexBuf, err = p.createStaticBuffer("sprite_quad_vertices", quadVertexBytes(), gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	p.indexBuf, err = p.createStaticBuffer("sprite_quad_indices", quadIndexBytes(), gputypes.BufferUsageIndex)
	return err
}

func (p *Pass) createStaticBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.ctx.Device().CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := p.ctx.Queue().WriteBuffer(buf, 0, data); err != nil {
		p.ctx.Device().DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// AddTexture uploads img and binds it for drawing. Every call creates a new
// texture, even for an image added before.
func (p *Pass) AddTexture(img image.Image) (TextureID, error) {
	label := fmt.Sprintf("sprite_texture_%d", p.textures.Cap())
	tex, err := p.ctx.UploadTexture(label, img)
	if err != nil {
		return TextureID{}, err
	}
	group, err := p.ctx.CreateTextureBindGroup(label+"_bind", p.textureLayout, tex.View, p.sampler)
	if err != nil {
		p.ctx.DestroyTexture(tex)
		return TextureID{}, fmt.Errorf("create %s bind group: %w", label, err)
	}
	return TextureID(p.textures.Push(texture{tex: tex, group: group})), nil
}

// AddTextureBytes decodes data and adds it as a texture. Malformed data
// returns an error wrapping ErrDecode.
func (p *Pass) AddTextureBytes(data []byte) (TextureID, error) {
	img, _, err := Decode(data)
	if err != nil {
		return TextureID{}, err
	}
	return p.AddTexture(img)
}

// Placeholder returns the built-in placeholder texture, uploading it on the
// first call.
func (p *Pass) Placeholder() (TextureID, error) {
	if p.textures.Contains(slot.Handle(p.placeholder)) {
		return p.placeholder, nil
	}
	id, err := p.AddTexture(placeholderImage())
	if err != nil {
		return TextureID{}, fmt.Errorf("placeholder: %w", err)
	}
	p.placeholder = id
	return id, nil
}

// HasTexture reports whether id refers to a registered texture.
func (p *Pass) HasTexture(id TextureID) bool {
	return p.textures.Contains(slot.Handle(id))
}

// TextureCount returns the number of registered textures.
func (p *Pass) TextureCount() int { return p.textures.Len() }

// AddInstance stores inst and returns its slot.
func (p *Pass) AddInstance(inst Instance) InstanceID {
	return InstanceID(p.instances.Push(inst))
}

// SetInstance replaces the placement of id. It reports false for an unknown
// or removed instance.
func (p *Pass) SetInstance(id InstanceID, inst Instance) bool {
	return p.instances.Set(slot.Handle(id), inst)
}

// Instance returns the placement of id.
func (p *Pass) Instance(id InstanceID) (Instance, bool) {
	return p.instances.Get(slot.Handle(id))
}

// AddSprite pairs a texture with an instance. No GPU work is done.
func (p *Pass) AddSprite(tex TextureID, inst InstanceID) SpriteID {
	return SpriteID(p.sprites.Push(Sprite{Texture: tex, Instance: inst}))
}

// Sprite returns the pairing of id.
func (p *Pass) Sprite(id SpriteID) (Sprite, bool) {
	return p.sprites.Get(slot.Handle(id))
}

// SetSpriteTexture points an existing sprite at another texture.
func (p *Pass) SetSpriteTexture(id SpriteID, tex TextureID) bool {
	s, ok := p.sprites.GetMut(slot.Handle(id))
	if !ok {
		return false
	}
	s.Texture = tex
	return true
}

// RemoveSprite frees the pairing and the instance slot it owns. The texture
// stays registered.
func (p *Pass) RemoveSprite(id SpriteID) {
	s, ok := p.sprites.Get(slot.Handle(id))
	if !ok {
		return
	}
	p.instances.Remove(slot.Handle(s.Instance))
	p.sprites.Reclaim(slot.Handle(id))
}

// Sprites iterates over live sprites in slot order.
func (p *Pass) Sprites() iter.Seq2[SpriteID, Sprite] {
	return func(yield func(SpriteID, Sprite) bool) {
		for h, s := range p.sprites.All() {
			if !yield(SpriteID(h), s) {
				return
			}
		}
	}
}

// SpriteCount returns the number of live sprites.
func (p *Pass) SpriteCount() int { return p.sprites.Len() }

// InstanceBuffer returns the current GPU instance buffer. It changes when
// the buffer grows.
func (p *Pass) InstanceBuffer() hal.Buffer { return p.instances.Buffer() }

// InstanceData returns the encoded CPU mirror of the instance buffer.
func (p *Pass) InstanceData() []Instance {
	raw := p.instances.Bytes()
	out := make([]Instance, 0, len(raw)/InstanceStride)
	for off := 0; off+InstanceStride <= len(raw); off += InstanceStride {
		out = append(out, decodeInstance(raw[off:]))
	}
	return out
}

// Prepare uploads pending instance changes. Call it once per frame before
// Record.
func (p *Pass) Prepare() error {
	stats, err := p.instances.Sync(p.ctx.Device(), p.ctx.Queue())
	if err != nil {
		return fmt.Errorf("sprite pass: %w", err)
	}
	p.stats.Reallocated = stats.Reallocated
	p.stats.BytesSynced = stats.BytesWritten
	return nil
}

// Record draws every live sprite whose texture and instance still exist,
// back to front by instance depth. Each sprite is one indexed draw of the
// shared quad restricted to its own instance slot.
func (p *Pass) Record(rp gfx.PassEncoder) {
	p.stats.DrawCalls, p.stats.Skipped = 0, 0
	instBuf := p.instances.Buffer()
	if instBuf == nil {
		return
	}

	p.order = p.order[:0]
	for _, s := range p.sprites.All() {
		tex, okTex := p.textures.Get(slot.Handle(s.Texture))
		inst, okInst := p.instances.Get(slot.Handle(s.Instance))
		if !okTex || !okInst || int(s.Instance.Index) >= p.instances.Capacity() {
			p.stats.Skipped++
			continue
		}
		p.order = append(p.order, drawItem{group: tex.group, index: s.Instance.Index, z: inst.Position[2]})
	}
	if len(p.order) == 0 {
		return
	}
	slices.SortStableFunc(p.order, func(a, b drawItem) int { return cmp.Compare(a.z, b.z) })

	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.ctx.CameraBindGroup(), nil)
	rp.SetVertexBuffer(0, p.vertexBuf, 0)
	rp.SetVertexBuffer(1, instBuf, 0)
	rp.SetIndexBuffer(p.indexBuf, gputypes.IndexFormatUint16, 0)

	for _, d := range p.order {
		rp.SetBindGroup(1, d.group, nil)
		rp.DrawIndexed(quadIndexCount, 1, 0, 0, d.index)
		p.stats.DrawCalls++
	}
}

// Stats returns counters of the last Prepare and Record.
func (p *Pass) Stats() Stats { return p.stats }

// TextureBindGroup returns the bind group of a registered texture.
func (p *Pass) TextureBindGroup(id TextureID) (hal.BindGroup, bool) {
	t, ok := p.textures.Get(slot.Handle(id))
	return t.group, ok
}

// Destroy releases every GPU resource owned by the pass.
func (p *Pass) Destroy() {
	device := p.ctx.Device()
	for _, t := range p.textures.All() {
		if t.group != nil {
			device.DestroyBindGroup(t.group)
		}
		p.ctx.DestroyTexture(t.tex)
	}
	p.textures = slot.Arena[texture]{}
	p.instances.Destroy(device)
	if p.indexBuf != nil {
		device.DestroyBuffer(p.indexBuf)
		p.indexBuf = nil
	}
	if p.vertexBuf != nil {
		device.DestroyBuffer(p.vertexBuf)
		p.vertexBuf = nil
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
	if p.textureLayout != nil {
		device.DestroyBindGroupLayout(p.textureLayout)
		p.textureLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
