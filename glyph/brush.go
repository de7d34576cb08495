// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyph

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/internal/cache"
)

// Defaults for NewBrush.
const (
	DefaultAtlasSize    = 256
	DefaultRunCacheSize = 512
)

// ActionKind is the outcome of Brush.Process.
type ActionKind int

const (
	// ActionDraw carries a fresh set of glyph instances.
	ActionDraw ActionKind = iota
	// ActionRedraw means the queued sections match the previous frame, so
	// the last instances can be drawn again.
	ActionRedraw
	// ActionTextureTooSmall means the atlas is full. The caller must
	// recreate it at the suggested size, call Resize and process again.
	ActionTextureTooSmall
)

// String returns the action name.
func (k ActionKind) String() string {
	switch k {
	case ActionDraw:
		return "draw"
	case ActionRedraw:
		return "redraw"
	case ActionTextureTooSmall:
		return "texture too small"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is returned by Brush.Process.
type Action struct {
	Kind ActionKind
	// Instances is set for ActionDraw.
	Instances []Instance
	// Width and Height are the suggested atlas size for ActionTextureTooSmall.
	Width, Height uint32
}

// UploadFunc writes an R8 coverage rectangle into the atlas texture.
type UploadFunc func(rect image.Rectangle, pix []byte)

type glyphKey struct {
	id   uint16
	size int32 // 26.6 pixels per em
}

type cachedGlyph struct {
	rect  image.Rectangle
	left  int
	top   int
	empty bool
}

// Brush lays out text sections and maintains the glyph atlas contents.
//
// A Brush is not safe for concurrent use.
type Brush struct {
	font   *Font
	shaper *shaper
	raster *rasterizer
	runs   *cache.LRU[runKey, []line]
	glyphs map[glyphKey]cachedGlyph
	packer *shelfPacker

	width, height uint32
	maxSize       uint32
	pixelsPerUnit float32

	queue   []Section
	last    []Section
	hasLast bool
}

// BrushOption configures a Brush.
type BrushOption func(*Brush)

// WithAtlasSize sets the initial atlas dimensions.
func WithAtlasSize(width, height uint32) BrushOption {
	return func(b *Brush) {
		if width > 0 && height > 0 {
			b.width, b.height = width, height
		}
	}
}

// WithMaxAtlasSize caps the dimensions suggested by ActionTextureTooSmall.
func WithMaxAtlasSize(n uint32) BrushOption {
	return func(b *Brush) {
		if n > 0 {
			b.maxSize = n
		}
	}
}

// WithPixelsPerUnit sets the initial pixel to camera unit scale.
func WithPixelsPerUnit(ppu float32) BrushOption {
	return func(b *Brush) {
		if ppu > 0 {
			b.pixelsPerUnit = ppu
		}
	}
}

// WithRunCacheSize bounds the number of shaped runs kept between frames.
func WithRunCacheSize(n int) BrushOption {
	return func(b *Brush) {
		b.runs = cache.New[runKey, []line](n)
	}
}

// NewBrush creates a brush drawing with f. A nil font selects DefaultFont.
func NewBrush(f *Font, opts ...BrushOption) *Brush {
	if f == nil {
		f = DefaultFont()
	}
	b := &Brush{
		font:          f,
		shaper:        newShaper(f),
		raster:        newRasterizer(f),
		runs:          cache.New[runKey, []line](DefaultRunCacheSize),
		glyphs:        make(map[glyphKey]cachedGlyph),
		width:         DefaultAtlasSize,
		height:        DefaultAtlasSize,
		maxSize:       gfx.MaxTextureDimension,
		pixelsPerUnit: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.width, b.height = min(b.width, b.maxSize), min(b.height, b.maxSize)
	b.packer = newShelfPacker(int(b.width), int(b.height))
	return b
}

// Font returns the brush font.
func (b *Brush) Font() *Font { return b.font }

// Queue adds a section to the next Process call.
func (b *Brush) Queue(s Section) {
	b.queue = append(b.queue, s.normalized())
}

// Discard drops every queued section.
func (b *Brush) Discard() { b.queue = nil }

// Pending returns the number of queued sections.
func (b *Brush) Pending() int { return len(b.queue) }

// Dimensions returns the atlas size the brush packs into.
func (b *Brush) Dimensions() (uint32, uint32) { return b.width, b.height }

// PixelsPerUnit returns the pixel to camera unit scale.
func (b *Brush) PixelsPerUnit() float32 { return b.pixelsPerUnit }

// SetPixelsPerUnit changes the pixel to camera unit scale. The next
// Process lays everything out again.
func (b *Brush) SetPixelsPerUnit(ppu float32) {
	if ppu <= 0 || ppu == b.pixelsPerUnit {
		return
	}
	b.pixelsPerUnit = ppu
	b.hasLast = false
}

// Resize adopts a new atlas size. Every glyph is rasterized again into
// the new atlas on the next Process.
func (b *Brush) Resize(width, height uint32) {
	b.width, b.height = width, height
	b.packer.reset(int(width), int(height))
	clear(b.glyphs)
	b.hasLast = false
	gfx.Logger().Debug("glyph: atlas resized", "width", width, "height", height)
}

// RunCacheStats reports shaping cache activity.
func (b *Brush) RunCacheStats() cache.Stats { return b.runs.Stats() }

// Process lays out the queued sections. Missing glyphs are rasterized and
// passed to upload along with their atlas rectangle.
//
// The queue is kept when the result is ActionTextureTooSmall and consumed
// otherwise.
func (b *Brush) Process(upload UploadFunc) Action {
	sections := b.queue
	if b.hasLast && slices.Equal(sections, b.last) {
		b.queue = nil
		return Action{Kind: ActionRedraw}
	}

	preexisting := len(b.glyphs)
	var out []Instance
	for _, s := range sections {
		if s.Text == "" || s.Size <= 0 {
			continue
		}
		var full bool
		out, full = b.layout(out, s, upload)
		if full {
			if w, h, ok := b.suggest(preexisting); ok {
				gfx.Logger().Debug("glyph: atlas full",
					"size", b.width, "utilization", b.packer.utilization(), "suggested", w)
				return Action{Kind: ActionTextureTooSmall, Width: w, Height: h}
			}
			gfx.Logger().Warn("glyph: atlas at maximum size, glyphs dropped",
				"size", b.width, "utilization", b.packer.utilization(), "text", s.Text)
		}
	}

	b.last = sections
	b.hasLast = true
	b.queue = nil
	return Action{Kind: ActionDraw, Instances: out}
}

// suggest returns the next atlas size. At the maximum size the same
// dimensions are suggested once so stale glyphs get flushed; a run that
// does not fit an empty atlas cannot be helped.
func (b *Brush) suggest(preexisting int) (uint32, uint32, bool) {
	w := min(b.width*2, b.maxSize)
	h := min(b.height*2, b.maxSize)
	if w == b.width && h == b.height && preexisting == 0 {
		return 0, 0, false
	}
	return w, h, true
}

// layout appends the instances of s. It reports true when a glyph did not
// fit in the atlas; those glyphs are left out.
func (b *Brush) layout(out []Instance, s Section, upload UploadFunc) ([]Instance, bool) {
	lines := b.runs.GetOrCreate(runKey{text: s.Text, size: s.Size}, func() []line {
		return b.shaper.shape(s.Text, s.Size)
	})
	m := b.font.Metrics(s.Size)
	ppu := b.pixelsPerUnit
	aw, ah := float32(b.width), float32(b.height)

	minX, minY := s.Position[0], s.Position[1]
	maxX, maxY := float32(math.Inf(1)), float32(math.Inf(1))
	if s.Bounds[0] > 0 {
		maxX = minX + s.Bounds[0]
	}
	if s.Bounds[1] > 0 {
		maxY = minY + s.Bounds[1]
	}

	full := false
	for i, l := range lines {
		baseline := float32(math.Round(float64(m.Ascent + float32(i)*m.Height)))
		for _, g := range l.glyphs {
			c, ok := b.glyph(g.id, s.Size, upload)
			if !ok {
				full = true
				continue
			}
			if c.empty {
				continue
			}
			left := float32(math.Round(float64(g.x))) + float32(c.left)
			top := baseline + float32(math.Round(float64(g.y))) + float32(c.top)
			inst := Instance{
				Z:       s.Position[2],
				LeftTop: [2]float32{minX + left/ppu, minY + top/ppu},
				RightBottom: [2]float32{
					minX + (left+float32(c.rect.Dx()))/ppu,
					minY + (top+float32(c.rect.Dy()))/ppu,
				},
				TexLeftTop:     [2]float32{float32(c.rect.Min.X) / aw, float32(c.rect.Min.Y) / ah},
				TexRightBottom: [2]float32{float32(c.rect.Max.X) / aw, float32(c.rect.Max.Y) / ah},
				Color:          s.Color,
			}
			if inst.clip(minX, minY, maxX, maxY) {
				out = append(out, inst)
			}
		}
	}
	return out, full
}

// glyph returns the atlas entry for id at size, rasterizing and uploading
// it on first use. It reports false when the atlas has no room.
func (b *Brush) glyph(id uint16, size float32, upload UploadFunc) (cachedGlyph, bool) {
	key := glyphKey{id: id, size: int32(toFixed(size))}
	if c, ok := b.glyphs[key]; ok {
		return c, true
	}
	bm, err := b.raster.rasterize(id, size)
	if err != nil {
		gfx.Logger().Debug("glyph: rasterize failed", "glyph", id, "err", err)
	}
	if err != nil || bm.empty() {
		c := cachedGlyph{empty: true}
		b.glyphs[key] = c
		return c, true
	}
	rect, ok := b.packer.allocate(bm.mask.Rect.Dx(), bm.mask.Rect.Dy())
	if !ok {
		return cachedGlyph{}, false
	}
	if upload != nil {
		upload(rect, bm.mask.Pix)
	}
	c := cachedGlyph{rect: rect, left: bm.left, top: bm.top}
	b.glyphs[key] = c
	return c, true
}
