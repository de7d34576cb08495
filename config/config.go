// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the TOML description of a home screen: window size,
// camera and atlas tuning, and the rows of tiles to show.
//
// Example homescreen.toml:
//
//	[window]
//	width = 1280
//	height = 720
//	clear_color = [0.0, 0.005, 0.0, 1.0]
//
//	[[rows]]
//	title = "Movies"
//	[[rows.tiles]]
//	title = "Big Buck Bunny"
//	image = "posters/bbb.png"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/glyph"
	"github.com/gogpu/homescreen/text"
)

// ErrInvalidConfig wraps every validation failure reported by Load.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the root of homescreen.toml.
type Config struct {
	Window WindowConfig `toml:"window"`
	Camera CameraConfig `toml:"camera"`
	Text   TextConfig   `toml:"text"`
	Output OutputConfig `toml:"output"`
	Rows   []RowConfig  `toml:"rows"`
}

// WindowConfig is the size and background of the rendered frame.
type WindowConfig struct {
	Width      uint32     `toml:"width"`
	Height     uint32     `toml:"height"`
	ClearColor [4]float64 `toml:"clear_color"`
}

// CameraConfig holds the orthographic camera settings.
type CameraConfig struct {
	// Scale is the visible window height in camera units.
	Scale float32 `toml:"scale"`
}

// TextConfig tunes the glyph atlas.
type TextConfig struct {
	Font         string `toml:"font"`
	AtlasSize    uint32 `toml:"atlas_size"`
	MaxAtlasSize uint32 `toml:"max_atlas_size"`
	MaxRetries   int    `toml:"max_retries"`
}

// OutputConfig controls where a rendered frame is written.
type OutputConfig struct {
	Path string `toml:"path"`
}

// RowConfig is one titled row of tiles.
type RowConfig struct {
	Title string       `toml:"title"`
	Tiles []TileConfig `toml:"tiles"`
}

// TileConfig is one tile. Image may be empty or unreadable, in which case
// the tile falls back to its title.
type TileConfig struct {
	Title string `toml:"title"`
	Image string `toml:"image"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	c := gfx.DefaultClearColor
	return Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			ClearColor: [4]float64{c.R, c.G, c.B, c.A},
		},
		Camera: CameraConfig{Scale: gfx.DefaultCameraScale},
		Text: TextConfig{
			AtlasSize:    glyph.DefaultAtlasSize,
			MaxAtlasSize: gfx.MaxTextureDimension,
			MaxRetries:   text.DefaultMaxRetries,
		},
		Output: OutputConfig{Path: "homescreen.png"},
	}
}

// Load reads path over the defaults and validates the result. Relative
// font and image paths are resolved against the directory of path.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.Text.Font = resolve(dir, cfg.Text.Font)
	for i := range cfg.Rows {
		for j := range cfg.Rows[i].Tiles {
			t := &cfg.Rows[i].Tiles[j]
			t.Image = resolve(dir, t.Image)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate reports the first out-of-range setting, wrapped in
// ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Window.Width == 0 || c.Window.Height == 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Window.Width > gfx.MaxTextureDimension || c.Window.Height > gfx.MaxTextureDimension:
		return fmt.Errorf("%w: window size %dx%d exceeds %d", ErrInvalidConfig,
			c.Window.Width, c.Window.Height, gfx.MaxTextureDimension)
	case c.Camera.Scale <= 0:
		return fmt.Errorf("%w: camera scale %v", ErrInvalidConfig, c.Camera.Scale)
	case c.Text.AtlasSize == 0:
		return fmt.Errorf("%w: atlas size 0", ErrInvalidConfig)
	case c.Text.MaxAtlasSize < c.Text.AtlasSize || c.Text.MaxAtlasSize > gfx.MaxTextureDimension:
		return fmt.Errorf("%w: max atlas size %d outside [%d, %d]", ErrInvalidConfig,
			c.Text.MaxAtlasSize, c.Text.AtlasSize, gfx.MaxTextureDimension)
	case c.Text.MaxRetries < 1:
		return fmt.Errorf("%w: max retries %d", ErrInvalidConfig, c.Text.MaxRetries)
	}
	for i, v := range c.Window.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear color component %d = %v", ErrInvalidConfig, i, v)
		}
	}
	return nil
}

// ContextOptions converts the window and camera sections.
func (c Config) ContextOptions() []gfx.ContextOption {
	cc := c.Window.ClearColor
	return []gfx.ContextOption{
		gfx.WithCameraScale(c.Camera.Scale),
		gfx.WithClearColor(gputypes.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
	}
}

// BrushOptions converts the text section.
func (c Config) BrushOptions() []glyph.BrushOption {
	return []glyph.BrushOption{
		glyph.WithAtlasSize(c.Text.AtlasSize, c.Text.AtlasSize),
		glyph.WithMaxAtlasSize(c.Text.MaxAtlasSize),
	}
}

// PassOptions converts the retry budget of the text section.
func (c Config) PassOptions() []text.Option {
	return []text.Option{text.WithMaxRetries(c.Text.MaxRetries)}
}

// Font loads the configured font, or the built-in one when none is set.
func (c Config) Font() (*glyph.Font, error) {
	if c.Text.Font == "" {
		return glyph.DefaultFont(), nil
	}
	data, err := os.ReadFile(c.Text.Font)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return glyph.ParseFont(data)
}
