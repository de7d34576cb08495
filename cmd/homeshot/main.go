// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command homeshot renders one frame of a home screen described by a TOML
// file into a PNG, using an offscreen surface.
//
// Usage:
//
//	homeshot -config homescreen.toml -output shot.png -move 2,1
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/homescreen/config"
	"github.com/gogpu/homescreen/gfx"
	"github.com/gogpu/homescreen/glyph"
	"github.com/gogpu/homescreen/home"
	"github.com/gogpu/homescreen/render"
	"github.com/gogpu/homescreen/sprite"
	"github.com/gogpu/homescreen/text"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "home screen TOML file (defaults when empty)")
		output  = flag.String("output", "", "output PNG (overrides the config)")
		move    = flag.String("move", "0,0", "focus movement dx,dy applied before rendering")
		useNoop = flag.Bool("noop", false, "use the noop backend (no pixels are produced)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	var dx, dy int
	if _, err := fmt.Sscanf(*move, "%d,%d", &dx, &dy); err != nil {
		log.Fatalf("Invalid -move %q: %v", *move, err)
	}

	var (
		dev *gfx.Device
		err error
	)
	if *useNoop {
		dev, err = gfx.OpenDeviceWith(&noop.API{})
	} else {
		dev, err = gfx.OpenDevice(gputypes.BackendVulkan)
	}
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Destroy()

	if err := run(dev, cfg, dx, dy); err != nil {
		log.Fatalf("homeshot: %v", err)
	}
	log.Printf("Home screen saved to %s (%dx%d)\n", cfg.Output.Path, cfg.Window.Width, cfg.Window.Height)
}

func run(dev *gfx.Device, cfg config.Config, dx, dy int) error {
	surface := gfx.NewOffscreenSurface()
	defer surface.Destroy()

	ctx, err := gfx.NewContext(dev.Device, dev.Queue, surface,
		cfg.Window.Width, cfg.Window.Height, cfg.ContextOptions()...)
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	font, err := cfg.Font()
	if err != nil {
		return err
	}
	brush := glyph.NewBrush(font, cfg.BrushOptions()...)

	sprites, err := sprite.New(ctx)
	if err != nil {
		return err
	}
	defer sprites.Destroy()

	txt, err := text.New(ctx, brush, cfg.PassOptions()...)
	if err != nil {
		return err
	}
	defer txt.Destroy()

	renderer, err := render.New(ctx, sprites, txt)
	if err != nil {
		return err
	}
	defer func() { _ = renderer.Flush() }()

	grid := buildGrid(cfg)
	grid.Move(dx, dy)
	// Settle the scroll animation so the shot shows the final layout.
	grid.Update(home.ScrollDuration)

	if err := grid.SetRenderDetails(sprites, txt, ctx.Camera()); err != nil {
		return err
	}
	status, err := renderer.Render()
	if err != nil {
		return err
	}
	if status != render.FrameRendered {
		return fmt.Errorf("frame %v", status)
	}

	if err := renderer.Flush(); err != nil {
		return err
	}
	img, err := surface.Readback(dev.Device, dev.Queue)
	if err != nil {
		return err
	}
	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func buildGrid(cfg config.Config) *home.Grid {
	grid := home.NewGrid()
	for _, rc := range cfg.Rows {
		row := home.NewRow(rc.Title)
		for _, tc := range rc.Tiles {
			tile := home.NewTile(tc.Title)
			data, err := os.ReadFile(tc.Image)
			if err != nil {
				gfx.Logger().Warn("tile image unreadable", "tile", tc.Title, "err", err)
				// Empty bytes fail to decode, so the tile shows its title.
				data = []byte{}
			}
			tile.SetImage(data)
			row.PushTile(tile)
		}
		grid.PushRow(row)
	}
	return grid
}
