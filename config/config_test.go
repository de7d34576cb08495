// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "homescreen.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("window = %dx%d, want 1280x720", cfg.Window.Width, cfg.Window.Height)
	}
	if len(cfg.ContextOptions()) != 2 || len(cfg.BrushOptions()) != 2 || len(cfg.PassOptions()) != 1 {
		t.Error("option conversions returned unexpected lengths")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 640
height = 360

[camera]
scale = 4.0

[[rows]]
title = "Movies"

[[rows.tiles]]
title = "First"
image = "posters/first.png"

[[rows.tiles]]
title = "Second"
image = "/abs/second.png"

[[rows]]
title = "Shows"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 360 {
		t.Errorf("window = %dx%d, want 640x360", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Camera.Scale != 4 {
		t.Errorf("scale = %v, want 4", cfg.Camera.Scale)
	}
	// Unset sections keep their defaults.
	if cfg.Text.MaxRetries != Default().Text.MaxRetries {
		t.Errorf("max retries = %d, want default", cfg.Text.MaxRetries)
	}
	if len(cfg.Rows) != 2 || len(cfg.Rows[0].Tiles) != 2 || len(cfg.Rows[1].Tiles) != 0 {
		t.Fatalf("rows = %+v", cfg.Rows)
	}
	want := filepath.Join(filepath.Dir(path), "posters", "first.png")
	if got := cfg.Rows[0].Tiles[0].Image; got != want {
		t.Errorf("relative image = %q, want %q", got, want)
	}
	if got := cfg.Rows[0].Tiles[1].Image; got != "/abs/second.png" {
		t.Errorf("absolute image = %q, want unchanged", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero width", "[window]\nwidth = 0\n"},
		{"huge height", "[window]\nheight = 9000\n"},
		{"negative scale", "[camera]\nscale = -1.0\n"},
		{"zero atlas", "[text]\natlas_size = 0\n"},
		{"max below atlas", "[text]\natlas_size = 512\nmax_atlas_size = 256\n"},
		{"no retries", "[text]\nmax_retries = 0\n"},
		{"clear color range", "[window]\nclear_color = [0.0, 2.0, 0.0, 1.0]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: error = %v, want os.ErrNotExist", err)
	}
	_, err := Load(writeConfig(t, "[window\nwidth = 1"))
	if err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Errorf("malformed file: error = %v, want parse error", err)
	}
}

func TestFont(t *testing.T) {
	cfg := Default()
	f, err := cfg.Font()
	if err != nil || f == nil {
		t.Fatalf("built-in font: %v", err)
	}

	cfg.Text.Font = filepath.Join(t.TempDir(), "nope.ttf")
	if _, err := cfg.Font(); err == nil {
		t.Error("missing font file: expected error")
	}
}
