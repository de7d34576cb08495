// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	img := solidImage(8, 6)
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, img, nil); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", encodePNG(t, img), "png"},
		{"jpeg", jpg.Bytes(), "jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, format, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 6 {
				t.Errorf("bounds = %v", got.Bounds())
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := encodePNG(t, solidImage(4, 4))
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("<html>404</html>")},
		{"truncated png", valid[:len(valid)/2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(tt.data); !errors.Is(err, ErrDecode) {
				t.Errorf("err = %v, want ErrDecode", err)
			}
		})
	}
}

func TestDecodeDownscalesLargeImages(t *testing.T) {
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, MaxImageDimension*2, 100)))
	img, _, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != MaxImageDimension || b.Dy() != 50 {
		t.Errorf("downscaled to %dx%d, want %dx50", b.Dx(), b.Dy(), MaxImageDimension)
	}
}

func TestPlaceholderImage(t *testing.T) {
	img := placeholderImage()
	if img.Bounds().Dx() != placeholderSize || img.Bounds().Dy() != placeholderSize {
		t.Errorf("placeholder bounds = %v", img.Bounds())
	}
	if img.RGBAAt(0, 0) == img.RGBAAt(8, 0) {
		t.Error("placeholder is not a checkerboard")
	}
}
