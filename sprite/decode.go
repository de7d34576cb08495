// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxImageDimension is the largest edge a decoded tile image keeps. Larger
// images are downscaled preserving their aspect ratio.
const MaxImageDimension = 2048

// ErrDecode is returned when image bytes cannot be decoded.
var ErrDecode = errors.New("sprite: cannot decode image")

// Decode sniffs the format of data and decodes it. PNG, JPEG, GIF, WebP and
// BMP are supported. The returned string is the format name.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: no data", ErrDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, format, fmt.Errorf("%w: empty %s image", ErrDecode, format)
	}
	if b.Dx() > MaxImageDimension || b.Dy() > MaxImageDimension {
		img = fit(img, MaxImageDimension)
	}
	return img, format, nil
}

// fit downscales img so that neither edge exceeds limit.
func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = max(1, h*limit/w)
		w = limit
	} else {
		w = max(1, w*limit/h)
		h = limit
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
