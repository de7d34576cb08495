// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"image"
	"image/color"
)

const placeholderSize = 64

// placeholderImage is the dark checkerboard shown in place of tile art that
// failed to decode.
func placeholderImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	dark := color.RGBA{R: 0x1c, G: 0x1f, B: 0x26, A: 0xff}
	light := color.RGBA{R: 0x2a, G: 0x2e, B: 0x38, A: 0xff}
	const cell = 8
	for y := range placeholderSize {
		for x := range placeholderSize {
			c := dark
			if (x/cell+y/cell)%2 == 1 {
				c = light
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
