// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"testing"

	"github.com/gogpu/homescreen/gfx"
)

func TestFocused(t *testing.T) {
	base := NewInstance(1, 2, 0, 1.78, 1)

	if got := Focused(base, false); got != base {
		t.Errorf("unfocused = %+v, want %+v", got, base)
	}
	got := Focused(base, true)
	if got.Position != [3]float32{1, 2, 1} {
		t.Errorf("focused position = %v", got.Position)
	}
	if got.Size[0] != base.Size[0]*FocusScale || got.Size[1] != base.Size[1]*FocusScale {
		t.Errorf("focused size = %v", got.Size)
	}
	if got.Alpha != 1 {
		t.Errorf("alpha = %v", got.Alpha)
	}
}

func TestEncodeInstanceLayout(t *testing.T) {
	inst := Instance{Position: [3]float32{1, -2, 3}, Size: [2]float32{4, 5}, Alpha: 0.5}
	buf := make([]byte, InstanceStride)
	encodeInstance(buf, inst)
	if got := decodeInstance(buf); got != inst {
		t.Errorf("decoded = %+v, want %+v", got, inst)
	}
}

func TestQuadMesh(t *testing.T) {
	if n := len(quadVertexBytes()); n != 4*quadVertexStride {
		t.Errorf("vertex bytes = %d", n)
	}
	if n := len(quadIndexBytes()); n%4 != 0 || n < quadIndexCount*2 {
		t.Errorf("index bytes = %d", n)
	}
	for i, v := range quadVertices {
		u, w := v[2], v[3]
		if u != v[0]+0.5 || w != v[1]+0.5 {
			t.Errorf("vertex %d uv (%v,%v) does not match position", i, u, w)
		}
	}
}

func TestSpriteShaderCompiles(t *testing.T) {
	if _, err := gfx.CompileSPIRV(spriteShaderSource); err != nil {
		t.Fatalf("sprite shader: %v", err)
	}
}
