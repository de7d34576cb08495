// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"testing"

	"github.com/gogpu/homescreen/internal/gputest"
)

const minimalShader = `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV(minimalShader)
	if err != nil {
		t.Fatalf("CompileSPIRV: %v", err)
	}
	if len(words) == 0 || words[0] != 0x07230203 {
		t.Errorf("invalid SPIR-V header")
	}
}

func TestCompileSPIRVRejectsInvalidSource(t *testing.T) {
	if _, err := CompileSPIRV("fn broken("); err == nil {
		t.Error("expected compile error")
	}
}

func TestContextCreateShaderModule(t *testing.T) {
	for _, format := range []ShaderFormat{ShaderWGSL, ShaderSPIRV} {
		t.Run(format.String(), func(t *testing.T) {
			dev, queue := gputest.NoopDevice(t)
			ctx, err := NewContext(dev, queue, NewOffscreenSurface(), 32, 32, WithShaderFormat(format))
			if err != nil {
				t.Fatal(err)
			}
			defer ctx.Destroy()

			module, err := ctx.CreateShaderModule("minimal", minimalShader)
			if err != nil {
				t.Fatalf("CreateShaderModule: %v", err)
			}
			if module == nil {
				t.Fatal("nil module")
			}
			dev.DestroyShaderModule(module)
		})
	}
}
