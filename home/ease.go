// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package home

import "github.com/go-gl/mathgl/mgl32"

// Ease maps animation progress in [0, 1] to eased progress.
type Ease int

const (
	EaseLinear Ease = iota
	EaseInOutCubic
)

// Progress returns the eased value of x, clamped to [0, 1].
func (e Ease) Progress(x float32) float32 {
	x = mgl32.Clamp(x, 0, 1)
	switch e {
	case EaseInOutCubic:
		if x < 0.5 {
			return 4 * x * x * x
		}
		inner := -2*x + 2
		return 1 - inner*inner*inner/2
	default:
		return x
	}
}

// Apply interpolates between start and end at progress t.
func (e Ease) Apply(start, end, t float32) float32 {
	return start + (end-start)*e.Progress(t)
}

// tween animates a vector toward a target over a fixed duration.
type tween struct {
	ease     Ease
	from, to mgl32.Vec3
	elapsed  float64
	duration float64
}

// retarget starts a new animation from the current value.
func (t *tween) retarget(to mgl32.Vec3, duration float64) {
	t.from = t.value()
	t.to = to
	t.elapsed = 0
	t.duration = duration
}

// advance moves time forward by dt seconds and reports whether the value
// changed.
func (t *tween) advance(dt float64) bool {
	if t.done() {
		return false
	}
	t.elapsed += dt
	return true
}

func (t *tween) done() bool { return t.elapsed >= t.duration }

func (t *tween) value() mgl32.Vec3 {
	if t.duration <= 0 || t.done() {
		return t.to
	}
	p := float32(t.elapsed / t.duration)
	return mgl32.Vec3{
		t.ease.Apply(t.from[0], t.to[0], p),
		t.ease.Apply(t.from[1], t.to[1], p),
		t.ease.Apply(t.from[2], t.to[2], p),
	}
}
