// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyph

import "golang.org/x/text/unicode/norm"

// Section is a run of text queued for one frame.
type Section struct {
	Text string
	// Size is the font size in pixels per em.
	Size float32
	// Position is the top-left corner of the first line in camera units,
	// plus the depth of every glyph.
	Position [3]float32
	Color    [4]float32
	// Bounds limits the run to a width and height in camera units.
	// A zero component leaves that axis unbounded.
	Bounds [2]float32
}

// normalized returns s with its text in NFC form.
func (s Section) normalized() Section {
	s.Text = norm.NFC.String(s.Text)
	return s
}
