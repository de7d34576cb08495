// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package home lays out the home screen: a Grid of Rows, each Row a title
// Label above a horizontal strip of Tiles.
//
// Nodes only hold layout state. Once per frame the caller runs
// SetRenderDetails, which creates or updates the sprites and texts that
// represent each node in the sprite and text passes. All positions are in
// camera units with y growing downward; a tile's position is its center.
//
// Input is expressed as focus movement through Grid.Move, so the package
// does not depend on any windowing library.
package home
