// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package overview

import (
	"image"

	"github.com/expogrid/expogrid/config"
)

// labelHeight is the strip below each tile reserved for the workspace
// name.
const labelHeight = 16

// Geometry is the resolved pixel layout of the overview grid. Slots
// are numbered 1..Columns*Rows in reading order and map directly to
// workspace indexes.
type Geometry struct {
	Width, Height int
	Columns, Rows int
	TileSize      image.Point

	padX, padY     int
	spaceX, spaceY int
}

// NewGeometry computes the grid layout for a window of the given size.
// Padding and spacing are percentages of the window dimensions; tiles
// get what remains, split evenly.
func NewGeometry(ui config.UIConfig, width, height int) Geometry {
	g := Geometry{
		Width:   width,
		Height:  height,
		Columns: ui.GridColumns,
		Rows:    ui.GridRows,
		padX:    width * ui.PaddingPercentX / 100,
		padY:    height * ui.PaddingPercentY / 100,
		spaceX:  width * ui.SpacingPercentX / 100,
		spaceY:  height * ui.SpacingPercentY / 100,
	}
	g.TileSize = image.Point{
		X: (width - 2*g.padX - (g.Columns-1)*g.spaceX) / g.Columns,
		Y: (height - 2*g.padY - (g.Rows-1)*g.spaceY) / g.Rows,
	}
	return g
}

// Slots returns the number of grid positions.
func (g Geometry) Slots() int { return g.Columns * g.Rows }

// TileRect returns the outer rect of a 1-based slot.
func (g Geometry) TileRect(slot int) image.Rectangle {
	col := (slot - 1) % g.Columns
	row := (slot - 1) / g.Columns
	min := image.Point{
		X: g.padX + col*(g.TileSize.X+g.spaceX),
		Y: g.padY + row*(g.TileSize.Y+g.spaceY),
	}
	return image.Rectangle{Min: min, Max: min.Add(g.TileSize)}
}

// DirtyRect returns the tile rect extended by the label strip, clipped
// to the window. This is the region a tile blit invalidates.
func (g Geometry) DirtyRect(slot int) image.Rectangle {
	r := g.TileRect(slot)
	r.Max.Y += labelHeight
	return r.Intersect(image.Rect(0, 0, g.Width, g.Height))
}

// HitTest returns the slot under the point, or 0 when the point lies
// on padding, spacing, or a label strip.
func (g Geometry) HitTest(p image.Point) int {
	for slot := 1; slot <= g.Slots(); slot++ {
		if p.In(g.TileRect(slot)) {
			return slot
		}
	}
	return 0
}

// Move shifts a slot by grid deltas with wraparound on both axes. A
// zero slot (no selection yet) starts at slot 1.
func (g Geometry) Move(slot, dx, dy int) int {
	if slot < 1 || slot > g.Slots() {
		return 1
	}
	col := (slot - 1) % g.Columns
	row := (slot - 1) / g.Columns
	col = ((col+dx)%g.Columns + g.Columns) % g.Columns
	row = ((row+dy)%g.Rows + g.Rows) % g.Rows
	return row*g.Columns + col + 1
}
