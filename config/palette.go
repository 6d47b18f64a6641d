// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the frame/tile color pair for one tile state.
type Palette struct {
	Frame color.NRGBA
	Tile  color.NRGBA
}

// PaletteSet holds the resolved colors for every tile state plus the
// overview chrome.
type PaletteSet struct {
	Background color.NRGBA
	Names      color.NRGBA

	Active      Palette
	Inactive    Palette
	Unknown     Palette
	Empty       Palette
	Nonexistent Palette
}

// palettes parses the configured color strings into a PaletteSet.
// Every parse failure is reported, with the YAML field name, so a
// user fixing a theme sees all mistakes at once.
func (c ColorsConfig) palettes() (PaletteSet, error) {
	var errs []error
	parse := func(field, value string) color.NRGBA {
		parsed, err := colorful.Hex(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("colors.%s: %q is not a #rrggbb color", field, value))
			return color.NRGBA{}
		}
		r, g, b := parsed.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}

	set := PaletteSet{
		Background: parse("background", c.Background),
		Names:      parse("names", c.Names),
		Active: Palette{
			Frame: parse("frame_active", c.FrameActive),
			Tile:  parse("tile_active", c.TileActive),
		},
		Inactive: Palette{
			Frame: parse("frame_inactive", c.FrameInactive),
			Tile:  parse("tile_inactive", c.TileInactive),
		},
		Unknown: Palette{
			Frame: parse("frame_unknown", c.FrameUnknown),
			Tile:  parse("tile_unknown", c.TileUnknown),
		},
		Empty: Palette{
			Frame: parse("frame_empty", c.FrameEmpty),
			Tile:  parse("tile_empty", c.TileEmpty),
		},
		Nonexistent: Palette{
			Frame: parse("frame_nonexistent", c.FrameNonexistent),
			Tile:  parse("tile_nonexistent", c.TileNonexistent),
		},
	}
	return set, errors.Join(errs...)
}
