// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package tile

import (
	"time"

	"github.com/expogrid/expogrid/capture"
	"github.com/expogrid/expogrid/config"
)

// Source is the read side of a workspace record, as seen by the
// renderer. *workspace.Record satisfies it.
type Source interface {
	Index() int
	Dummy() bool
	Name() string
	HasScreenshot() bool
	Screenshot() (capture.Buffer, time.Time)
}

// Variant selects the palette and content style of a tile.
type Variant int

const (
	// Nonexistent marks grid slots beyond the configured workspace
	// count. Drawn flat, never selectable.
	Nonexistent Variant = iota

	// Empty marks a workspace slot within the configured count that
	// the window manager has never reported.
	Empty

	// Unknown marks a live workspace with no accepted screenshot yet.
	// Drawn with a placeholder glyph.
	Unknown

	// Inactive marks a workspace with a cached screenshot that is not
	// currently focused.
	Inactive

	// Active marks the focused workspace.
	Active
)

// String returns the variant name for logging.
func (v Variant) String() string {
	switch v {
	case Nonexistent:
		return "nonexistent"
	case Empty:
		return "empty"
	case Unknown:
		return "unknown"
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	default:
		return "invalid"
	}
}

// Selectable reports whether clicking the tile can switch workspaces.
// Empty tiles are selectable only when allowEmpty is set (and even
// then only if a target name exists, which the overview checks).
func (v Variant) Selectable(allowEmpty bool) bool {
	switch v {
	case Active, Inactive, Unknown:
		return true
	case Empty:
		return allowEmpty
	default:
		return false
	}
}

// variantFor classifies one grid slot given the record behind it, the
// active workspace index, and the configured workspace count.
func variantFor(index int, src Source, active, configured int) Variant {
	if src == nil || src.Dummy() {
		if index <= configured {
			return Empty
		}
		return Nonexistent
	}
	if !src.HasScreenshot() {
		return Unknown
	}
	if index == active {
		return Active
	}
	return Inactive
}

// paletteFor resolves the color pair for a variant.
func paletteFor(set config.PaletteSet, v Variant) config.Palette {
	switch v {
	case Active:
		return set.Active
	case Inactive:
		return set.Inactive
	case Unknown:
		return set.Unknown
	case Empty:
		return set.Empty
	default:
		return set.Nonexistent
	}
}
