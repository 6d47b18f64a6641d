// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package tile

import (
	"image"
	"time"

	"github.com/expogrid/expogrid/config"
)

// Options fixes a tile's geometry and colors. Width and Height are the
// outer tile size, frame included.
type Options struct {
	Width      int
	Height     int
	FrameWidth int

	// Stretch fills the interior exactly, ignoring the screenshot's
	// aspect ratio. Off means aspect-preserving centered fit.
	Stretch bool

	Palette config.PaletteSet
}

// Cache is the lazily regenerated composite image for one grid slot.
// Update returns the same *image.RGBA pointer until something actually
// changes, so callers can compare pointers (or LastChange timestamps)
// to decide whether a blit is needed.
//
// Cache is not safe for concurrent use; the overview session owns it.
type Cache struct {
	index int
	opts  Options

	variant     Variant
	thumb       *image.RGBA
	thumbTaken  time.Time
	composite   *image.RGBA
	highlighted *image.RGBA
	lastChange  time.Time
}

// NewCache returns an empty cache for the given workspace index. The
// first Update renders it.
func NewCache(index int, opts Options) *Cache {
	return &Cache{index: index, opts: opts}
}

// Index returns the workspace index this cache renders.
func (c *Cache) Index() int { return c.index }

// Variant returns the variant of the last rendered composite.
func (c *Cache) Variant() Variant { return c.variant }

// LastChange returns when the composite last regenerated. The zero
// value means never rendered.
func (c *Cache) LastChange() time.Time { return c.lastChange }

// Image returns the current composite without updating it. Nil before
// the first Update.
func (c *Cache) Image() *image.RGBA { return c.composite }

// Recolor replaces the geometry and palette, forcing the next Update
// to regenerate. Used on config reload.
func (c *Cache) Recolor(opts Options) {
	if opts == c.opts {
		return
	}
	c.opts = opts
	c.composite = nil
	c.highlighted = nil
	c.thumb = nil
	c.thumbTaken = time.Time{}
}

// Update brings the composite in line with the record and returns it.
// The returned image is regenerated only when the variant changed, a
// newer screenshot arrived, or the screenshot disappeared (index
// reuse); otherwise the previous pointer is returned unchanged.
func (c *Cache) Update(src Source, active, configured int, now time.Time) *image.RGBA {
	variant := variantFor(c.index, src, active, configured)
	dirty := c.composite == nil || variant != c.variant

	switch variant {
	case Active, Inactive:
		buffer, taken := src.Screenshot()
		if c.thumb == nil || taken.After(c.thumbTaken) {
			c.thumb = scaleBuffer(buffer, c.interior().Size(), c.opts.Stretch)
			c.thumbTaken = taken
			dirty = true
		}
	default:
		if c.thumb != nil {
			c.thumb = nil
			c.thumbTaken = time.Time{}
			dirty = true
		}
	}

	if dirty {
		c.render(variant)
		c.variant = variant
		c.lastChange = now
	}
	return c.composite
}

// Highlighted returns the composite with the hover overlay applied, a
// white layer at the given opacity percent. Cached alongside the
// composite.
func (c *Cache) Highlighted(percent int) *image.RGBA {
	if c.composite == nil {
		return nil
	}
	if c.highlighted == nil {
		c.highlighted = overlayWhite(c.composite, percent)
	}
	return c.highlighted
}

// interior returns the tile rect inside the frame, in tile-local
// coordinates.
func (c *Cache) interior() image.Rectangle {
	return image.Rect(0, 0, c.opts.Width, c.opts.Height).Inset(c.opts.FrameWidth)
}

// render rebuilds the composite for the given variant.
func (c *Cache) render(variant Variant) {
	palette := paletteFor(c.opts.Palette, variant)
	img := image.NewRGBA(image.Rect(0, 0, c.opts.Width, c.opts.Height))
	fill(img, img.Bounds(), palette.Frame)
	interior := c.interior()
	fill(img, interior, palette.Tile)

	switch {
	case c.thumb != nil:
		pasteCentered(img, interior, c.thumb)
	case variant == Unknown:
		drawGlyph(img, interior, "?", c.opts.Palette.Names)
	}

	c.composite = img
	c.highlighted = nil
}
