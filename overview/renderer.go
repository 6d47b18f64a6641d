// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package overview

import (
	"image"
	"image/draw"
	"log/slog"
	"strconv"
	"time"

	"github.com/expogrid/expogrid/config"
	"github.com/expogrid/expogrid/lib/clock"
	"github.com/expogrid/expogrid/tile"
	"github.com/expogrid/expogrid/workspace"
)

// Renderer composes the overview frame from per-slot tile caches and
// tracks what each slot last showed, so Refresh only re-blits tiles
// whose cache regenerated since their last appearance.
//
// Renderer is not safe for concurrent use; the session goroutine owns
// it.
type Renderer struct {
	cfg      *config.Config
	geo      Geometry
	registry *workspace.Registry
	clock    clock.Clock
	logger   *slog.Logger

	frame     *image.RGBA
	caches    []*tile.Cache
	lastShown []time.Time
	hovered   int
}

// NewRenderer builds a renderer for a window of the given size. The
// frame starts as plain background; the first Refresh paints every
// tile.
func NewRenderer(cfg *config.Config, registry *workspace.Registry, clk clock.Clock, logger *slog.Logger, width, height int) *Renderer {
	geo := NewGeometry(cfg.UI, width, height)
	r := &Renderer{
		cfg:       cfg,
		geo:       geo,
		registry:  registry,
		clock:     clk,
		logger:    logger,
		frame:     image.NewRGBA(image.Rect(0, 0, width, height)),
		caches:    make([]*tile.Cache, geo.Slots()),
		lastShown: make([]time.Time, geo.Slots()),
	}
	opts := tile.Options{
		Width:      geo.TileSize.X,
		Height:     geo.TileSize.Y,
		FrameWidth: cfg.UI.FrameWidthPx,
		Stretch:    cfg.Flags.ThumbStretch,
		Palette:    cfg.Palette,
	}
	for slot := 1; slot <= geo.Slots(); slot++ {
		r.caches[slot-1] = tile.NewCache(slot, opts)
	}
	draw.Draw(r.frame, r.frame.Bounds(), image.NewUniform(cfg.Palette.Background), image.Point{}, draw.Src)
	return r
}

// Frame returns the composed frame. The same backing image is mutated
// in place across Refresh calls.
func (r *Renderer) Frame() *image.RGBA { return r.frame }

// Geometry returns the resolved grid layout.
func (r *Renderer) Geometry() Geometry { return r.geo }

// Hovered returns the currently highlighted slot, 0 for none.
func (r *Renderer) Hovered() int { return r.hovered }

// Refresh brings every slot's tile up to date and re-blits the ones
// that changed since they were last shown. Returns the dirty
// rectangles that need pushing to the display.
func (r *Renderer) Refresh() []image.Rectangle {
	now := r.clock.Now()
	active := r.registry.Active()
	var dirty []image.Rectangle

	for slot := 1; slot <= r.geo.Slots(); slot++ {
		cache := r.caches[slot-1]
		record, err := r.registry.Get(slot)
		if err != nil {
			// Slots map to positive indexes; this cannot happen.
			r.logger.Error("grid slot maps to invalid workspace", "slot", slot, "error", err)
			continue
		}
		cache.Update(record, active, r.cfg.UI.Workspaces, now)

		shown := r.lastShown[slot-1]
		if !shown.IsZero() && !cache.LastChange().After(shown) {
			continue
		}
		r.blit(slot)
		r.lastShown[slot-1] = now
		dirty = append(dirty, r.geo.DirtyRect(slot))
	}
	return dirty
}

// SetHovered moves the highlight to the given slot (0 clears it) and
// returns the rects invalidated by the change.
func (r *Renderer) SetHovered(slot int) []image.Rectangle {
	if slot == r.hovered {
		return nil
	}
	previous := r.hovered
	r.hovered = slot

	var dirty []image.Rectangle
	for _, s := range []int{previous, slot} {
		if s < 1 || s > r.geo.Slots() {
			continue
		}
		r.blit(s)
		dirty = append(dirty, r.geo.DirtyRect(s))
	}
	return dirty
}

// TargetName resolves the workspace name a slot selection switches to.
// Live workspaces use their reported name. Empty slots are selectable
// only with switch_to_empty_workspaces and a configured name for that
// index. Returns false when the slot must not be selected.
func (r *Renderer) TargetName(slot int) (string, bool) {
	if slot < 1 || slot > r.geo.Slots() {
		return "", false
	}
	cache := r.caches[slot-1]
	if !cache.Variant().Selectable(r.cfg.Flags.SwitchToEmptyWorkspaces) {
		return "", false
	}

	record, err := r.registry.Get(slot)
	if err != nil {
		return "", false
	}
	if !record.Dummy() {
		if name := record.Name(); name != "" {
			return name, true
		}
		return strconv.Itoa(slot), true
	}

	name, ok := r.cfg.WorkspaceNames[slot]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// blit paints one slot's tile (highlighted if hovered) and its label
// into the frame.
func (r *Renderer) blit(slot int) {
	cache := r.caches[slot-1]
	img := cache.Image()
	if slot == r.hovered {
		if lit := cache.Highlighted(r.cfg.UI.HighlightPercent); lit != nil {
			img = lit
		}
	}
	if img == nil {
		return
	}

	rect := r.geo.TileRect(slot)
	draw.Draw(r.frame, rect, img, img.Bounds().Min, draw.Src)

	if r.cfg.Flags.ShowNames {
		r.drawLabel(slot, rect)
	}
}

// drawLabel clears the label strip under a tile and draws the
// workspace name centered in it.
func (r *Renderer) drawLabel(slot int, tileRect image.Rectangle) {
	strip := image.Rect(tileRect.Min.X, tileRect.Max.Y, tileRect.Max.X, tileRect.Max.Y+labelHeight)
	strip = strip.Intersect(r.frame.Bounds())
	draw.Draw(r.frame, strip, image.NewUniform(r.cfg.Palette.Background), image.Point{}, draw.Src)

	label := r.labelFor(slot)
	if label == "" || strip.Empty() {
		return
	}
	width := tile.MeasureLabel(label)
	at := image.Point{
		X: strip.Min.X + (strip.Dx()-width)/2,
		Y: strip.Min.Y + 12,
	}
	tile.DrawLabel(r.frame, at, label, r.cfg.Palette.Names)
}

// labelFor picks the display name for a slot: configured override
// first, then the live workspace name, then the bare index for slots
// within the configured workspace count.
func (r *Renderer) labelFor(slot int) string {
	if name, ok := r.cfg.WorkspaceNames[slot]; ok && name != "" {
		return name
	}
	if record, err := r.registry.Get(slot); err == nil && !record.Dummy() {
		if name := record.Name(); name != "" {
			return name
		}
	}
	if slot <= r.cfg.UI.Workspaces {
		return strconv.Itoa(slot)
	}
	return ""
}
