// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package tile

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/expogrid/expogrid/capture"
	"github.com/expogrid/expogrid/config"
)

type fakeSource struct {
	index int
	dummy bool
	name  string
	buf   capture.Buffer
	taken time.Time
}

func (s *fakeSource) Index() int          { return s.index }
func (s *fakeSource) Dummy() bool         { return s.dummy }
func (s *fakeSource) Name() string        { return s.name }
func (s *fakeSource) HasScreenshot() bool { return !s.buf.Empty() }
func (s *fakeSource) Screenshot() (capture.Buffer, time.Time) {
	return s.buf, s.taken
}

// solidBuffer returns a capture buffer filled with one color.
func solidBuffer(w, h int, r, g, b byte) capture.Buffer {
	pix := make([]byte, w*h*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = r, g, b
	}
	return capture.Buffer{Width: w, Height: h, Pix: pix}
}

func testPalette() config.PaletteSet {
	return config.PaletteSet{
		Background:  color.NRGBA{A: 0xff},
		Names:       color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Active:      config.Palette{Frame: color.NRGBA{R: 0x10, A: 0xff}, Tile: color.NRGBA{R: 0x20, A: 0xff}},
		Inactive:    config.Palette{Frame: color.NRGBA{G: 0x10, A: 0xff}, Tile: color.NRGBA{G: 0x20, A: 0xff}},
		Unknown:     config.Palette{Frame: color.NRGBA{B: 0x10, A: 0xff}, Tile: color.NRGBA{B: 0x20, A: 0xff}},
		Empty:       config.Palette{Frame: color.NRGBA{R: 0x30, A: 0xff}, Tile: color.NRGBA{R: 0x40, A: 0xff}},
		Nonexistent: config.Palette{Frame: color.NRGBA{G: 0x30, A: 0xff}, Tile: color.NRGBA{G: 0x40, A: 0xff}},
	}
}

func testOptions() Options {
	return Options{Width: 40, Height: 30, FrameWidth: 5, Palette: testPalette()}
}

func TestVariantClassification(t *testing.T) {
	t.Parallel()
	withShot := &fakeSource{index: 2, buf: solidBuffer(4, 2, 1, 2, 3)}
	cases := []struct {
		name       string
		index      int
		src        Source
		active     int
		configured int
		want       Variant
	}{
		{"dummy within configured", 3, &fakeSource{index: 3, dummy: true}, 1, 9, Empty},
		{"dummy beyond configured", 10, &fakeSource{index: 10, dummy: true}, 1, 9, Nonexistent},
		{"nil source beyond configured", 12, nil, 1, 9, Nonexistent},
		{"known without screenshot", 4, &fakeSource{index: 4}, 1, 9, Unknown},
		{"captured unfocused", 2, withShot, 1, 9, Inactive},
		{"captured focused", 2, withShot, 2, 9, Active},
	}
	for _, c := range cases {
		if got := variantFor(c.index, c.src, c.active, c.configured); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestVariantSelectable(t *testing.T) {
	t.Parallel()
	if Nonexistent.Selectable(true) {
		t.Error("nonexistent tiles must never be selectable")
	}
	if Empty.Selectable(false) {
		t.Error("empty tile selectable without switch_to_empty_workspaces")
	}
	if !Empty.Selectable(true) {
		t.Error("empty tile not selectable with switch_to_empty_workspaces")
	}
	for _, v := range []Variant{Active, Inactive, Unknown} {
		if !v.Selectable(false) {
			t.Errorf("%v tile not selectable", v)
		}
	}
}

// Update must return the identical pointer while nothing changes, and
// a regenerated image when it does.
func TestCacheReferentialStability(t *testing.T) {
	t.Parallel()
	cache := NewCache(1, testOptions())
	src := &fakeSource{index: 1, buf: solidBuffer(8, 6, 0xff, 0, 0), taken: time.Unix(100, 0)}

	first := cache.Update(src, 1, 9, time.Unix(100, 0))
	if first == nil {
		t.Fatal("first Update returned nil")
	}
	firstChange := cache.LastChange()

	second := cache.Update(src, 1, 9, time.Unix(101, 0))
	if second != first {
		t.Error("unchanged source regenerated the composite")
	}
	if cache.LastChange() != firstChange {
		t.Error("unchanged source bumped LastChange")
	}

	// Newer screenshot regenerates.
	src.buf = solidBuffer(8, 6, 0, 0xff, 0)
	src.taken = time.Unix(102, 0)
	third := cache.Update(src, 1, 9, time.Unix(102, 0))
	if third == first {
		t.Error("newer screenshot did not regenerate the composite")
	}
	if !cache.LastChange().After(firstChange) {
		t.Error("regeneration did not advance LastChange")
	}
}

func TestCacheVariantChangeRegenerates(t *testing.T) {
	t.Parallel()
	cache := NewCache(2, testOptions())
	src := &fakeSource{index: 2, buf: solidBuffer(8, 6, 0xff, 0, 0), taken: time.Unix(100, 0)}

	active := cache.Update(src, 2, 9, time.Unix(100, 0))
	if cache.Variant() != Active {
		t.Fatalf("variant: got %v, want Active", cache.Variant())
	}

	// Focus moves away, same screenshot: palette flips to inactive.
	inactive := cache.Update(src, 1, 9, time.Unix(101, 0))
	if inactive == active {
		t.Error("focus change did not regenerate the composite")
	}
	if cache.Variant() != Inactive {
		t.Errorf("variant: got %v, want Inactive", cache.Variant())
	}

	frame := inactive.RGBAAt(0, 0)
	want := testPalette().Inactive.Frame
	if frame.R != want.R || frame.G != want.G || frame.B != want.B {
		t.Errorf("frame pixel: got %v, want %v", frame, want)
	}
}

// Index reuse: a record replaced by a fresh one loses its screenshot,
// and the cache must not keep showing the stale thumbnail.
func TestCacheDropsThumbnailOnIndexReuse(t *testing.T) {
	t.Parallel()
	cache := NewCache(3, testOptions())
	src := &fakeSource{index: 3, buf: solidBuffer(8, 6, 0xff, 0, 0), taken: time.Unix(100, 0)}
	cache.Update(src, 3, 9, time.Unix(100, 0))

	reborn := &fakeSource{index: 3}
	img := cache.Update(reborn, 3, 9, time.Unix(101, 0))
	if cache.Variant() != Unknown {
		t.Fatalf("variant: got %v, want Unknown", cache.Variant())
	}

	// Interior corner shows the unknown tile color, not leftover red.
	pixel := img.RGBAAt(6, 6)
	want := testPalette().Unknown.Tile
	if pixel.R != want.R || pixel.G != want.G || pixel.B != want.B {
		t.Errorf("interior pixel: got %v, want %v", pixel, want)
	}
}

func TestCacheEmptyTileColors(t *testing.T) {
	t.Parallel()
	cache := NewCache(5, testOptions())
	img := cache.Update(&fakeSource{index: 5, dummy: true}, 1, 9, time.Unix(100, 0))

	palette := testPalette().Empty
	frame := img.RGBAAt(0, 0)
	if frame.R != palette.Frame.R {
		t.Errorf("frame pixel: got %v, want %v", frame, palette.Frame)
	}
	center := img.RGBAAt(20, 15)
	if center.R != palette.Tile.R {
		t.Errorf("center pixel: got %v, want %v", center, palette.Tile)
	}
}

func TestCacheRecolorForcesRegeneration(t *testing.T) {
	t.Parallel()
	cache := NewCache(1, testOptions())
	src := &fakeSource{index: 1, dummy: true}
	first := cache.Update(src, 2, 9, time.Unix(100, 0))

	opts := testOptions()
	opts.Palette.Empty = config.Palette{
		Frame: color.NRGBA{R: 0xaa, A: 0xff},
		Tile:  color.NRGBA{R: 0xbb, A: 0xff},
	}
	cache.Recolor(opts)

	second := cache.Update(src, 2, 9, time.Unix(101, 0))
	if second == first {
		t.Error("Recolor did not regenerate the composite")
	}
	if got := second.RGBAAt(0, 0).R; got != 0xaa {
		t.Errorf("frame pixel after recolor: got %#x, want 0xaa", got)
	}
}

func TestFitSize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{1920, 1080, 192, 108, 192, 108}, // exact ratio
		{1920, 1080, 200, 108, 192, 108}, // height-bound
		{1920, 1080, 192, 200, 192, 108}, // width-bound
		{100, 100, 50, 25, 25, 25},       // square into wide
	}
	for _, c := range cases {
		gotW, gotH := fitSize(c.srcW, c.srcH, c.maxW, c.maxH)
		if gotW != c.wantW || gotH != c.wantH {
			t.Errorf("fitSize(%d,%d,%d,%d): got %dx%d, want %dx%d",
				c.srcW, c.srcH, c.maxW, c.maxH, gotW, gotH, c.wantW, c.wantH)
		}
	}
}

func TestStretchFillsInterior(t *testing.T) {
	t.Parallel()
	opts := testOptions()
	opts.Stretch = true
	cache := NewCache(1, opts)
	src := &fakeSource{index: 1, buf: solidBuffer(8, 6, 0xff, 0, 0), taken: time.Unix(100, 0)}
	img := cache.Update(src, 1, 9, time.Unix(100, 0))

	// With stretch the whole interior is screenshot, corners included.
	for _, p := range []image.Point{{5, 5}, {34, 5}, {5, 24}, {34, 24}} {
		if got := img.RGBAAt(p.X, p.Y); got.R != 0xff {
			t.Errorf("interior pixel %v: got %v, want red", p, got)
		}
	}
}

func TestHighlightBrightensAndCaches(t *testing.T) {
	t.Parallel()
	cache := NewCache(5, testOptions())
	cache.Update(&fakeSource{index: 5, dummy: true}, 1, 9, time.Unix(100, 0))

	plain := cache.Image()
	lit := cache.Highlighted(20)
	if lit == nil {
		t.Fatal("Highlighted returned nil after Update")
	}
	if lit == plain {
		t.Fatal("Highlighted returned the unhighlighted composite")
	}
	if got, base := lit.RGBAAt(20, 15), plain.RGBAAt(20, 15); got.R <= base.R || got.B <= base.B {
		t.Errorf("highlight did not brighten: got %v over %v", got, base)
	}
	if again := cache.Highlighted(20); again != lit {
		t.Error("Highlighted not cached between calls")
	}
}
