// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package overview

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/expogrid/expogrid/capture"
	"github.com/expogrid/expogrid/config"
	"github.com/expogrid/expogrid/lib/clock"
	"github.com/expogrid/expogrid/updater"
	"github.com/expogrid/expogrid/wm"
	"github.com/expogrid/expogrid/workspace"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPaletteSet() config.PaletteSet {
	pair := func(r byte) config.Palette {
		return config.Palette{
			Frame: color.NRGBA{R: r, A: 0xff},
			Tile:  color.NRGBA{R: r, G: 0x80, A: 0xff},
		}
	}
	return config.PaletteSet{
		Background:  color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		Names:       color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Active:      pair(0x10),
		Inactive:    pair(0x20),
		Unknown:     pair(0x30),
		Empty:       pair(0x40),
		Nonexistent: pair(0x50),
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Palette = testPaletteSet()
	return cfg
}

func TestGeometryLayout(t *testing.T) {
	t.Parallel()
	geo := NewGeometry(config.Default().UI, 300, 300)

	// 5% padding and spacing of 300 is 15; three 80px tiles fill the
	// rest.
	if geo.TileSize != (image.Point{X: 80, Y: 80}) {
		t.Fatalf("TileSize: got %v, want (80,80)", geo.TileSize)
	}
	if got, want := geo.TileRect(1), image.Rect(15, 15, 95, 95); got != want {
		t.Errorf("TileRect(1): got %v, want %v", got, want)
	}
	if got, want := geo.TileRect(5), image.Rect(110, 110, 190, 190); got != want {
		t.Errorf("TileRect(5): got %v, want %v", got, want)
	}
	if got, want := geo.TileRect(9), image.Rect(205, 205, 285, 285); got != want {
		t.Errorf("TileRect(9): got %v, want %v", got, want)
	}
}

func TestGeometryHitTest(t *testing.T) {
	t.Parallel()
	geo := NewGeometry(config.Default().UI, 300, 300)

	cases := []struct {
		point image.Point
		want  int
	}{
		{image.Point{X: 16, Y: 16}, 1},
		{image.Point{X: 120, Y: 20}, 2},
		{image.Point{X: 150, Y: 150}, 5},
		{image.Point{X: 284, Y: 284}, 9},
		{image.Point{X: 0, Y: 0}, 0},     // padding
		{image.Point{X: 100, Y: 50}, 0},  // spacing
		{image.Point{X: 299, Y: 299}, 0}, // padding
	}
	for _, c := range cases {
		if got := geo.HitTest(c.point); got != c.want {
			t.Errorf("HitTest(%v): got %d, want %d", c.point, got, c.want)
		}
	}
}

func TestGeometryMoveWrapsAround(t *testing.T) {
	t.Parallel()
	geo := NewGeometry(config.Default().UI, 300, 300)

	cases := []struct {
		slot, dx, dy int
		want         int
	}{
		{1, 1, 0, 2},
		{3, 1, 0, 1},  // right edge wraps to row start
		{1, -1, 0, 3}, // left edge wraps to row end
		{1, 0, 1, 4},
		{7, 0, 1, 1}, // bottom wraps to top
		{2, 0, -1, 8},
		{0, 1, 0, 1}, // no selection starts at 1
	}
	for _, c := range cases {
		if got := geo.Move(c.slot, c.dx, c.dy); got != c.want {
			t.Errorf("Move(%d,%d,%d): got %d, want %d", c.slot, c.dx, c.dy, got, c.want)
		}
	}
}

func TestRefreshBlitsOnlyChangedTiles(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	registry := workspace.NewRegistry(discardLogger())
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	r := NewRenderer(cfg, registry, fakeClock, discardLogger(), 300, 300)

	// First refresh paints the whole grid.
	if got := len(r.Refresh()); got != 9 {
		t.Fatalf("first refresh dirty count: got %d, want 9", got)
	}

	// Nothing changed: nothing to blit.
	fakeClock.Advance(time.Second)
	if got := len(r.Refresh()); got != 0 {
		t.Errorf("idle refresh dirty count: got %d, want 0", got)
	}

	// One workspace appears: exactly its tile re-blits.
	registry.Init(2, "2:mail")
	fakeClock.Advance(time.Second)
	dirty := r.Refresh()
	if len(dirty) != 1 {
		t.Fatalf("post-init dirty count: got %d, want 1", len(dirty))
	}
	if want := r.Geometry().DirtyRect(2); dirty[0] != want {
		t.Errorf("dirty rect: got %v, want %v", dirty[0], want)
	}
}

func TestSetHoveredInvalidatesBothSlots(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	registry := workspace.NewRegistry(discardLogger())
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	r := NewRenderer(cfg, registry, fakeClock, discardLogger(), 300, 300)
	r.Refresh()

	if got := len(r.SetHovered(3)); got != 1 {
		t.Errorf("first hover dirty count: got %d, want 1", got)
	}
	if got := len(r.SetHovered(5)); got != 2 {
		t.Errorf("hover move dirty count: got %d, want 2", got)
	}
	if got := len(r.SetHovered(5)); got != 0 {
		t.Errorf("repeated hover dirty count: got %d, want 0", got)
	}
	if got := len(r.SetHovered(0)); got != 1 {
		t.Errorf("hover clear dirty count: got %d, want 1", got)
	}
}

func TestTargetNameRules(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.WorkspaceNames = map[int]string{4: "4:media"}
	registry := workspace.NewRegistry(discardLogger())
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	registry.Init(2, "2:mail")
	r := NewRenderer(cfg, registry, fakeClock, discardLogger(), 300, 300)
	r.Refresh()

	if name, ok := r.TargetName(2); !ok || name != "2:mail" {
		t.Errorf("live workspace: got %q/%v, want \"2:mail\"/true", name, ok)
	}
	if _, ok := r.TargetName(3); ok {
		t.Error("empty slot selectable without switch_to_empty_workspaces")
	}
	if _, ok := r.TargetName(0); ok {
		t.Error("slot 0 selectable")
	}

	cfg.Flags.SwitchToEmptyWorkspaces = true
	if name, ok := r.TargetName(4); !ok || name != "4:media" {
		t.Errorf("named empty slot: got %q/%v, want \"4:media\"/true", name, ok)
	}
	if _, ok := r.TargetName(3); ok {
		t.Error("unnamed empty slot selectable")
	}
}

type fakeClient struct {
	mu       sync.Mutex
	switched []string
}

func (f *fakeClient) Snapshot() (*wm.Snapshot, error) { return &wm.Snapshot{}, nil }
func (f *fakeClient) Subscribe(ctx context.Context, _ chan<- wm.Event) error {
	<-ctx.Done()
	return ctx.Err()
}
func (f *fakeClient) SwitchTo(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switched = append(f.switched, name)
	return nil
}
func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) switches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.switched...)
}

type fakeDisplay struct {
	events   chan InputEvent
	opened   bool
	closed   bool
	presents int
}

func newFakeDisplay(script ...InputEvent) *fakeDisplay {
	events := make(chan InputEvent, len(script))
	for _, event := range script {
		events <- event
	}
	return &fakeDisplay{events: events}
}

func (f *fakeDisplay) Open(width, height int) error { f.opened = true; return nil }
func (f *fakeDisplay) Present(frame *image.RGBA, dirty []image.Rectangle) error {
	f.presents++
	return nil
}
func (f *fakeDisplay) Events() <-chan InputEvent { return f.events }
func (f *fakeDisplay) Close() error              { f.closed = true; return nil }

// nullGrabber satisfies capture.Grabber with empty buffers; session
// tests never exercise real captures.
type nullGrabber struct{}

func (nullGrabber) Grab(x, y, width, height int) (capture.Buffer, error) {
	return capture.Buffer{}, nil
}

func newSessionFixture(t *testing.T, display Display) (*Session, *fakeClient, *workspace.Registry) {
	session, client, registry, _ := newSharedRendererFixture(t, display)
	return session, client, registry
}

// newSharedRendererFixture exposes the renderer so tests can run a
// second session against the same one.
func newSharedRendererFixture(t *testing.T, display Display) (*Session, *fakeClient, *workspace.Registry, *Renderer) {
	t.Helper()
	cfg := testConfig()
	client := &fakeClient{}
	registry := workspace.NewRegistry(discardLogger())
	registry.Init(1, "1")
	registry.Init(2, "2:mail")
	registry.SetActive(1)
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	upd := updater.New(client, registry, nullGrabber{}, fakeClock, updater.Config{
		MinUpdateInterval:    500 * time.Millisecond,
		ForcedUpdateInterval: 10 * time.Second,
	}, discardLogger())
	renderer := NewRenderer(cfg, registry, fakeClock, discardLogger(), 300, 300)
	session := NewSession(cfg, client, upd, registry, display, renderer, discardLogger())
	return session, client, registry, renderer
}

func TestSessionPointerSelection(t *testing.T) {
	t.Parallel()
	display := newFakeDisplay(
		InputEvent{Kind: PointerMoved, Pos: image.Point{X: 120, Y: 20}},
		InputEvent{Kind: PointerSelect, Pos: image.Point{X: 120, Y: 20}},
	)
	session, client, _ := newSessionFixture(t, display)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{config.ScratchWorkspace, "2:mail"}
	got := client.switches()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("switches: got %v, want %v", got, want)
	}
	if !display.opened || !display.closed {
		t.Error("display not opened and closed around the session")
	}
}

func TestSessionKeyboardSelection(t *testing.T) {
	t.Parallel()
	// Cursor starts on the active slot (1); one step right lands on 2.
	display := newFakeDisplay(
		InputEvent{Kind: KeyMove, DX: 1},
		InputEvent{Kind: KeySelect},
	)
	session, client, _ := newSessionFixture(t, display)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := client.switches()
	if len(got) != 2 || got[1] != "2:mail" {
		t.Errorf("switches: got %v, want scratch then 2:mail", got)
	}
}

func TestSessionCancelReturnsToOrigin(t *testing.T) {
	t.Parallel()
	display := newFakeDisplay(InputEvent{Kind: KeyCancel})
	session, client, _ := newSessionFixture(t, display)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := client.switches()
	if len(got) != 2 || got[0] != config.ScratchWorkspace || got[1] != "1" {
		t.Errorf("switches: got %v, want [%s 1]", got, config.ScratchWorkspace)
	}
}

// Tile composites and blit bookkeeping survive across sessions:
// reopening the overview with nothing changed regenerates no tiles.
func TestSessionsShareRendererState(t *testing.T) {
	t.Parallel()
	first, _, _, renderer := newSharedRendererFixture(t, newFakeDisplay(InputEvent{Kind: KeyCancel}))
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	before := renderer.caches[0].Image()
	if before == nil {
		t.Fatal("setup: slot 1 has no composite after the first session")
	}

	second := NewSession(first.cfg, first.client, first.updater, first.registry,
		newFakeDisplay(InputEvent{Kind: KeyCancel}), renderer, discardLogger())
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if renderer.caches[0].Image() != before {
		t.Error("idle second session regenerated the slot 1 tile")
	}
	if got := len(renderer.Refresh()); got != 0 {
		t.Errorf("dirty count after second session: got %d, want 0", got)
	}
}

func TestSessionIgnoresUnselectableSlot(t *testing.T) {
	t.Parallel()
	// Click on an empty slot (3) is a no-op; cancel afterwards.
	display := newFakeDisplay(
		InputEvent{Kind: PointerSelect, Pos: image.Point{X: 210, Y: 20}},
		InputEvent{Kind: KeyCancel},
	)
	session, client, _ := newSessionFixture(t, display)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := client.switches()
	if len(got) != 2 || got[1] != "1" {
		t.Errorf("switches: got %v, want cancel back to 1", got)
	}
}
