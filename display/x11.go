// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/expogrid/expogrid/config"
	"github.com/expogrid/expogrid/overview"
)

// X keysyms for the overview's key bindings.
const (
	keyEscape  = 0xff1b
	keyReturn  = 0xff0d
	keyKPEnter = 0xff8d
	keySpace   = 0x0020
	keyLeft    = 0xff51
	keyUp      = 0xff52
	keyRight   = 0xff53
	keyDown    = 0xff54
	keyH       = 0x0068
	keyJ       = 0x006a
	keyK       = 0x006b
	keyL       = 0x006c
	keyQ       = 0x0071
)

// putImageChunkBytes bounds one PutImage request payload, comfortably
// under the core protocol's maximum request length.
const putImageChunkBytes = 200_000

// X11 shows the overview in an override-redirect X window. Each Open
// establishes a fresh connection so Close can tear the event loop down
// by closing it.
type X11 struct {
	logger *slog.Logger

	mu      sync.Mutex
	conn    *xgb.Conn
	window  xproto.Window
	gc      xproto.Gcontext
	depth   byte
	width   int
	height  int
	keysyms []xproto.Keysym
	perCode byte
	minCode xproto.Keycode
	events  chan overview.InputEvent
	frame   *image.RGBA
}

// NewX11 returns an unopened display.
func NewX11(logger *slog.Logger) *X11 {
	return &X11{logger: logger}
}

// Open implements overview.Display: create, tag, and map the window,
// then start translating X events.
func (d *X11) Open(width, height int) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connecting to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("allocating window id: %w", err)
	}
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		window,
		screen.Root,
		0, 0,
		uint16(width), uint16(height),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{
			screen.BlackPixel,
			1,
			xproto.EventMaskExposure |
				xproto.EventMaskKeyPress |
				xproto.EventMaskButtonPress |
				xproto.EventMaskPointerMotion |
				xproto.EventMaskStructureNotify,
		},
	).Check()
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating overview window: %w", err)
	}

	class := config.WindowClass + "\x00" + config.WindowClass + "\x00"
	xproto.ChangeProperty(conn, xproto.PropModeReplace, window,
		xproto.AtomWmClass, xproto.AtomString, 8, uint32(len(class)), []byte(class))
	xproto.ChangeProperty(conn, xproto.PropModeReplace, window,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(config.WindowClass)), []byte(config.WindowClass))

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("allocating graphics context: %w", err)
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(window), 0, nil).Check(); err != nil {
		conn.Close()
		return fmt.Errorf("creating graphics context: %w", err)
	}

	mapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode,
		byte(setup.MaxKeycode-setup.MinKeycode+1)).Reply()
	if err != nil {
		conn.Close()
		return fmt.Errorf("fetching keyboard mapping: %w", err)
	}

	if err := xproto.MapWindowChecked(conn, window).Check(); err != nil {
		conn.Close()
		return fmt.Errorf("mapping overview window: %w", err)
	}
	xproto.SetInputFocus(conn, xproto.InputFocusPointerRoot, window, xproto.TimeCurrentTime)

	d.mu.Lock()
	d.conn = conn
	d.window = window
	d.gc = gc
	d.depth = screen.RootDepth
	d.width = width
	d.height = height
	d.keysyms = mapping.Keysyms
	d.perCode = mapping.KeysymsPerKeycode
	d.minCode = setup.MinKeycode
	d.events = make(chan overview.InputEvent, 64)
	d.frame = nil
	d.mu.Unlock()

	go d.eventLoop(conn, d.events)
	return nil
}

// Present implements overview.Display. The frame is kept so exposure
// events can repaint without the session's involvement.
func (d *X11) Present(frame *image.RGBA, dirty []image.Rectangle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return fmt.Errorf("display not open")
	}
	d.frame = frame

	if dirty == nil {
		dirty = []image.Rectangle{frame.Bounds()}
	}
	for _, rect := range dirty {
		if err := d.putRegion(frame, rect.Intersect(frame.Bounds())); err != nil {
			return err
		}
	}
	return nil
}

// putRegion pushes one rectangle of the frame, chunked into PutImage
// requests small enough for the core protocol.
func (d *X11) putRegion(frame *image.RGBA, rect image.Rectangle) error {
	if rect.Empty() {
		return nil
	}
	rowsPerChunk := putImageChunkBytes / (rect.Dx() * 4)
	if rowsPerChunk < 1 {
		rowsPerChunk = 1
	}

	for y := rect.Min.Y; y < rect.Max.Y; y += rowsPerChunk {
		rows := rect.Max.Y - y
		if rows > rowsPerChunk {
			rows = rowsPerChunk
		}
		chunk := image.Rect(rect.Min.X, y, rect.Max.X, y+rows)
		data := packBGRA(frame, chunk)
		err := xproto.PutImageChecked(
			d.conn,
			xproto.ImageFormatZPixmap,
			xproto.Drawable(d.window),
			d.gc,
			uint16(chunk.Dx()), uint16(chunk.Dy()),
			int16(chunk.Min.X), int16(chunk.Min.Y),
			0,
			d.depth,
			data,
		).Check()
		if err != nil {
			return fmt.Errorf("PutImage at %v: %w", chunk.Min, err)
		}
	}
	return nil
}

// Events implements overview.Display.
func (d *X11) Events() <-chan overview.InputEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.events
}

// Close implements overview.Display. Closing the connection unblocks
// the event loop, which then exits.
func (d *X11) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	xproto.DestroyWindow(d.conn, d.window)
	d.conn.Close()
	d.conn = nil
	return nil
}

// eventLoop translates X events into overview input until the
// connection dies.
func (d *X11) eventLoop(conn *xgb.Conn, events chan<- overview.InputEvent) {
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			d.emit(events, overview.InputEvent{Kind: overview.Closed})
			return
		}
		if xerr != nil {
			d.logger.Debug("X error event", "error", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.MotionNotifyEvent:
			d.emit(events, overview.InputEvent{
				Kind: overview.PointerMoved,
				Pos:  image.Point{X: int(e.EventX), Y: int(e.EventY)},
			})
		case xproto.ButtonPressEvent:
			switch e.Detail {
			case 1:
				d.emit(events, overview.InputEvent{
					Kind: overview.PointerSelect,
					Pos:  image.Point{X: int(e.EventX), Y: int(e.EventY)},
				})
			case 3:
				d.emit(events, overview.InputEvent{Kind: overview.KeyCancel})
			}
		case xproto.KeyPressEvent:
			if input, ok := d.translateKey(e.Detail); ok {
				d.emit(events, input)
			}
		case xproto.ExposeEvent:
			d.repaint()
		case xproto.DestroyNotifyEvent, xproto.UnmapNotifyEvent:
			d.emit(events, overview.InputEvent{Kind: overview.Closed})
			return
		}
	}
}

// emit drops input when the session is not consuming; only the window
// lifecycle events matter enough to never lose, and those terminate
// the loop right after.
func (d *X11) emit(events chan<- overview.InputEvent, input overview.InputEvent) {
	select {
	case events <- input:
	default:
		d.logger.Debug("input event dropped", "kind", input.Kind)
	}
}

// repaint re-pushes the last presented frame after an exposure.
func (d *X11) repaint() {
	d.mu.Lock()
	frame := d.frame
	open := d.conn != nil
	d.mu.Unlock()
	if frame == nil || !open {
		return
	}
	if err := d.Present(frame, nil); err != nil {
		d.logger.Warn("exposure repaint failed", "error", err)
	}
}

// translateKey maps a keycode to an overview input via the keyboard
// mapping's first (unshifted) keysym column.
func (d *X11) translateKey(code xproto.Keycode) (overview.InputEvent, bool) {
	d.mu.Lock()
	index := int(code-d.minCode) * int(d.perCode)
	var sym xproto.Keysym
	if index >= 0 && index < len(d.keysyms) {
		sym = d.keysyms[index]
	}
	d.mu.Unlock()

	switch sym {
	case keyEscape, keyQ:
		return overview.InputEvent{Kind: overview.KeyCancel}, true
	case keyReturn, keyKPEnter, keySpace:
		return overview.InputEvent{Kind: overview.KeySelect}, true
	case keyLeft, keyH:
		return overview.InputEvent{Kind: overview.KeyMove, DX: -1}, true
	case keyRight, keyL:
		return overview.InputEvent{Kind: overview.KeyMove, DX: 1}, true
	case keyUp, keyK:
		return overview.InputEvent{Kind: overview.KeyMove, DY: -1}, true
	case keyDown, keyJ:
		return overview.InputEvent{Kind: overview.KeyMove, DY: 1}, true
	default:
		return overview.InputEvent{}, false
	}
}

// packBGRA serializes a frame rectangle into the 32-bit BGRX layout X
// servers expect for 24-bit ZPixmap data.
func packBGRA(frame *image.RGBA, rect image.Rectangle) []byte {
	data := make([]byte, rect.Dx()*rect.Dy()*4)
	di := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		si := frame.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			data[di+0] = frame.Pix[si+2] // B
			data[di+1] = frame.Pix[si+1] // G
			data[di+2] = frame.Pix[si+0] // R
			data[di+3] = 0
			si += 4
			di += 4
		}
	}
	return data
}
