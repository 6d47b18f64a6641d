// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11 grabs root-window pixels over a persistent X connection.
type X11 struct {
	conn   *xgb.Conn
	root   xproto.Window
	logger *slog.Logger
}

// NewX11 connects to the display named by $DISPLAY.
func NewX11(logger *slog.Logger) (*X11, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &X11{
		conn:   conn,
		root:   screen.Root,
		logger: logger,
	}, nil
}

// ScreenSize returns the root window dimensions, used as the default
// capture region when the configuration leaves the size at zero.
func (g *X11) ScreenSize() (width, height int) {
	screen := xproto.Setup(g.conn).DefaultScreen(g.conn)
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}

// Grab implements Grabber. The ZPixmap reply on a 24- or 32-bit visual
// carries four bytes per pixel in BGRX order; it is repacked into the
// Buffer's three-byte RGB layout. A short reply (a display in an
// unexpected pixel format, or a region partially off screen) yields an
// empty Buffer.
func (g *X11) Grab(x, y, width, height int) (Buffer, error) {
	if width <= 0 || height <= 0 {
		return Buffer{}, nil
	}

	reply, err := xproto.GetImage(
		g.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(g.root),
		int16(x), int16(y),
		uint16(width), uint16(height),
		^uint32(0),
	).Reply()
	if err != nil {
		return Buffer{}, fmt.Errorf("GetImage: %w", err)
	}

	pixels := width * height
	if len(reply.Data) < pixels*4 {
		g.logger.Warn("short GetImage reply",
			"got_bytes", len(reply.Data),
			"want_bytes", pixels*4,
			"depth", reply.Depth,
		)
		return Buffer{}, nil
	}

	pix := make([]byte, pixels*3)
	for i := 0; i < pixels; i++ {
		pix[i*3+0] = reply.Data[i*4+2] // R
		pix[i*3+1] = reply.Data[i*4+1] // G
		pix[i*3+2] = reply.Data[i*4+0] // B
	}
	return Buffer{Width: width, Height: height, Pix: pix}, nil
}

// Close releases the X connection.
func (g *X11) Close() error {
	g.conn.Close()
	return nil
}
