// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package capture

// Buffer is a captured screen region: Width*Height pixels of packed
// row-major RGB, three bytes per pixel.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Empty reports whether the buffer holds no pixels.
func (b Buffer) Empty() bool { return len(b.Pix) == 0 }

// Valid reports whether the pixel data matches the declared
// dimensions. A malformed buffer is treated the same as an empty one
// by callers.
func (b Buffer) Valid() bool {
	return b.Width > 0 && b.Height > 0 && len(b.Pix) == b.Width*b.Height*3
}

// Grabber captures a rectangular region of the root window.
type Grabber interface {
	// Grab captures the region with origin (x, y) and the given size.
	// An empty Buffer with a nil error means the capture produced no
	// usable pixels this time.
	Grab(x, y, width, height int) (Buffer, error)
}
