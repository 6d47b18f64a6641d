// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"image"
	"image/color"
	"testing"
)

func TestPackBGRAReordersChannels(t *testing.T) {
	t.Parallel()
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	frame.SetRGBA(2, 1, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})

	data := packBGRA(frame, image.Rect(2, 1, 3, 2))
	if len(data) != 4 {
		t.Fatalf("data length: got %d, want 4", len(data))
	}
	if data[0] != 0x33 || data[1] != 0x22 || data[2] != 0x11 {
		t.Errorf("BGR bytes: got % x, want 33 22 11", data[:3])
	}
}

func TestPackBGRASubRectangle(t *testing.T) {
	t.Parallel()
	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			frame.SetRGBA(x, y, color.RGBA{R: byte(x), G: byte(y), A: 0xff})
		}
	}

	rect := image.Rect(2, 3, 6, 5)
	data := packBGRA(frame, rect)
	if want := rect.Dx() * rect.Dy() * 4; len(data) != want {
		t.Fatalf("data length: got %d, want %d", len(data), want)
	}
	// Second row, first pixel is (2,4): R=2 at offset +2, G=4 at +1.
	row2 := data[rect.Dx()*4:]
	if row2[2] != 2 || row2[1] != 4 {
		t.Errorf("pixel (2,4): got R=%d G=%d, want R=2 G=4", row2[2], row2[1])
	}
}
