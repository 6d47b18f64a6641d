// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package tile

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/expogrid/expogrid/capture"
)

// decode converts a packed RGB capture buffer into an RGBA image.
func decode(buffer capture.Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buffer.Width, buffer.Height))
	si := 0
	for y := 0; y < buffer.Height; y++ {
		di := img.PixOffset(0, y)
		for x := 0; x < buffer.Width; x++ {
			img.Pix[di+0] = buffer.Pix[si+0]
			img.Pix[di+1] = buffer.Pix[si+1]
			img.Pix[di+2] = buffer.Pix[si+2]
			img.Pix[di+3] = 0xff
			si += 3
			di += 4
		}
	}
	return img
}

// scaleBuffer decodes and scales a screenshot to fit (or fill, with
// stretch) the given interior size.
func scaleBuffer(buffer capture.Buffer, size image.Point, stretch bool) *image.RGBA {
	if !buffer.Valid() || size.X < 1 || size.Y < 1 {
		return nil
	}
	src := decode(buffer)

	width, height := size.X, size.Y
	if !stretch {
		width, height = fitSize(buffer.Width, buffer.Height, size.X, size.Y)
		if width < 1 || height < 1 {
			return nil
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// fitSize returns the largest size with srcW:srcH's aspect ratio that
// fits within maxW x maxH.
func fitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW*maxH > srcH*maxW {
		// Width-bound.
		return maxW, srcH * maxW / srcW
	}
	return srcW * maxH / srcH, maxH
}

// fill paints a rect with a solid color.
func fill(dst *image.RGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// pasteCentered draws src centered within r.
func pasteCentered(dst *image.RGBA, r image.Rectangle, src *image.RGBA) {
	offset := image.Point{
		X: r.Min.X + (r.Dx()-src.Bounds().Dx())/2,
		Y: r.Min.Y + (r.Dy()-src.Bounds().Dy())/2,
	}
	draw.Draw(dst, src.Bounds().Add(offset), src, src.Bounds().Min, draw.Src)
}

// overlayWhite returns a copy of src with a white layer composited on
// top at the given opacity percent.
func overlayWhite(src *image.RGBA, percent int) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	alpha := uint8(255 * clampPercent(percent) / 100)
	mask := image.NewUniform(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: alpha})
	draw.Draw(out, out.Bounds(), mask, image.Point{}, draw.Over)
	return out
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// drawGlyph renders text centered in r, scaled up to roughly half the
// rect's height. Used for the "?" placeholder on unknown tiles.
func drawGlyph(dst *image.RGBA, r image.Rectangle, text string, c color.NRGBA) {
	face := basicfont.Face7x13
	drawer := font.Drawer{Src: image.NewUniform(c), Face: face}
	width := drawer.MeasureString(text).Ceil()
	if width < 1 {
		return
	}

	small := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	drawer.Dst = small
	drawer.Dot = fixed.P(0, face.Ascent)
	drawer.DrawString(text)

	targetH := r.Dy() / 2
	if targetH < face.Height {
		targetH = face.Height
	}
	targetW := width * targetH / face.Height
	target := image.Rect(0, 0, targetW, targetH).Add(image.Point{
		X: r.Min.X + (r.Dx()-targetW)/2,
		Y: r.Min.Y + (r.Dy()-targetH)/2,
	})
	xdraw.NearestNeighbor.Scale(dst, target, small, small.Bounds(), xdraw.Over, nil)
}

// DrawLabel renders text at the given baseline point using the built-in
// bitmap face. The overview uses it for workspace names.
func DrawLabel(dst *image.RGBA, at image.Point, text string, c color.NRGBA) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(at.X, at.Y),
	}
	drawer.DrawString(text)
}

// MeasureLabel returns the pixel width of text in the label face.
func MeasureLabel(text string) int {
	drawer := font.Drawer{Face: basicfont.Face7x13}
	return drawer.MeasureString(text).Ceil()
}
