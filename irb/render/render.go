// Package render turns decoded records into image.Image values.
package render

import (
	"image"
	"image/color"

	"github.com/cam-per/irbis/irb"
)

// Gray16 maps [lo, hi] Kelvin linearly onto the full 16-bit range. Samples
// outside the range are clipped.
func Gray16(img *irb.Image, lo, hi float32) *image.Gray16 {
	canvas := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	if len(img.Data) == 0 {
		return canvas
	}
	for y, row := range img.Data {
		for x, v := range row {
			canvas.SetGray16(x, y, color.Gray16{Y: uint16(scale(v, lo, hi) * 0xffff)})
		}
	}
	return canvas
}

// Colorize maps [lo, hi] onto the entries of palette.
func Colorize(img *irb.Image, palette color.Palette, lo, hi float32) *image.Paletted {
	canvas := image.NewPaletted(image.Rect(0, 0, img.Width, img.Height), palette)
	if len(img.Data) == 0 || len(palette) == 0 {
		return canvas
	}
	top := float32(len(palette) - 1)
	for y, row := range img.Data {
		for x, v := range row {
			canvas.SetColorIndex(x, y, uint8(scale(v, lo, hi)*top+0.5))
		}
	}
	return canvas
}

// Auto renders img over its own temperature range.
func Auto(img *irb.Image, palette color.Palette) image.Image {
	if palette == nil {
		return Gray16(img, img.MinData, img.MaxData)
	}
	return Colorize(img, palette, img.MinData, img.MaxData)
}

// Preview wraps the preview raster without copying.
func Preview(preview *irb.Preview) *image.Gray {
	return &image.Gray{
		Pix:    preview.Pix,
		Stride: preview.Width,
		Rect:   image.Rect(0, 0, preview.Width, preview.Height),
	}
}

// Range returns the temperature range shared by every image of f and its
// frames, so a video renders with one scale.
func Range(f *irb.File) (lo, hi float32, ok bool) {
	include := func(l, h float32) {
		if !ok || l < lo {
			lo = l
		}
		if !ok || h > hi {
			hi = h
		}
		ok = true
	}
	for _, img := range f.Images {
		if img.HasPixels && !img.Degenerate {
			include(img.MinData, img.MaxData)
		}
	}
	for _, frame := range f.Frames {
		if flo, fhi, fok := Range(frame); fok {
			include(flo, fhi)
		}
	}
	return lo, hi, ok
}

func scale(v, lo, hi float32) float32 {
	if hi <= lo {
		return 0
	}
	s := (v - lo) / (hi - lo)
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
