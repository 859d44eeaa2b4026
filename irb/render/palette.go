package render

import "image/color"

// Jet is the blue-cyan-yellow-red map used for thermal false color.
var Jet = jet(256)

// Grayscale is a 256-step black to white ramp.
var Grayscale = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

func jet(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		t := float64(i) / float64(n-1)
		p[i] = color.RGBA{
			R: channel(1.5 - abs(4*t-3)),
			G: channel(1.5 - abs(4*t-2)),
			B: channel(1.5 - abs(4*t-1)),
			A: 0xff,
		}
	}
	return p
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
