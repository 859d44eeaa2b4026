package irb

import (
	"fmt"

	"github.com/cam-per/irbis/irb/delta"
)

func (parser *parser) decodePixels(img *Image, plane []byte, off int) error {
	n := img.Width * img.Height
	structure := fmt.Sprintf("%s pixel plane", img.Compression)

	// the plane must be able to hold every pixel before the matrix is allocated
	var need int
	switch img.Compression {
	case CompressionRaw:
		need = 2 * n
	case CompressionRLE:
		need = n + 2
	case CompressionDelta:
		need = delta.MinPlaneSize(n)
	default:
		return parser.fail("image header", int(img.Offset-parser.base)+2, fmt.Errorf("%w: %d", ErrCompression, img.Compression))
	}
	if len(plane) < need {
		return parser.fail(structure, off, fmt.Errorf("%w: %dx%d needs at least %d bytes, have %d", ErrTruncated, img.Width, img.Height, need, len(plane)))
	}

	img.Pix = make([]float32, n)
	var consumed int
	var err error
	switch img.Compression {
	case CompressionRaw:
		consumed, err = decodeRaw(img, plane)
	case CompressionRLE:
		consumed, err = decodeRLE(img, plane)
	case CompressionDelta:
		consumed, err = delta.Decode(plane, img.Pix)
	}
	if err != nil {
		return parser.fail(structure, off, err)
	}
	if consumed != len(plane) {
		parser.note(DiagPlane, structure, off,
			"consumed %d of %d bytes for %dx%d", consumed, len(plane), img.Width, img.Height)
	}
	img.Data = rows(img.Pix, img.Width, img.Height)
	return nil
}

// decodeRaw reads (fraction, index) byte pairs.
func decodeRaw(img *Image, plane []byte) (int, error) {
	n := len(img.Pix)
	if len(plane) < 2*n {
		return len(plane), fmt.Errorf("%w: %d pixels need %d bytes, have %d", ErrTruncated, n, 2*n, len(plane))
	}
	for i := range img.Pix {
		img.Pix[i] = img.Palette.Interpolate(plane[2*i+1], plane[2*i])
	}
	return 2 * n, nil
}

// decodeRLE reads one fraction per pixel from the sample cursor and a
// (count-1, index) pair from the run cursor whenever the current run ends.
func decodeRLE(img *Image, plane []byte) (int, error) {
	n := len(img.Pix)
	if len(plane) < n {
		return len(plane), fmt.Errorf("%w: %d samples, have %d bytes", ErrTruncated, n, len(plane))
	}
	samples, runs := plane[:n], plane[n:]

	var idx uint8
	run, cursor := 0, 0
	for i := range img.Pix {
		if run <= 0 {
			if cursor+2 > len(runs) {
				return n + cursor, fmt.Errorf("%w: run cursor at %d for pixel %d", ErrTruncated, n+cursor, i)
			}
			run = int(runs[cursor])
			idx = runs[cursor+1]
			cursor += 2
		}
		img.Pix[i] = img.Palette.Interpolate(idx, samples[i])
		run--
	}
	return n + cursor, nil
}
