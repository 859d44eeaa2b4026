package irb

import (
	"io"
	"log"
	"strings"

	"github.com/cam-per/irbis/irb/irbtest"
)

func testImage(w, h int16, compression int16, plane []byte) irbtest.Image {
	return irbtest.Image{
		Compression:      compression,
		Width:            w,
		Height:           h,
		Emissivity:       0.95,
		Distance:         1.5,
		EnvTemp:          293.15,
		PathTemp:         293.15,
		CenterWavelength: 9.5,
		Palette:          irbtest.LinearPalette(250, 377.5),
		CalibRangeMin:    233,
		CalibRangeMax:    393,
		Device:           "VARIOCAM",
		Plane:            plane,
	}
}

func singleImage(img irbtest.Image) []byte {
	return irbtest.Container{
		Tag:    irbtest.TagImage,
		Blocks: []irbtest.Block{{Type: irbtest.BlockImage, Payload: img.Bytes()}},
	}.Bytes()
}

func countDiags(diags []Diagnostic, kind DiagKind, structure string) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind && strings.HasPrefix(d.Structure, structure) {
			n++
		}
	}
	return n
}

func newTestLogger(w io.Writer) *log.Logger { return log.New(w, "", 0) }
