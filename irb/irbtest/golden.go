package irbtest

const (
	GoldenMinData = float32(296.5852)
	GoldenMaxData = float32(311.3182)
	GoldenText    = "[Info]\r\nDevice=VC640\r\n"
	// 2014-01-14 17:33:45 UTC
	GoldenTimestamp = 41653.731770833336
)

// GoldenImage reproduces the scalars of a 640x480 VARIOCAM shot. The palette
// spans exactly [GoldenMinData, GoldenMaxData] and the pixels reach both ends.
func GoldenImage() Image {
	const w, h = 640, 480
	idx := make([]byte, w*h)
	frac := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx[y*w+x] = byte((x + y) % 256)
			frac[y*w+x] = byte((x*7 + y) % 256)
		}
	}
	return Image{
		BytesPerPixel:    2,
		Compression:      0,
		Width:            w,
		Height:           h,
		Drift:            true,
		Emissivity:       1.0,
		Distance:         0.80496436,
		EnvTemp:          298.15,
		PathTemp:         298.15,
		CenterWavelength: 9.5,
		Palette:          LinearPalette(GoldenMinData, GoldenMaxData),
		CalibRangeMin:    233.0,
		CalibRangeMax:    393.0,
		Device:           "VARIOCAM",
		Optics:           "VarioCAM II standard optics",
		Timestamp:        GoldenTimestamp,
		Plane:            RawPlane(idx, frac),
	}
}

// Golden lays out a single-image VARIOCAM file with ten directory entries:
// IMAGE at 5216, PREVIEW at 384, TEXT_INFO at 621344 and seven EMPTY ones.
func Golden() []byte {
	pix := make([]byte, 80*60)
	for i := range pix {
		pix[i] = byte(i)
	}
	blocks := []Block{
		{Type: BlockImage, Payload: GoldenImage().Bytes()},
		{Type: BlockPreview, Payload: Preview(80, 60, pix)},
		{Type: BlockTextInfo, Payload: []byte(GoldenText)},
	}
	for len(blocks) < 10 {
		blocks = append(blocks, Block{Type: BlockEmpty})
	}
	return Container{
		Tag:    TagVariocam,
		Blocks: blocks,
		Order:  []int{1, 0, 2},
	}.Bytes()
}
