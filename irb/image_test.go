package irb

import (
	"encoding/binary"
	"runtime"
	"testing"
	"time"

	"github.com/cam-per/irbis/irb/irbtest"
	"github.com/cam-per/irbis/irb/pal"
	"github.com/stretchr/testify/require"
)

func pattern(w, h int) (idx, frac []byte) {
	idx = make([]byte, w*h)
	frac = make([]byte, w*h)
	for i := range idx {
		idx[i] = byte(i / 3 % 256)
		frac[i] = byte(i * 37)
	}
	idx[len(idx)-1] = 255
	return idx, frac
}

func TestImage_Codecs(t *testing.T) {
	const w, h = 7, 5
	idx, frac := pattern(w, h)
	palette := pal.Palette(irbtest.LinearPalette(250, 377.5))

	for _, tc := range []struct {
		name        string
		compression int16
		plane       []byte
	}{
		{"raw", 0, irbtest.RawPlane(idx, frac)},
		{"rle", 1, irbtest.RLEPlane(idx, frac)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Decode(singleImage(testImage(w, h, tc.compression, tc.plane)), nil)
			require.NoError(t, err)
			require.Len(t, f.Images, 1)
			img := f.Images[0]
			require.Equal(t, CompressionType(tc.compression), img.Compression)
			require.Len(t, img.Data, h)
			for y := 0; y < h; y++ {
				require.Len(t, img.Data[y], w)
				for x := 0; x < w; x++ {
					i := y*w + x
					require.Equal(t, palette.Interpolate(idx[i], frac[i]), img.At(x, y), "pixel %d,%d", x, y)
				}
			}
			require.Zero(t, countDiags(f.Diagnostics, DiagPlane, ""))
		})
	}
}

func TestImage_Delta(t *testing.T) {
	samples := []uint16{29815, 29820, 29790, 31000, 28000, 28001, 65535, 0, 12}
	f, err := Decode(singleImage(testImage(3, 3, 2, irbtest.DeltaPlane(samples))), nil)
	require.NoError(t, err)
	img := f.Images[0]
	for i, s := range samples {
		require.InDelta(t, float64(s)/100, float64(img.Pix[i]), 1e-3, "sample %d", i)
	}
	require.Equal(t, float32(0), img.MinData)
	require.InDelta(t, 655.35, float64(img.MaxData), 1e-3)
}

func TestImage_RLERuns(t *testing.T) {
	const w, h = 300, 2
	idx := make([]byte, w*h)
	for i := 280; i < len(idx); i++ {
		idx[i] = 9
	}
	frac := make([]byte, w*h)
	plane := irbtest.RLEPlane(idx, frac)
	// 280 zeros and 320 nines, each split at 255
	require.Equal(t, w*h+4*2, len(plane))

	f, err := Decode(singleImage(testImage(w, h, 1, plane)), nil)
	require.NoError(t, err)
	img := f.Images[0]
	palette := pal.Palette(irbtest.LinearPalette(250, 377.5))
	require.Equal(t, palette[0], img.Pix[279])
	require.Equal(t, palette[9], img.Pix[280])
	require.Zero(t, countDiags(f.Diagnostics, DiagPlane, ""))
}

func TestImage_PlaneMismatch(t *testing.T) {
	idx, frac := pattern(4, 4)
	plane := append(irbtest.RawPlane(idx, frac), 0, 0, 0)
	f, err := Decode(singleImage(testImage(4, 4, 0, plane)), nil)
	require.NoError(t, err)
	require.Equal(t, 1, countDiags(f.Diagnostics, DiagPlane, "raw pixel plane"))

	_, err = Decode(singleImage(testImage(4, 4, 0, plane[:20])), nil)
	require.ErrorIs(t, err, ErrTruncated)

	rle := irbtest.RLEPlane(idx, frac)
	_, err = Decode(singleImage(testImage(4, 4, 1, rle[:len(rle)-1])), nil)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestImage_HostileDimensions(t *testing.T) {
	for _, compression := range []int16{0, 1, 2} {
		t.Run(CompressionType(compression).String(), func(t *testing.T) {
			data := singleImage(testImage(MaxImageDimension, MaxImageDimension, compression, make([]byte, 112)))

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			_, err := Decode(data, nil)
			runtime.ReadMemStats(&after)

			require.ErrorIs(t, err, ErrTruncated)
			require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
		})
	}
}

func TestImage_UnknownCompression(t *testing.T) {
	_, err := Decode(singleImage(testImage(2, 2, 7, make([]byte, 8))), nil)
	require.ErrorIs(t, err, ErrCompression)
}

func TestImage_Degenerate(t *testing.T) {
	for _, tc := range []struct {
		name string
		w, h int16
	}{
		{"wide", 10001, 10},
		{"tall", 10, 20000},
		{"zero", 0, 5},
		{"negative", -3, 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := irbtest.Container{
				Tag: irbtest.TagImage,
				Blocks: []irbtest.Block{
					{Type: irbtest.BlockImage, Payload: testImage(tc.w, tc.h, 0, make([]byte, 16)).Bytes()},
					{Type: irbtest.BlockTextInfo, Payload: []byte("sibling")},
				},
			}.Bytes()
			f, err := Decode(data, nil)
			require.NoError(t, err)
			img := f.Images[0]
			require.True(t, img.Degenerate)
			require.Equal(t, 1, img.Width)
			require.Equal(t, 1, img.Height)
			require.Equal(t, [][]float32{{0}}, img.Data)
			require.Equal(t, 1, countDiags(f.Diagnostics, DiagRecoverable, "image header"))
			require.Len(t, f.TextInfos, 1)
		})
	}
}

func TestImage_Metadata(t *testing.T) {
	src := irbtest.GoldenImage()
	src.Width, src.Height = 2, 1
	src.Plane = irbtest.RawPlane([]byte{0, 255}, []byte{0, 0})
	src.OpticsSerial = "  12345\x00"
	src.OpticsResolution = "640x480"
	src.DeviceSerial = "SN-1"
	src.OpticsText = "30mm \x00garbage"
	src.ShotRangeStartErr = -40
	src.ShotRangeSize = 160
	src.TimestampMillisecond = 123

	f, err := Decode(singleImage(src), nil)
	require.NoError(t, err)
	img := f.Images[0]

	require.Equal(t, int16(2), img.BytesPerPixel)
	require.Equal(t, float32(1.0), img.Emissivity)
	require.Equal(t, float32(0.80496436), img.Distance)
	require.Equal(t, float32(298.15), img.EnvironmentalTemp)
	require.Equal(t, float32(298.15), img.PathTemperature)
	require.Equal(t, float32(9.5), img.CenterWavelength)
	require.Equal(t, float32(233), img.CalibRangeMin)
	require.Equal(t, float32(393), img.CalibRangeMax)
	require.Equal(t, "VARIOCAM", img.Device)
	require.Equal(t, "VarioCAM II standard optics", img.Optics)
	require.Equal(t, "12345", img.OpticsSerial)
	require.Equal(t, "640x480", img.OpticsResolution)
	require.Equal(t, "SN-1", img.DeviceSerial)
	require.Equal(t, "30mm", img.OpticsText)
	require.Equal(t, float32(-40), img.ShotRangeStartErr)
	require.Equal(t, float32(160), img.ShotRangeSize)
	require.Equal(t, int32(123), img.TimestampMillisecond)
	require.Equal(t, time.Date(2014, time.January, 14, 17, 33, 45, 0, time.UTC), img.Timestamp)
	require.Equal(t, irbtest.GoldenMinData, img.Palette[0])
	require.Equal(t, irbtest.GoldenMinData, img.MinData)
}

func TestImage_ReservedDrift(t *testing.T) {
	src := testImage(1, 1, 0, []byte{0, 0})
	f, err := Decode(singleImage(src), nil)
	require.NoError(t, err)
	require.Zero(t, countDiags(f.Diagnostics, DiagReserved, "image header"))

	src.Drift = true
	f, err = Decode(singleImage(src), nil)
	require.NoError(t, err)
	// var6, var9, var10 and var11
	require.Equal(t, 4, countDiags(f.Diagnostics, DiagReserved, "image header"))

	data := singleImage(testImage(1, 1, 0, []byte{0, 0}))
	off := FileHeaderSize + BlockEntrySize
	binary.LittleEndian.PutUint16(data[off+14:], 9)
	f, err = Decode(data, nil)
	require.NoError(t, err)
	require.Equal(t, 1, countDiags(f.Diagnostics, DiagReserved, "image header"))
}

func TestImage_TooSmallBlock(t *testing.T) {
	data := irbtest.Container{
		Tag:    irbtest.TagImage,
		Blocks: []irbtest.Block{{Type: irbtest.BlockImage, Payload: make([]byte, 100)}},
	}.Bytes()
	_, err := Decode(data, nil)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestImage_Celsius(t *testing.T) {
	src := testImage(2, 1, 0, irbtest.RawPlane([]byte{0, 2}, []byte{0, 0}))
	src.Palette[0] = 273.15
	src.Palette[2] = 373.15
	f, err := Decode(singleImage(src), nil)
	require.NoError(t, err)
	c := f.Images[0].Celsius()
	require.InDelta(t, 0, float64(c[0][0]), 1e-4)
	require.InDelta(t, 100, float64(c[0][1]), 1e-4)
	require.Equal(t, float32(273.15), f.Images[0].At(0, 0))
}

func TestOLETime(t *testing.T) {
	for _, tc := range []struct {
		oa   float64
		want time.Time
	}{
		{0, time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)},
		{25569, time.Unix(0, 0).UTC()},
		{25569.5, time.Date(1970, time.January, 1, 12, 0, 0, 0, time.UTC)},
		{-1.25, time.Date(1899, time.December, 29, 6, 0, 0, 0, time.UTC)},
		{irbtest.GoldenTimestamp, time.Date(2014, time.January, 14, 17, 33, 45, 0, time.UTC)},
	} {
		require.Equal(t, tc.want, OLETime(tc.oa), "oa %v", tc.oa)
	}
}
