package irb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cam-per/irbis/irb/pal"
	"github.com/cam-per/irbis/utils"
)

const (
	ImageHeaderSize   = 60
	ImageMetadataSize = 644
	// ImageBodyOffset is where the pixel plane starts within an IMAGE block.
	ImageBodyOffset = ImageHeaderSize + pal.Size + ImageMetadataSize

	MaxImageDimension = 10000
	CelsiusOffset     = 273.15
)

type imageHeader struct {
	BytesPerPixel    int16
	Compression      int16
	Width            int16
	Height           int16
	Var0             int32
	RoiX0            int16
	WidthM1          int16
	RoiY0            int16
	HeightM1         int16
	Var2             int16
	Var3             int16
	Emissivity       float32
	Distance         float32
	EnvTemp          float32
	Var4             int16
	Var5             int16
	PathTemperature  float32
	Var6             int16
	Var7             int16
	CenterWavelength float32
	Var8             int16
	Var9             int16
	Var10            int16
	Var11            int16
}

// Metadata field positions within the 644-byte metadata region.
const (
	metaCalibRangeMin     = 92
	metaCalibRangeMax     = 96
	metaDevice            = 142
	metaOpticsSerial      = 186
	metaOptics            = 202
	metaOpticsResolution  = 234
	metaDeviceSerial      = 450
	metaShotRangeStartErr = 532
	metaShotRangeSize     = 536
	metaTimestamp         = 540
	metaTimestampMillis   = 548
	metaOpticsText        = 554
)

// Image is one calibrated temperature image. Temperatures are in Kelvin.
type Image struct {
	Offset int64
	Size   int

	BytesPerPixel     int16
	Compression       CompressionType
	Width             int
	Height            int
	Emissivity        float32
	Distance          float32
	EnvironmentalTemp float32
	PathTemperature   float32
	CenterWavelength  float32

	CalibRangeMin        float32
	CalibRangeMax        float32
	Device               string
	DeviceSerial         string
	Optics               string
	OpticsResolution     string
	OpticsSerial         string
	OpticsText           string
	ShotRangeStartErr    float32
	ShotRangeSize        float32
	TimestampRaw         float64
	Timestamp            time.Time
	TimestampMillisecond int32

	Palette *pal.Palette

	// Data holds Height rows of Width samples, backed by Pix.
	Data    [][]float32
	Pix     []float32
	MinData float32
	MaxData float32

	// Degenerate marks the 1x1 placeholder substituted for an image whose
	// header declared out-of-range dimensions.
	Degenerate bool
	// HasPixels is false for front-matter images that carry no pixel plane.
	HasPixels bool
}

func (img *Image) At(x, y int) float32 { return img.Data[y][x] }

// Celsius returns a copy of the matrix in degrees Celsius.
func (img *Image) Celsius() [][]float32 {
	pix := make([]float32, len(img.Pix))
	for i, v := range img.Pix {
		pix[i] = v - CelsiusOffset
	}
	return rows(pix, img.Width, img.Height)
}

func rows(pix []float32, width, height int) [][]float32 {
	if len(pix) == 0 {
		return nil
	}
	out := make([][]float32, height)
	for y := range out {
		out[y] = pix[y*width : (y+1)*width : (y+1)*width]
	}
	return out
}

// decodeImage reads header, palette and metadata at off. With pixels set the
// block must hold the plane too, bounded by size.
func (parser *parser) decodeImage(off, size int, pixels bool) (*Image, error) {
	end := off + ImageBodyOffset
	if pixels {
		if size < ImageBodyOffset {
			return nil, parser.fail("image", off, fmt.Errorf("%w: %d byte block, header regions need %d", ErrTruncated, size, ImageBodyOffset))
		}
		end = off + size
	}
	if off < 0 || end > len(parser.data) {
		return nil, parser.fail("image", off, fmt.Errorf("%w: [%d, %d) outside section of %d bytes", ErrTruncated, off, end, len(parser.data)))
	}
	view := parser.data[off:end]
	img := &Image{Offset: parser.base + int64(off), Size: size, HasPixels: pixels}

	if err := parser.decodeImageHeader(img, view[:ImageHeaderSize], off); err != nil {
		return nil, err
	}

	palette, err := pal.NewDecoder(bytes.NewReader(view[ImageHeaderSize : ImageHeaderSize+pal.Size])).Decode()
	if err != nil {
		return nil, parser.fail("image palette", off+ImageHeaderSize, err)
	}
	img.Palette = palette

	if err := parser.decodeImageMetadata(img, view[ImageHeaderSize+pal.Size:ImageBodyOffset], off+ImageHeaderSize+pal.Size); err != nil {
		return nil, err
	}

	if !pixels {
		return img, nil
	}
	if img.Degenerate {
		img.Pix = make([]float32, 1)
		img.Data = rows(img.Pix, 1, 1)
		return img, nil
	}
	if err := parser.decodePixels(img, view[ImageBodyOffset:], off+ImageBodyOffset); err != nil {
		return nil, err
	}
	img.MinData, img.MaxData = minMax(img.Pix)
	return img, nil
}

func (parser *parser) decodeImageHeader(img *Image, b []byte, off int) error {
	const structure = "image header"
	var h imageHeader
	r := bytes.NewReader(b)
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return parser.fail(structure, off, err)
	}
	if consumed := len(b) - r.Len(); consumed != ImageHeaderSize {
		return parser.fail(structure, off, fmt.Errorf("%w: read %d", ErrByteCount, consumed))
	}

	img.BytesPerPixel = h.BytesPerPixel
	img.Compression = CompressionType(h.Compression)
	img.Width = int(h.Width)
	img.Height = int(h.Height)
	img.Emissivity = h.Emissivity
	img.Distance = h.Distance
	img.EnvironmentalTemp = h.EnvTemp
	img.PathTemperature = h.PathTemperature
	img.CenterWavelength = h.CenterWavelength

	// Values seen on one camera family; VARIOCAM firmware differs.
	parser.checkReserved(structure, "var0", off+8, 0, int64(h.Var0))
	parser.checkReserved(structure, "roi x0", off+12, 0, int64(h.RoiX0))
	parser.checkReserved(structure, "roi y0", off+16, 0, int64(h.RoiY0))
	parser.checkReserved(structure, "var2", off+20, 0, int64(h.Var2))
	parser.checkReserved(structure, "var3", off+22, 0, int64(h.Var3))
	parser.checkReserved(structure, "var4", off+36, 0, int64(h.Var4))
	parser.checkReserved(structure, "var5", off+38, 0, int64(h.Var5))
	parser.checkReserved(structure, "var6", off+44, 0x65, int64(h.Var6))
	parser.checkReserved(structure, "var7", off+46, 0, int64(h.Var7))
	parser.checkReserved(structure, "var8", off+52, 0, int64(h.Var8))
	parser.checkReserved(structure, "var9", off+54, 0x4080, int64(h.Var9))
	parser.checkReserved(structure, "var10", off+56, 0x9, int64(h.Var10))
	parser.checkReserved(structure, "var11", off+58, 0x101, int64(h.Var11))
	if int(h.WidthM1) != img.Width-1 {
		parser.note(DiagReserved, structure, off+14, "roi x1 = %d, width-1 = %d", h.WidthM1, img.Width-1)
	}
	if int(h.HeightM1) != img.Height-1 {
		parser.note(DiagReserved, structure, off+18, "roi y1 = %d, height-1 = %d", h.HeightM1, img.Height-1)
	}

	if img.Width > MaxImageDimension || img.Height > MaxImageDimension || img.Width < 1 || img.Height < 1 {
		parser.note(DiagRecoverable, structure, off, "%v: %dx%d, substituting 1x1", ErrImageDimensions, img.Width, img.Height)
		img.Width, img.Height = 1, 1
		img.Degenerate = true
	}
	return nil
}

func (parser *parser) decodeImageMetadata(img *Image, b []byte, off int) error {
	const structure = "image metadata"
	if len(b) != ImageMetadataSize {
		return parser.fail(structure, off, fmt.Errorf("%w: %d of %d bytes", ErrByteCount, len(b), ImageMetadataSize))
	}
	c := utils.NewCursor(b)
	var err error
	f32 := func(pos int) float32 {
		if err != nil {
			return 0
		}
		var v float32
		v, err = c.Float32At(pos)
		return v
	}
	str := func(pos, n int) string {
		if err != nil {
			return ""
		}
		var s utils.CString
		s, err = c.StringAt(pos, n)
		return s.Trimmed(parser.cfg.Charmap)
	}

	img.CalibRangeMin = f32(metaCalibRangeMin)
	img.CalibRangeMax = f32(metaCalibRangeMax)
	img.Device = str(metaDevice, 12)
	img.OpticsSerial = str(metaOpticsSerial, 16)
	img.Optics = str(metaOptics, 32)
	img.OpticsResolution = str(metaOpticsResolution, 32)
	img.DeviceSerial = str(metaDeviceSerial, 16)
	img.ShotRangeStartErr = f32(metaShotRangeStartErr)
	img.ShotRangeSize = f32(metaShotRangeSize)
	img.OpticsText = str(metaOpticsText, 48)
	if err != nil {
		return parser.fail(structure, off, err)
	}
	if img.TimestampRaw, err = c.Float64At(metaTimestamp); err != nil {
		return parser.fail(structure, off+metaTimestamp, err)
	}
	if img.TimestampMillisecond, err = c.Int32At(metaTimestampMillis); err != nil {
		return parser.fail(structure, off+metaTimestampMillis, err)
	}
	img.Timestamp = OLETime(img.TimestampRaw)
	return nil
}

const (
	msPerDay = 86400000
	// milliseconds from 1899-12-30 to 1970-01-01
	oleEpochShiftMillis = 0x3680b5e1fc00 - 62135596800000
)

// OLETime converts an OLE Automation date to UTC. The separate millisecond
// field stored next to it is not folded in.
func OLETime(oa float64) time.Time {
	half := 0.5
	if oa < 0 {
		half = -0.5
	}
	ms := int64(oa*msPerDay + half)
	if ms < 0 {
		// the fraction counts forward from midnight even for negative days
		ms -= (ms % msPerDay) * 2
	}
	return time.UnixMilli(ms + oleEpochShiftMillis).UTC()
}

func minMax(pix []float32) (float32, float32) {
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
