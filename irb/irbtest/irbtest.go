// Package irbtest builds synthetic containers for tests. It writes the
// on-disk layout directly and does not depend on the decoder.
package irbtest

import (
	"encoding/binary"
	"math"
)

const (
	FileHeaderSize    = 64
	BlockEntrySize    = 32
	ImageHeaderSize   = 60
	PaletteSize       = 1024
	MetadataSize      = 644
	ImageBodyOffset   = ImageHeaderSize + PaletteSize + MetadataSize
	PreviewHeaderSize = 32
	FrameHeaderSize   = 64
)

const (
	TagImage    = "IRBACS\x00\x00"
	TagSequence = "IRBIS 3\x00"
	TagVariocam = "VARIOCAM"
	TagOSaveIRB = "oSaveIRB"
)

const (
	BlockEmpty int32 = iota
	BlockImage
	BlockPreview
	BlockTextInfo
	BlockFrameHeader
	BlockMystery5
	BlockMystery6
	BlockAudio
)

var Magic = []byte{0xff, 'I', 'R', 'B', 0x00}

// Block is one directory entry plus its payload.
type Block struct {
	Type       int32
	Reserved1  int32 // 100 when zero
	FrameIndex int32
	Payload    []byte

	// Offset and Size replace the computed values when non-zero.
	Offset int32
	Size   int32
}

// Container lays out header, directory and payloads. Payloads follow the
// directory in Order (block indices), or in directory order when Order is nil.
// EMPTY blocks take no space.
type Container struct {
	Tag         string
	Flag1       int32
	BlockOffset int32 // 64 when zero
	Blocks      []Block
	Order       []int
}

func (c Container) Bytes() []byte {
	blockOffset := c.BlockOffset
	if blockOffset == 0 {
		blockOffset = FileHeaderSize
	}
	dirEnd := int(blockOffset) + len(c.Blocks)*BlockEntrySize

	order := c.Order
	if order == nil {
		for i := range c.Blocks {
			order = append(order, i)
		}
	}
	offsets := make([]int32, len(c.Blocks))
	body := []byte{}
	for _, i := range order {
		b := c.Blocks[i]
		if b.Type == BlockEmpty && len(b.Payload) == 0 {
			continue
		}
		offsets[i] = int32(dirEnd + len(body))
		body = append(body, b.Payload...)
	}

	out := make([]byte, dirEnd, dirEnd+len(body))
	copy(out, Magic)
	copy(out[5:13], c.Tag)
	copy(out[13:21], "        ")
	binary.LittleEndian.PutUint32(out[21:], uint32(c.Flag1))
	binary.LittleEndian.PutUint32(out[25:], uint32(blockOffset))
	binary.LittleEndian.PutUint32(out[29:], uint32(len(c.Blocks)))

	for i, b := range c.Blocks {
		e := out[int(blockOffset)+i*BlockEntrySize:]
		offset, size := offsets[i], int32(len(b.Payload))
		if b.Offset != 0 {
			offset = b.Offset
		}
		if b.Size != 0 {
			size = b.Size
		}
		reserved1 := b.Reserved1
		if reserved1 == 0 && b.Type != BlockEmpty {
			reserved1 = 100
		}
		binary.LittleEndian.PutUint32(e[0:], uint32(b.Type))
		binary.LittleEndian.PutUint32(e[4:], uint32(reserved1))
		binary.LittleEndian.PutUint32(e[8:], uint32(b.FrameIndex))
		binary.LittleEndian.PutUint32(e[12:], uint32(offset))
		binary.LittleEndian.PutUint32(e[16:], uint32(size))
	}
	return append(out, body...)
}

// Image is an IMAGE block. Reserved header words take their historical
// values unless Drift is set, which zeroes them as VARIOCAM firmware does.
type Image struct {
	BytesPerPixel    int16
	Compression      int16
	Width            int16
	Height           int16
	Drift            bool
	Emissivity       float32
	Distance         float32
	EnvTemp          float32
	PathTemp         float32
	CenterWavelength float32

	Palette [256]float32

	CalibRangeMin        float32
	CalibRangeMax        float32
	Device               string
	OpticsSerial         string
	Optics               string
	OpticsResolution     string
	DeviceSerial         string
	ShotRangeStartErr    float32
	ShotRangeSize        float32
	Timestamp            float64
	TimestampMillisecond int32
	OpticsText           string

	Plane []byte
}

// Head returns header, palette and metadata without the pixel plane.
func (img Image) Head() []byte {
	out := make([]byte, ImageBodyOffset)
	h := out[:ImageHeaderSize]
	bpp := img.BytesPerPixel
	if bpp == 0 {
		bpp = 2
	}
	putU16(h, 0, uint16(bpp))
	putU16(h, 2, uint16(img.Compression))
	putU16(h, 4, uint16(img.Width))
	putU16(h, 6, uint16(img.Height))
	putU16(h, 14, uint16(img.Width-1))
	putU16(h, 18, uint16(img.Height-1))
	putF32(h, 24, img.Emissivity)
	putF32(h, 28, img.Distance)
	putF32(h, 32, img.EnvTemp)
	putF32(h, 40, img.PathTemp)
	putF32(h, 48, img.CenterWavelength)
	if !img.Drift {
		putU16(h, 44, 0x65)
		putU16(h, 54, 0x4080)
		putU16(h, 56, 0x9)
		putU16(h, 58, 0x101)
	}

	for i, v := range img.Palette {
		putF32(out, ImageHeaderSize+4*i, v)
	}

	m := out[ImageHeaderSize+PaletteSize:]
	putF32(m, 92, img.CalibRangeMin)
	putF32(m, 96, img.CalibRangeMax)
	copy(m[142:142+12], img.Device)
	copy(m[186:186+16], img.OpticsSerial)
	copy(m[202:202+32], img.Optics)
	copy(m[234:234+32], img.OpticsResolution)
	copy(m[450:450+16], img.DeviceSerial)
	putF32(m, 532, img.ShotRangeStartErr)
	putF32(m, 536, img.ShotRangeSize)
	binary.LittleEndian.PutUint64(m[540:], math.Float64bits(img.Timestamp))
	binary.LittleEndian.PutUint32(m[548:], uint32(img.TimestampMillisecond))
	copy(m[554:554+48], img.OpticsText)
	return out
}

func (img Image) Bytes() []byte { return append(img.Head(), img.Plane...) }

// LinearPalette spreads 256 entries evenly over [lo, hi].
func LinearPalette(lo, hi float32) [256]float32 {
	var p [256]float32
	for i := range p {
		p[i] = lo + (hi-lo)*float32(i)/255
	}
	return p
}

// RawPlane interleaves (fraction, index) pairs for compression 0.
func RawPlane(idx, frac []byte) []byte {
	out := make([]byte, 0, 2*len(idx))
	for i := range idx {
		out = append(out, frac[i], idx[i])
	}
	return out
}

// RLEPlane writes the fractions followed by (run length, index) pairs for
// compression 1. Runs are capped at 255 pixels.
func RLEPlane(idx, frac []byte) []byte {
	out := append([]byte(nil), frac...)
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && idx[j] == idx[i] && j-i < 255 {
			j++
		}
		out = append(out, byte(j-i), idx[i])
		i = j
	}
	return out
}

// DeltaPlane encodes raw samples for compression 2: a literal followed by
// zig-zag tokens packed MSB first into little-endian 16-bit words.
func DeltaPlane(samples []uint16) []byte {
	const (
		escapePrefix = 192
		prefixBits   = 8
		extendBits   = 11
		escapeBias   = escapePrefix * 2047
	)
	var bits []bool
	put := func(v uint32, width int) {
		for i := width - 1; i >= 0; i-- {
			bits = append(bits, v>>uint(i)&1 != 0)
		}
	}
	for i := 1; i < len(samples); i++ {
		d := int32(int16(samples[i] - samples[i-1]))
		var u uint32
		if d >= 0 {
			u = uint32(2 * d)
		} else {
			u = uint32(-2*d + 1)
		}
		if u < escapePrefix {
			put(u, prefixBits)
		} else {
			v := u + escapeBias
			put(v>>extendBits, prefixBits)
			put(v&(1<<extendBits-1), extendBits)
		}
	}
	for len(bits)%16 != 0 {
		bits = append(bits, false)
	}

	out := make([]byte, 2, 2+len(bits)/8)
	if len(samples) > 0 {
		binary.LittleEndian.PutUint16(out, samples[0])
	}
	for i := 0; i < len(bits); i += 16 {
		var w uint16
		for j := 0; j < 16; j++ {
			w <<= 1
			if bits[i+j] {
				w |= 1
			}
		}
		out = binary.LittleEndian.AppendUint16(out, w)
	}
	return out
}

// Preview writes a PREVIEW block with width and height in the second and
// third header words.
func Preview(width, height int, pix []byte) []byte {
	out := make([]byte, PreviewHeaderSize, PreviewHeaderSize+len(pix))
	copy(out, []byte{'x', 'l', 'a', 0xff})
	putU32(out, 8, uint32(width))
	putU32(out, 12, uint32(height))
	return append(out, pix...)
}

// FrameHeader writes a 64-byte frame header with the historical values in
// the unconfirmed words.
func FrameHeader(counter, offset, size, next int32) []byte {
	out := make([]byte, FrameHeaderSize)
	for i, v := range []int32{1, 0x65, counter, offset, size, 0, 1, 0, 4, 0x65, counter, next, size, 0, 1, 0} {
		putU32(out, 4*i, uint32(v))
	}
	return out
}

func putU16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func putU32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}
