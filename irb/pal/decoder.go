package pal

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

const (
	Entries   = 256
	EntrySize = 4
	Size      = Entries * EntrySize
)

var (
	ErrShortPalette = errors.New("pal: short palette")
)

// Palette maps an 8-bit index to a temperature in Kelvin.
type Palette [Entries]float32

type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func (decoder *Decoder) Decode() (*Palette, error) {
	var buf [Size]byte
	if _, err := io.ReadFull(decoder.r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortPalette
		}
		return nil, err
	}

	pal := new(Palette)
	for i := range pal {
		pal[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*EntrySize:]))
	}
	return pal, nil
}

// Interpolate blends entry idx with its upper neighbour by frac/256. The
// neighbour of the last entry is the entry itself.
func (pal *Palette) Interpolate(idx, frac uint8) float32 {
	hi := int(idx) + 1
	if hi >= Entries {
		hi = Entries - 1
	}
	f := float32(frac) / 256
	// explicit conversions keep each product rounded to float32
	v := float32(pal[hi]*f) + float32(pal[idx]*(1-f))
	if v < 0 {
		return 0
	}
	return v
}

func (pal *Palette) Min() float32 {
	m := float32(math.Inf(1))
	for _, v := range pal {
		if v < m {
			m = v
		}
	}
	return m
}

func (pal *Palette) Max() float32 {
	m := float32(math.Inf(-1))
	for _, v := range pal {
		if v > m {
			m = v
		}
	}
	return m
}
