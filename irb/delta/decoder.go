// Package delta decodes the bit-packed delta pixel plane (compression type 2).
//
// The plane starts with one little-endian uint16 literal. Every following
// sample is a zig-zag delta token: an 8-bit prefix below EscapePrefix is the
// token itself, otherwise an 11-bit extension follows.
package delta

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cam-per/irbis/internal/bitio"
)

// SampleScale converts accumulated samples to Kelvin. Inferred from sample
// files, not from documentation.
const SampleScale = 100.0

const (
	EscapePrefix = 192
	prefixBits   = 8
	extendBits   = 11
	escapeBias   = EscapePrefix * 2047
)

var (
	ErrShortPlane = errors.New("delta: plane too short for literal")
)

type Decoder struct {
	r         *bitio.Reader
	prev      uint16
	started   bool
	literal   []byte
	remaining int
}

// NewDecoder decodes count samples from plane.
func NewDecoder(plane []byte, count int) *Decoder {
	decoder := &Decoder{remaining: count}
	if len(plane) >= 2 {
		decoder.literal = plane[:2]
		decoder.r = bitio.NewReader(plane[2:])
	}
	return decoder
}

// Next returns the next raw 16-bit sample.
func (decoder *Decoder) Next() (uint16, error) {
	if decoder.remaining <= 0 {
		return 0, fmt.Errorf("delta: no samples left")
	}
	if !decoder.started {
		if decoder.literal == nil {
			return 0, ErrShortPlane
		}
		decoder.prev = binary.LittleEndian.Uint16(decoder.literal)
		decoder.started = true
		decoder.remaining--
		return decoder.prev, nil
	}

	d, err := decoder.token()
	if err != nil {
		return 0, err
	}
	// wraps mod 65536
	decoder.prev = uint16(int32(decoder.prev) + d)
	decoder.remaining--
	return decoder.prev, nil
}

func (decoder *Decoder) token() (int32, error) {
	prefix, err := decoder.r.ReadBits(prefixBits)
	if err != nil {
		return 0, err
	}
	u := prefix
	if prefix >= EscapePrefix {
		ext, err := decoder.r.ReadBits(extendBits)
		if err != nil {
			return 0, err
		}
		u = (prefix<<extendBits | ext) - escapeBias
	}
	d := int32(u >> 1)
	if u&1 != 0 {
		d = -d
	}
	return d, nil
}

// Consumed reports the plane bytes used so far.
func (decoder *Decoder) Consumed() int {
	if decoder.r == nil {
		return 0
	}
	return 2 + decoder.r.Consumed()
}

// MinPlaneSize is the shortest plane that can hold count samples: the
// literal plus one 8-bit prefix per delta, loaded in 16-bit words.
func MinPlaneSize(count int) int {
	if count <= 0 {
		return 0
	}
	return 2 + 2*(count/2)
}

// Decode fills dst with scaled samples and returns the plane bytes consumed.
func Decode(plane []byte, dst []float32) (int, error) {
	decoder := NewDecoder(plane, len(dst))
	for i := range dst {
		v, err := decoder.Next()
		if err != nil {
			return decoder.Consumed(), fmt.Errorf("delta: sample %d: %w", i, err)
		}
		dst[i] = float32(float64(v) / SampleScale)
	}
	return decoder.Consumed(), nil
}
