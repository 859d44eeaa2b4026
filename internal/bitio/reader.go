// Package bitio extracts MSB-first bit fields from a stream that is refilled
// in 16-bit little-endian words.
package bitio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const MaxWidth = 16

var (
	ErrEndOfStream = errors.New("bitio: end of stream")
	ErrWidth       = errors.New("bitio: invalid read width")
)

type Reader struct {
	data []byte
	pos  int
	acc  uint32 // low n bits are pending
	n    uint
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits returns the next width bits, most significant first.
func (reader *Reader) ReadBits(width uint) (uint32, error) {
	if width == 0 || width > MaxWidth {
		return 0, fmt.Errorf("%w: %d", ErrWidth, width)
	}
	for reader.n < width {
		if !reader.refill() {
			return 0, fmt.Errorf("%w: need %d bits at byte %d, have %d", ErrEndOfStream, width, reader.pos, reader.n)
		}
	}
	reader.n -= width
	v := (reader.acc >> reader.n) & (1<<width - 1)
	reader.acc &= 1<<reader.n - 1
	return v, nil
}

func (reader *Reader) refill() bool {
	if len(reader.data)-reader.pos < 2 {
		return false
	}
	reader.acc = reader.acc<<16 | uint32(binary.LittleEndian.Uint16(reader.data[reader.pos:]))
	reader.pos += 2
	reader.n += 16
	return true
}

// Consumed reports how many bytes have been loaded into the bit buffer.
func (reader *Reader) Consumed() int { return reader.pos }
