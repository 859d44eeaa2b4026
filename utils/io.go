package utils

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrShortBuffer = errors.New("utils: short buffer")
	ErrSeek        = errors.New("utils: seek out of range")
)

// Cursor reads little-endian primitives from a byte slice. The position is
// explicit and only moves through the Cursor's own methods.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

func (cursor *Cursor) Pos() int       { return cursor.pos }
func (cursor *Cursor) Len() int       { return len(cursor.buf) }
func (cursor *Cursor) Remaining() int { return len(cursor.buf) - cursor.pos }

func (cursor *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(cursor.buf) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrSeek, pos, len(cursor.buf))
	}
	cursor.pos = pos
	return nil
}

func (cursor *Cursor) Skip(n int) error { return cursor.Seek(cursor.pos + n) }

// Bytes returns the next n bytes without copying.
func (cursor *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || cursor.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, cursor.pos, cursor.Remaining())
	}
	b := cursor.buf[cursor.pos : cursor.pos+n]
	cursor.pos += n
	return b, nil
}

func (cursor *Cursor) Uint8() (uint8, error) {
	b, err := cursor.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (cursor *Cursor) Uint16() (uint16, error) {
	b, err := cursor.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (cursor *Cursor) Int16() (int16, error) {
	v, err := cursor.Uint16()
	return int16(v), err
}

func (cursor *Cursor) Uint32() (uint32, error) {
	b, err := cursor.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (cursor *Cursor) Int32() (int32, error) {
	v, err := cursor.Uint32()
	return int32(v), err
}

func (cursor *Cursor) Float32() (float32, error) {
	v, err := cursor.Uint32()
	return math.Float32frombits(v), err
}

func (cursor *Cursor) Float64() (float64, error) {
	b, err := cursor.Bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// String reads a fixed-length field of n bytes.
func (cursor *Cursor) String(n int) (CString, error) {
	b, err := cursor.Bytes(n)
	if err != nil {
		return nil, err
	}
	return CString(b), nil
}

// Float32At and friends read at an absolute position without moving the cursor.
func (cursor *Cursor) Float32At(pos int) (float32, error) {
	sub := Cursor{buf: cursor.buf}
	if err := sub.Seek(pos); err != nil {
		return 0, err
	}
	return sub.Float32()
}

func (cursor *Cursor) Float64At(pos int) (float64, error) {
	sub := Cursor{buf: cursor.buf}
	if err := sub.Seek(pos); err != nil {
		return 0, err
	}
	return sub.Float64()
}

func (cursor *Cursor) Int32At(pos int) (int32, error) {
	sub := Cursor{buf: cursor.buf}
	if err := sub.Seek(pos); err != nil {
		return 0, err
	}
	return sub.Int32()
}

func (cursor *Cursor) StringAt(pos, n int) (CString, error) {
	sub := Cursor{buf: cursor.buf}
	if err := sub.Seek(pos); err != nil {
		return nil, err
	}
	return sub.String(n)
}
