package utils

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestCursor(t *testing.T) {
	buf := []byte{0x01, 0x34, 0x12, 0xfe, 0xff}
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(9.5))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(-2.25))
	buf = append(buf, 'a', 'b', 0, 'c')

	c := NewCursor(buf)
	u8, err := c.Uint8()
	require.NoError(t, err)
	require.Equal(t, uint8(1), u8)
	u16, err := c.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)
	i16, err := c.Int16()
	require.NoError(t, err)
	require.Equal(t, int16(-2), i16)
	f32, err := c.Float32()
	require.NoError(t, err)
	require.Equal(t, float32(9.5), f32)
	f64, err := c.Float64()
	require.NoError(t, err)
	require.Equal(t, -2.25, f64)
	s, err := c.String(4)
	require.NoError(t, err)
	require.Equal(t, "ab", s.Trimmed(charmap.ISO8859_1))
	require.Zero(t, c.Remaining())

	_, err = c.Uint8()
	require.ErrorIs(t, err, ErrShortBuffer)
	require.ErrorIs(t, c.Seek(len(buf)+1), ErrSeek)
	require.Equal(t, len(buf), c.Pos())
}

func TestCursor_At(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(233))
	binary.LittleEndian.PutUint32(buf[8:], uint32(0xffffff85))
	c := NewCursor(buf)

	f, err := c.Float32At(4)
	require.NoError(t, err)
	require.Equal(t, float32(233), f)
	i, err := c.Int32At(8)
	require.NoError(t, err)
	require.Equal(t, int32(-123), i)
	require.Zero(t, c.Pos())

	_, err = c.Float64At(12)
	require.ErrorIs(t, err, ErrShortBuffer)
	_, err = c.StringAt(20, 1)
	require.ErrorIs(t, err, ErrSeek)
}

func TestCString(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in      string
		trimmed string
	}{
		{"nul_padded", "VARIOCAM\x00\x00\x00\x00", "VARIOCAM"},
		{"space_padded", "  SN 42      ", "SN 42"},
		{"garbage_after_nul", "30mm \x00junk", "30mm"},
		{"empty", "\x00\x00", ""},
		{"latin1", "25\xb0C\x00", "25°C"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.trimmed, CString(tc.in).Trimmed(charmap.ISO8859_1))
		})
	}
	require.Equal(t, "a\x00b", CString("a\x00b").Text(charmap.ISO8859_1))
}

func TestHexDump(t *testing.T) {
	var buf bytes.Buffer
	data := []byte("\xffIRB\x00VARIOCAM   xla")
	require.NoError(t, HexDump(&buf, data, 0x100))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "00000100  ff 49 52 42 00 56 41 52 49 4f 43 41 4d 20 20 20  |.IRB.VARIOCAM   |", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "00000110  78 6c 61 "))
	require.True(t, strings.HasSuffix(lines[1], " |xla|"))
}
