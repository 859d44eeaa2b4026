package pal

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func encode(values []float32) []byte {
	buf := make([]byte, len(values)*EntrySize)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*EntrySize:], math.Float32bits(v))
	}
	return buf
}

func ramp() []float32 {
	values := make([]float32, Entries)
	for i := range values {
		values[i] = 250 + float32(i)*0.5
	}
	return values
}

func TestDecode(t *testing.T) {
	r := bytes.NewReader(append(encode(ramp()), 0xaa))
	p, err := NewDecoder(r).Decode()
	require.NoError(t, err)
	require.Equal(t, float32(250), p[0])
	require.Equal(t, float32(250+255*0.5), p[255])
	require.Equal(t, 1, r.Len(), "decoder must consume exactly one palette")
}

func TestDecode_Short(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader(make([]byte, Size-1))).Decode()
	require.ErrorIs(t, err, ErrShortPalette)
}

func TestInterpolate(t *testing.T) {
	var p Palette
	copy(p[:], ramp())

	for _, tc := range []struct {
		name      string
		idx, frac uint8
		want      float32
	}{
		{name: "exact", idx: 10, frac: 0, want: 255},
		{name: "half", idx: 10, frac: 128, want: 255.25},
		{name: "last_entry", idx: 255, frac: 200, want: p[255]},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, p.Interpolate(tc.idx, tc.frac), 1e-4)
		})
	}
}

func TestInterpolate_NegativeClamped(t *testing.T) {
	var p Palette
	p[0], p[1] = -10, -5
	require.Equal(t, float32(0), p.Interpolate(0, 10))
}

func TestMinMax(t *testing.T) {
	var p Palette
	copy(p[:], ramp())
	require.Equal(t, float32(250), p.Min())
	require.Equal(t, float32(377.5), p.Max())
}
