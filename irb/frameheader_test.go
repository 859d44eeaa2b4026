package irb

import (
	"testing"

	"github.com/cam-per/irbis/irb/irbtest"
	"github.com/stretchr/testify/require"
)

func TestFrameHeader(t *testing.T) {
	data := irbtest.Container{
		Tag:    irbtest.TagImage,
		Blocks: []irbtest.Block{{Type: irbtest.BlockFrameHeader, Payload: irbtest.FrameHeader(2, 5000, 1800, 6864)}},
	}.Bytes()
	f, err := Decode(data, &Config{DisableVideo: true})
	require.NoError(t, err)
	require.Len(t, f.FrameHeaders, 1)
	require.Equal(t, &FrameHeader{
		Bitfield0:          1,
		Bitfield1:          0x65,
		FrameCounter:       2,
		Offset:             5000,
		Size:               1800,
		Bitfield3:          1,
		Bitfield5:          4,
		Bitfield6:          0x65,
		FrameCounter2:      2,
		ExpectedNextOffset: 6864,
		Size2:              1800,
		Bitfield8:          1,
	}, f.FrameHeaders[0])
	require.False(t, f.FrameHeaders[0].Terminal())
	require.Empty(t, f.Diagnostics)
}

func TestFrameHeader_Short(t *testing.T) {
	data := irbtest.Container{
		Tag:    irbtest.TagImage,
		Blocks: []irbtest.Block{{Type: irbtest.BlockFrameHeader, Payload: make([]byte, 10), Size: 64}},
	}.Bytes()
	_, err := Decode(data, nil)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestFollowFrameChain(t *testing.T) {
	h := func(offset, next int32) *FrameHeader {
		return &FrameHeader{Offset: offset, ExpectedNextOffset: next}
	}
	for _, tc := range []struct {
		name    string
		headers []*FrameHeader
		want    int
	}{
		{"empty", nil, 0},
		{"single_terminal", []*FrameHeader{h(10, 10)}, 1},
		{"chain", []*FrameHeader{h(10, 20), h(20, 30), h(30, 30)}, 3},
		{"unordered", []*FrameHeader{h(10, 30), h(20, 20), h(30, 20)}, 3},
		{"dangling", []*FrameHeader{h(10, 20), h(20, 99), h(30, 30)}, 2},
		{"loop", []*FrameHeader{h(10, 20), h(20, 10)}, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FollowFrameChain(tc.headers))
		})
	}
}
