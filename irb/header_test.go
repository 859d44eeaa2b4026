package irb

import (
	"errors"
	"testing"

	"github.com/cam-per/irbis/irb/irbtest"
	"github.com/stretchr/testify/require"
)

func TestReadFileHeader(t *testing.T) {
	for _, tc := range []struct {
		tag  string
		want FileType
	}{
		{irbtest.TagImage, FileTypeImage},
		{irbtest.TagSequence, FileTypeSequence},
		{irbtest.TagVariocam, FileTypeVariocam},
		{irbtest.TagOSaveIRB, FileTypeOSaveIRB},
	} {
		t.Run(tc.want.String(), func(t *testing.T) {
			data := irbtest.Container{Tag: tc.tag, Flag1: 7}.Bytes()
			p := newParser(data, 0, (*Config)(nil).withDefaults())
			hdr, n, err := p.readFileHeader()
			require.NoError(t, err)
			require.Equal(t, FileHeaderSize, n)
			require.Equal(t, tc.want, hdr.Type)
			require.Equal(t, int32(7), hdr.Flag1)
			require.Equal(t, int32(64), hdr.BlockOffset)
			require.Equal(t, int32(0), hdr.BlockCount)
		})
	}
}

func TestReadFileHeader_Errors(t *testing.T) {
	good := irbtest.Container{Tag: irbtest.TagImage}.Bytes()

	badMagic := append([]byte(nil), good...)
	badMagic[1] = 'X'

	badTag := append([]byte(nil), good...)
	copy(badTag[5:], "IRBXXXXX")

	for _, tc := range []struct {
		name string
		data []byte
		want error
	}{
		{"magic", badMagic, ErrMagic},
		{"tag", badTag, ErrFileType},
		{"short", good[:40], ErrTruncated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data, nil)
			require.ErrorIs(t, err, tc.want)
			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			require.Equal(t, "file header", fe.Structure)
		})
	}
}
