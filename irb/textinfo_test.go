package irb

import (
	"testing"

	"github.com/cam-per/irbis/irb/irbtest"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestTextInfo(t *testing.T) {
	raw := []byte("[Info]\r\nT=25\xb0C\r\n\x00")
	data := irbtest.Container{
		Tag:    irbtest.TagImage,
		Blocks: []irbtest.Block{{Type: irbtest.BlockTextInfo, Payload: raw}},
	}.Bytes()

	f, err := Decode(data, nil)
	require.NoError(t, err)
	require.Len(t, f.TextInfos, 1)
	require.Equal(t, raw, f.TextInfos[0].Raw)
	require.Equal(t, "[Info]\r\nT=25°C\r\n\x00", f.TextInfos[0].Text)

	f, err = Decode(data, &Config{Charmap: charmap.Windows1251})
	require.NoError(t, err)
	require.Equal(t, "[Info]\r\nT=25°C\r\n\x00", f.TextInfos[0].Text)
}
