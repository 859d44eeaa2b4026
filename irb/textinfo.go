package irb

import "github.com/cam-per/irbis/utils"

// TextInfo is an opaque text blob, usually INI-style camera settings.
type TextInfo struct {
	Offset int64
	Raw    []byte
	Text   string
}

func (parser *parser) decodeTextInfo(b []byte, off int) *TextInfo {
	return &TextInfo{
		Offset: parser.base + int64(off),
		Raw:    b,
		Text:   utils.CString(b).Text(parser.cfg.Charmap),
	}
}
