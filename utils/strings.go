package utils

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
)

type CString []byte

func (c CString) NullTerminateBytes() []byte {
	i := bytes.IndexByte(c, 0)
	if i == -1 {
		return c
	} else if i == 0 {
		return nil
	} else {
		return c[:i]
	}
}

// TrimBytes cuts at the first NUL and strips control characters and spaces
// from both ends.
func (c CString) TrimBytes() []byte {
	return bytes.TrimFunc(c.NullTerminateBytes(), func(r rune) bool { return r <= ' ' })
}

// Trimmed decodes the trimmed field; fixed-width device strings are padded
// with NULs or spaces depending on firmware.
func (c CString) Trimmed(encoding *charmap.Charmap) string {
	b := c.TrimBytes()
	buf, err := encoding.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(buf)
}

// Text decodes the whole field, NULs included.
func (c CString) Text(encoding *charmap.Charmap) string {
	buf, err := encoding.NewDecoder().Bytes(c)
	if err != nil {
		return string(c)
	}
	return string(buf)
}
