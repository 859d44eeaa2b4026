package irb

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const PreviewHeaderSize = 32

var PreviewMagic = [4]byte{'x', 'l', 'a', 0xff}

type previewHeader struct {
	Magic  [4]byte
	Fields [7]int32
}

// Preview is the camera's low resolution grayscale thumbnail.
type Preview struct {
	Offset int64
	Width  int
	Height int
	// Fields holds the seven header words verbatim; Width and Height are two of them.
	Fields [7]int32
	Pix    []byte
}

func (preview *Preview) At(x, y int) byte { return preview.Pix[y*preview.Width+x] }

func (parser *parser) decodePreview(b []byte, off int) (*Preview, error) {
	const structure = "preview"
	if len(b) < PreviewHeaderSize {
		return nil, parser.fail(structure, off, fmt.Errorf("%w: %d of %d header bytes", ErrTruncated, len(b), PreviewHeaderSize))
	}
	var h previewHeader
	r := bytes.NewReader(b[:PreviewHeaderSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, parser.fail(structure, off, err)
	}
	if r.Len() != 0 {
		return nil, parser.fail(structure, off, fmt.Errorf("%w: %d bytes left", ErrByteCount, r.Len()))
	}
	if h.Magic != PreviewMagic {
		return nil, parser.fail(structure, off, fmt.Errorf("%w: % x", ErrPreviewMagic, h.Magic[:]))
	}

	body := len(b) - PreviewHeaderSize
	w, hgt := int(h.Fields[1]), int(h.Fields[2])
	if w <= 0 || hgt <= 0 || w*hgt > body {
		// firmware places the dimensions differently; take the first
		// adjacent pair that covers the body exactly
		found := false
		for i := 0; i+1 < len(h.Fields); i++ {
			cw, ch := int(h.Fields[i]), int(h.Fields[i+1])
			if cw > 0 && ch > 0 && cw*ch == body {
				parser.note(DiagReserved, structure, off+4+4*i, "dimensions %dx%d taken from fields %d and %d", cw, ch, i, i+1)
				w, hgt, found = cw, ch, true
				break
			}
		}
		if !found {
			return nil, parser.fail(structure, off, fmt.Errorf("%w: fields %v, %d body bytes", ErrPreviewSize, h.Fields, body))
		}
	}
	if w*hgt != body {
		parser.note(DiagPlane, structure, off+PreviewHeaderSize, "%dx%d raster leaves %d of %d bytes", w, hgt, body-w*hgt, body)
	}

	preview := &Preview{
		Offset: parser.base + int64(off),
		Width:  w,
		Height: hgt,
		Fields: h.Fields,
		Pix:    b[PreviewHeaderSize : PreviewHeaderSize+w*hgt : PreviewHeaderSize+w*hgt],
	}
	return preview, nil
}
