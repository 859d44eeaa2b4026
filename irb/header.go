package irb

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const FileHeaderSize = 64

// Magic opens every file and every chained sub-file.
var Magic = [5]byte{0xff, 'I', 'R', 'B', 0x00}

type fileHeader struct {
	Magic       [5]byte
	Tag         [8]byte
	Tag2        [8]byte
	Flag1       int32
	BlockOffset int32
	BlockCount  int32
	Reserved    [31]byte
}

type FileHeader struct {
	Type         FileType
	Tag          string
	SecondaryTag string
	Flag1        int32
	BlockOffset  int32
	BlockCount   int32
}

func hasMagic(b []byte) bool {
	return len(b) >= len(Magic) && bytes.Equal(b[:len(Magic)], Magic[:])
}

func (parser *parser) readFileHeader() (FileHeader, int, error) {
	var h fileHeader
	if len(parser.data) < FileHeaderSize {
		return FileHeader{}, 0, parser.fail("file header", 0, fmt.Errorf("%w: %d of %d bytes", ErrTruncated, len(parser.data), FileHeaderSize))
	}
	r := bytes.NewReader(parser.data[:FileHeaderSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return FileHeader{}, 0, parser.fail("file header", 0, err)
	}
	consumed := FileHeaderSize - r.Len()
	if consumed != FileHeaderSize {
		return FileHeader{}, consumed, parser.fail("file header", 0, fmt.Errorf("%w: read %d", ErrByteCount, consumed))
	}

	if h.Magic != Magic {
		return FileHeader{}, consumed, parser.fail("file header", 0, fmt.Errorf("%w: % x", ErrMagic, h.Magic[:]))
	}
	tag := string(h.Tag[:])
	t, ok := fileTypeTags[tag]
	if !ok {
		return FileHeader{}, consumed, parser.fail("file header", len(Magic), fmt.Errorf("%w: %q", ErrFileType, tag))
	}

	hdr := FileHeader{
		Type:         t,
		Tag:          tag,
		SecondaryTag: string(h.Tag2[:]),
		Flag1:        h.Flag1,
		BlockOffset:  h.BlockOffset,
		BlockCount:   h.BlockCount,
	}
	parser.cfg.Logger.Printf("irb: file header at %d: type=%s block offset=%d block count=%d", parser.base, t, h.BlockOffset, h.BlockCount)
	return hdr, consumed, nil
}
