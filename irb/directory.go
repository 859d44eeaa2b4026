package irb

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const BlockEntrySize = 32

type blockEntry struct {
	Type       int32
	Reserved1  int32
	FrameIndex int32
	Offset     int32
	Size       int32
	Reserved6  int32
	Reserved7  int32
	Reserved8  int32
}

// HeaderBlockEntry locates one typed payload. Offset is relative to the
// start of the file or chained sub-file that owns the directory.
type HeaderBlockEntry struct {
	Index      int
	Type       BlockType
	Reserved1  int32 // 100, or 101 for some appended blocks
	FrameIndex int32
	Offset     int32
	Size       int32
	Reserved   [3]int32
}

func (e HeaderBlockEntry) End() int64 { return int64(e.Offset) + int64(e.Size) }

func (parser *parser) readDirectory(hdr FileHeader) ([]HeaderBlockEntry, error) {
	off := int(hdr.BlockOffset)
	count := int(hdr.BlockCount)
	if off < 0 || count < 0 {
		return nil, parser.fail("block directory", off, fmt.Errorf("%w: offset %d count %d", ErrTruncated, off, count))
	}
	end := int64(off) + int64(count)*BlockEntrySize
	if end > int64(len(parser.data)) {
		return nil, parser.fail("block directory", off, fmt.Errorf("%w: %d entries end at %d, have %d", ErrTruncated, count, end, len(parser.data)))
	}

	fat := make([]blockEntry, count)
	r := bytes.NewReader(parser.data[off:end])
	if err := binary.Read(r, binary.LittleEndian, &fat); err != nil {
		return nil, parser.fail("block directory", off, err)
	}
	if r.Len() != 0 {
		return nil, parser.fail("block directory", off, fmt.Errorf("%w: %d bytes left", ErrByteCount, r.Len()))
	}

	entries := make([]HeaderBlockEntry, count)
	for i, v := range fat {
		at := off + i*BlockEntrySize
		t := BlockType(v.Type)
		if !t.Valid() {
			return nil, parser.fail(fmt.Sprintf("block entry %d", i), at, fmt.Errorf("%w: %d", ErrBlockType, v.Type))
		}
		entries[i] = HeaderBlockEntry{
			Index:      i,
			Type:       t,
			Reserved1:  v.Reserved1,
			FrameIndex: v.FrameIndex,
			Offset:     v.Offset,
			Size:       v.Size,
			Reserved:   [3]int32{v.Reserved6, v.Reserved7, v.Reserved8},
		}
		parser.cfg.Logger.Printf("irb: block %d: %s offset=%d size=%d frame=%d", i, t, v.Offset, v.Size, v.FrameIndex)
	}
	return entries, nil
}

// validateDirectory walks the entries in file order with a running cursor
// starting right after the directory. Every mismatch is a diagnostic.
func (parser *parser) validateDirectory(hdr FileHeader, entries []HeaderBlockEntry) {
	dirEnd := int64(hdr.BlockOffset) + int64(hdr.BlockCount)*BlockEntrySize
	cursor := dirEnd
	for _, e := range entries {
		at := int(hdr.BlockOffset) + e.Index*BlockEntrySize
		structure := fmt.Sprintf("block entry %d", e.Index)
		if e.Type == BlockEmpty {
			if e.Offset != 0 || e.Size != 0 {
				parser.note(DiagEmptyBlock, structure, at, "EMPTY entry has offset=%d size=%d", e.Offset, e.Size)
			}
			continue
		}
		if e.Reserved1 != 100 && e.Reserved1 != 101 {
			parser.note(DiagReserved, structure, at, "dword2 = %d, historically 100 or 101", e.Reserved1)
		}
		if int64(e.Offset) != cursor {
			parser.note(DiagDirectory, structure, at, "%s declared at %d, running cursor at %d", e.Type, e.Offset, cursor)
		}
		cursor += int64(e.Size)
	}
	// a chained sub-file is followed by the next frame
	if cursor > int64(len(parser.data)) || (!parser.chained && cursor != int64(len(parser.data))) {
		parser.note(DiagDirectory, "block directory", int(hdr.BlockOffset), "directory accounts for %d bytes, section has %d", cursor, len(parser.data))
	}
}

// extent is the end of the last byte claimed by the header, directory or a block.
func extent(hdr FileHeader, entries []HeaderBlockEntry) int {
	end := int64(FileHeaderSize)
	if dirEnd := int64(hdr.BlockOffset) + int64(hdr.BlockCount)*BlockEntrySize; dirEnd > end {
		end = dirEnd
	}
	for _, e := range entries {
		if e.Type == BlockEmpty {
			continue
		}
		if e.End() > end {
			end = e.End()
		}
	}
	return int(end)
}

// block returns the payload bytes of e.
func (parser *parser) block(e HeaderBlockEntry) ([]byte, error) {
	if e.Offset < 0 || e.Size < 0 || e.End() > int64(len(parser.data)) {
		return nil, parser.fail(fmt.Sprintf("%s block %d", e.Type, e.Index), int(e.Offset),
			fmt.Errorf("%w: [%d, %d) outside section of %d bytes", ErrTruncated, e.Offset, e.End(), len(parser.data)))
	}
	return parser.data[e.Offset:e.End()], nil
}
