package irb

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const FrameHeaderSize = 64

// FrameHeader links video frames. Only FrameCounter, Offset, Size and
// ExpectedNextOffset have a confirmed meaning; the rest are kept verbatim.
type FrameHeader struct {
	Bitfield0          int32
	Bitfield1          int32
	FrameCounter       int32
	Offset             int32
	Size               int32
	Bitfield2          int32
	Bitfield3          int32
	Bitfield4          int32
	Bitfield5          int32
	Bitfield6          int32
	FrameCounter2      int32
	ExpectedNextOffset int32
	Size2              int32
	Bitfield7          int32
	Bitfield8          int32
	Bitfield9          int32
}

// Terminal reports the self-referencing header that ends a chain.
func (h *FrameHeader) Terminal() bool { return h.ExpectedNextOffset == h.Offset }

func (parser *parser) decodeFrameHeader(off int) (*FrameHeader, error) {
	const structure = "frame header"
	if off < 0 || off+FrameHeaderSize > len(parser.data) {
		return nil, parser.fail(structure, off, fmt.Errorf("%w: need %d bytes at %d, section has %d", ErrTruncated, FrameHeaderSize, off, len(parser.data)))
	}
	h := new(FrameHeader)
	r := bytes.NewReader(parser.data[off : off+FrameHeaderSize])
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		return nil, parser.fail(structure, off, err)
	}
	if r.Len() != 0 {
		return nil, parser.fail(structure, off, fmt.Errorf("%w: %d bytes left", ErrByteCount, r.Len()))
	}
	if h.FrameCounter2 != h.FrameCounter {
		parser.note(DiagReserved, structure, off+40, "frame counter copy %d differs from %d", h.FrameCounter2, h.FrameCounter)
	}
	parser.cfg.Logger.Printf("irb: frame header at %d: counter=%d offset=%d size=%d next=%d", parser.base+int64(off), h.FrameCounter, h.Offset, h.Size, h.ExpectedNextOffset)
	return h, nil
}

// FollowFrameChain counts the frames reachable from headers[0] by following
// ExpectedNextOffset to the header describing that offset.
func FollowFrameChain(headers []*FrameHeader) int {
	if len(headers) == 0 {
		return 0
	}
	byOffset := make(map[int32]*FrameHeader, len(headers))
	for _, h := range headers {
		if _, ok := byOffset[h.Offset]; !ok {
			byOffset[h.Offset] = h
		}
	}
	seen := make(map[int32]bool)
	count := 0
	for h := headers[0]; h != nil && !seen[h.Offset]; {
		seen[h.Offset] = true
		count++
		if h.Terminal() {
			break
		}
		h = byOffset[h.ExpectedNextOffset]
	}
	return count
}
