package irb

import "fmt"

type FileType uint8

const (
	FileTypeImage FileType = iota + 1
	FileTypeSequence
	FileTypeVariocam
	FileTypeOSaveIRB
)

var fileTypeTags = map[string]FileType{
	"IRBACS\x00\x00": FileTypeImage,
	"IRBIS 3\x00":    FileTypeSequence,
	"VARIOCAM":       FileTypeVariocam,
	"oSaveIRB":       FileTypeOSaveIRB,
}

func (t FileType) String() string {
	switch t {
	case FileTypeImage:
		return "IMAGE"
	case FileTypeSequence:
		return "SEQUENCE"
	case FileTypeVariocam:
		return "VARIOCAM"
	case FileTypeOSaveIRB:
		return "O_SAVE_IRB"
	}
	return fmt.Sprintf("FileType(%d)", uint8(t))
}

type BlockType int32

const (
	BlockEmpty BlockType = iota
	BlockImage
	BlockPreview
	BlockTextInfo
	BlockFrameHeader
	BlockMystery5
	BlockMystery6
	BlockAudio
)

func (t BlockType) Valid() bool { return t >= BlockEmpty && t <= BlockAudio }

func (t BlockType) String() string {
	switch t {
	case BlockEmpty:
		return "EMPTY"
	case BlockImage:
		return "IMAGE"
	case BlockPreview:
		return "PREVIEW"
	case BlockTextInfo:
		return "TEXT_INFO"
	case BlockFrameHeader:
		return "FRAME_HEADER"
	case BlockMystery5:
		return "MYSTERY_5"
	case BlockMystery6:
		return "MYSTERY_6"
	case BlockAudio:
		return "AUDIO"
	}
	return fmt.Sprintf("BlockType(%d)", int32(t))
}

type CompressionType int16

const (
	CompressionRaw   CompressionType = 0 // fraction/index byte pairs
	CompressionRLE   CompressionType = 1 // fractions plus run-length palette indices
	CompressionDelta CompressionType = 2 // bit-packed zig-zag deltas
)

func (c CompressionType) String() string {
	switch c {
	case CompressionRaw:
		return "raw"
	case CompressionRLE:
		return "rle"
	case CompressionDelta:
		return "delta"
	}
	return fmt.Sprintf("CompressionType(%d)", int16(c))
}
