package irb

import (
	"errors"
	"fmt"
)

var (
	ErrMagic           = errors.New("irb: bad magic")
	ErrFileType        = errors.New("irb: unknown file type tag")
	ErrBlockType       = errors.New("irb: unknown block type")
	ErrByteCount       = errors.New("irb: structure byte count mismatch")
	ErrTruncated       = errors.New("irb: truncated")
	ErrCompression     = errors.New("irb: unknown compression type")
	ErrPreviewMagic    = errors.New("irb: bad preview magic")
	ErrPreviewSize     = errors.New("irb: preview dimensions do not fit payload")
	ErrFrameChain      = errors.New("irb: broken frame chain")
	ErrImageDimensions = errors.New("irb: image dimensions out of range")
)

// FormatError is fatal to the structure it names.
type FormatError struct {
	Structure string
	Offset    int64
	Err       error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("irb: %s at offset %d: %v", e.Structure, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// FrameError reports a failure confined to one video frame. Frames before
// Index were decoded and are kept.
type FrameError struct {
	Index  int
	Offset int64
	Err    error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("irb: frame %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
