package irb

import "fmt"

func (parser *parser) isVideo(f *File) bool {
	switch f.Header.Type {
	case FileTypeOSaveIRB:
		return true
	case FileTypeVariocam:
		return f.Length < len(parser.data)
	}
	return false
}

func (parser *parser) full(f *File) bool {
	return parser.cfg.MaxFrames > 0 && len(f.Frames) >= parser.cfg.MaxFrames
}

// decodeVideo enumerates the frames that follow the top-level directory.
func (parser *parser) decodeVideo(f *File) error {
	pos := f.Length
	if pos >= len(parser.data) {
		return nil
	}

	if f.Header.Type == FileTypeOSaveIRB {
		if hasMagic(parser.data[pos:]) {
			parser.note(DiagFrameChain, "front matter", pos, "sub-file starts where the front-matter image was expected")
		} else {
			img, err := parser.decodeImage(pos, ImageBodyOffset, false)
			if err != nil {
				return &FrameError{Index: 0, Offset: parser.base + int64(pos), Err: err}
			}
			f.FrontMatter = img
			pos += ImageBodyOffset
		}
	}

	switch {
	case hasMagic(parser.data[pos:]):
		return parser.directoryChain(f, pos)
	case len(f.FrameHeaders) > 0:
		return parser.frameHeaderChain(f, f.FrameHeaders[len(f.FrameHeaders)-1])
	}
	if pos < len(parser.data) {
		parser.note(DiagTrailing, "video", pos, "%d bytes with neither sub-file magic nor frame header", len(parser.data)-pos)
	}
	return nil
}

// directoryChain parses consecutive sub-files, each with its own header and
// directory, until the buffer is exhausted.
func (parser *parser) directoryChain(f *File, pos int) error {
	for pos < len(parser.data) && !parser.full(f) {
		if !hasMagic(parser.data[pos:]) {
			parser.note(DiagTrailing, "video", pos, "%d bytes after frame %d", len(parser.data)-pos, len(f.Frames))
			return nil
		}
		sub := newParser(parser.data[pos:], parser.base+int64(pos), parser.cfg)
		sub.chained = true
		frame, err := sub.parseFile()
		if err != nil {
			return &FrameError{Index: len(f.Frames), Offset: parser.base + int64(pos), Err: err}
		}
		frame.Diagnostics = sub.diags
		f.Frames = append(f.Frames, frame)
		parser.cfg.Logger.Printf("irb: frame %d at %d, %d bytes", len(f.Frames)-1, frame.Offset, frame.Length)
		pos += frame.Length
	}
	return nil
}

// frameHeaderChain decodes the image each header points at, then the header
// stored right after that image, until a header points at itself.
func (parser *parser) frameHeaderChain(f *File, h *FrameHeader) error {
	seen := make(map[int32]bool)
	for !parser.full(f) {
		index := len(f.Frames)
		if seen[h.Offset] {
			return &FrameError{Index: index, Offset: parser.base + int64(h.Offset), Err: fmt.Errorf("%w: offset %d visited twice", ErrFrameChain, h.Offset)}
		}
		seen[h.Offset] = true

		img, err := parser.decodeImage(int(h.Offset), int(h.Size), true)
		if err != nil {
			return &FrameError{Index: index, Offset: parser.base + int64(h.Offset), Err: err}
		}
		f.Frames = append(f.Frames, &File{
			Offset:       parser.base + int64(h.Offset),
			Length:       int(h.Size),
			Header:       f.Header,
			Images:       []*Image{img},
			FrameHeaders: []*FrameHeader{h},
		})
		parser.cfg.Logger.Printf("irb: frame %d at %d, %d bytes", index, h.Offset, h.Size)
		if h.Terminal() {
			return nil
		}

		next := int(h.Offset) + int(h.Size)
		nh, err := parser.decodeFrameHeader(next)
		if err != nil {
			return &FrameError{Index: index + 1, Offset: parser.base + int64(next), Err: err}
		}
		if nh.Offset != h.ExpectedNextOffset {
			parser.note(DiagFrameChain, "frame header", next, "offset %d, previous header expected %d", nh.Offset, h.ExpectedNextOffset)
		}
		h = nh
	}
	return nil
}
