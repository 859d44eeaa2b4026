package irb

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// File is one decoded container, or one frame of a video container.
type File struct {
	// Offset of the section within the outermost buffer.
	Offset int64
	// Length is the extent claimed by the header, directory and blocks.
	Length int

	Header       FileHeader
	Blocks       []HeaderBlockEntry
	Images       []*Image
	Previews     []*Preview
	TextInfos    []*TextInfo
	FrameHeaders []*FrameHeader

	// FrontMatter is the pixel-less image that precedes the frames of an
	// O_SAVE_IRB container.
	FrontMatter *Image
	Frames      []*File

	Diagnostics []Diagnostic
}

// AllDiagnostics returns the diagnostics of f followed by those of its frames.
func (f *File) AllDiagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), f.Diagnostics...)
	for _, frame := range f.Frames {
		out = append(out, frame.AllDiagnostics()...)
	}
	return out
}

// FrameChain returns the first frame header of every frame, in frame order.
func (f *File) FrameChain() []*FrameHeader {
	var out []*FrameHeader
	for _, frame := range f.Frames {
		if len(frame.FrameHeaders) > 0 {
			out = append(out, frame.FrameHeaders[0])
		}
	}
	return out
}

type parser struct {
	data    []byte
	base    int64
	cfg     *Config
	diags   []Diagnostic
	chained bool
}

func newParser(data []byte, base int64, cfg *Config) *parser {
	return &parser{data: data, base: base, cfg: cfg}
}

// Decode parses a whole container. A *FrameError comes back together with
// the frames decoded before it; any other error leaves the File nil.
func Decode(data []byte, cfg *Config) (*File, error) {
	cfg = cfg.withDefaults()
	parser := newParser(data, 0, cfg)
	f, err := parser.parseFile()
	if err != nil {
		return nil, err
	}
	if !cfg.DisableVideo && parser.isVideo(f) {
		err = parser.decodeVideo(f)
	}
	f.Diagnostics = parser.diags
	return f, err
}

func Read(r io.Reader, cfg *Config) (*File, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return Decode(data, cfg)
}

func Open(filename string, cfg *Config) (*File, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	f, err := Read(fd, cfg)
	if err != nil {
		return f, fmt.Errorf("%s: %w", filename, err)
	}
	return f, nil
}

// DecodeDirectory parses only the file header and block directory. Block
// payloads are left untouched, so a file whose blocks fail to decode can
// still be inspected.
func DecodeDirectory(data []byte, cfg *Config) (*File, error) {
	parser := newParser(data, 0, cfg.withDefaults())
	f, err := parser.parseDirectory()
	if err != nil {
		return nil, err
	}
	f.Diagnostics = parser.diags
	return f, nil
}

func (parser *parser) parseFile() (*File, error) {
	f, err := parser.parseDirectory()
	if err != nil {
		return nil, err
	}
	if err := parser.dispatch(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (parser *parser) parseDirectory() (*File, error) {
	hdr, _, err := parser.readFileHeader()
	if err != nil {
		return nil, err
	}
	entries, err := parser.readDirectory(hdr)
	if err != nil {
		return nil, err
	}
	parser.validateDirectory(hdr, entries)

	return &File{
		Offset: parser.base,
		Length: extent(hdr, entries),
		Header: hdr,
		Blocks: entries,
	}, nil
}

func (parser *parser) dispatch(f *File) error {
	for _, e := range f.Blocks {
		switch e.Type {
		case BlockEmpty:
			continue
		case BlockMystery5, BlockMystery6, BlockAudio:
			parser.cfg.Logger.Printf("irb: block %d: %s left unparsed (%d bytes)", e.Index, e.Type, e.Size)
			continue
		}

		b, err := parser.block(e)
		if err != nil {
			return err
		}
		off := int(e.Offset)
		switch e.Type {
		case BlockImage:
			img, err := parser.decodeImage(off, int(e.Size), true)
			if err != nil {
				return err
			}
			f.Images = append(f.Images, img)
		case BlockPreview:
			preview, err := parser.decodePreview(b, off)
			if err != nil {
				return err
			}
			f.Previews = append(f.Previews, preview)
		case BlockTextInfo:
			f.TextInfos = append(f.TextInfos, parser.decodeTextInfo(b, off))
		case BlockFrameHeader:
			if e.Size != FrameHeaderSize {
				parser.note(DiagDirectory, fmt.Sprintf("block entry %d", e.Index), off, "FRAME_HEADER block of %d bytes", e.Size)
			}
			h, err := parser.decodeFrameHeader(off)
			if err != nil {
				return err
			}
			f.FrameHeaders = append(f.FrameHeaders, h)
		default:
			return parser.fail(fmt.Sprintf("block entry %d", e.Index), off, fmt.Errorf("%w: %d", ErrBlockType, int32(e.Type)))
		}
	}
	return nil
}
