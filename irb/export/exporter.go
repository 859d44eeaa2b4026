package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/cam-per/irbis/irb"
	"github.com/cam-per/irbis/irb/render"
)

// Exporter writes every record of a File to files named after Base, e.g.
// shot.irb.img_0.dat, shot.irb.meta_0.json and shot.irb.img_0.png. Frames
// of a video go to Base.frame_NNNN.*.
type Exporter struct {
	Base   string
	Format Format
	// Palette colors renderings; nil writes 16-bit grayscale.
	Palette color.Palette
	// PerImage scales every rendering over its own temperature range
	// instead of the range shared by the whole file.
	PerImage bool
	// Compress writes the text matrices zstd compressed.
	Compress bool
	Logger   *log.Logger
}

// Export stops between frames when ctx is done and returns the files written so far.
func (exporter *Exporter) Export(ctx context.Context, f *irb.File) ([]string, error) {
	var written []string
	lo, hi, ok := render.Range(f)
	scale := func(img *irb.Image) (float32, float32) {
		if ok {
			return lo, hi
		}
		return img.MinData, img.MaxData
	}

	if err := exporter.exportFile(f, exporter.Base, scale, &written); err != nil {
		return written, err
	}
	if f.FrontMatter != nil {
		name := exporter.Base + ".front.meta.json"
		if err := exporter.create(name, &written, func(w io.Writer) error { return WriteMetadata(w, f.FrontMatter) }); err != nil {
			return written, err
		}
	}
	for i, frame := range f.Frames {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := exporter.exportFile(frame, fmt.Sprintf("%s.frame_%04d", exporter.Base, i), scale, &written); err != nil {
			return written, err
		}
	}
	return written, nil
}

func (exporter *Exporter) exportFile(f *irb.File, base string, scale func(*irb.Image) (float32, float32), written *[]string) error {
	for i, img := range f.Images {
		if img.HasPixels && !img.Degenerate {
			name := fmt.Sprintf("%s.img_%d.dat", base, i)
			if exporter.Compress {
				name += ".zst"
			}
			if err := exporter.create(name, written, func(w io.Writer) error { return exporter.writeText(w, img) }); err != nil {
				return err
			}

			m := exporter.render(img, scale)
			name = fmt.Sprintf("%s.img_%d.%s", base, i, exporter.format())
			if err := exporter.create(name, written, func(w io.Writer) error { return WriteImage(w, m, exporter.format()) }); err != nil {
				return err
			}
		}
		name := fmt.Sprintf("%s.meta_%d.json", base, i)
		if err := exporter.create(name, written, func(w io.Writer) error { return WriteMetadata(w, img) }); err != nil {
			return err
		}
	}
	for i, preview := range f.Previews {
		name := fmt.Sprintf("%s.preview_%d.pgm", base, i)
		if err := exporter.create(name, written, func(w io.Writer) error { return WritePGM(w, preview) }); err != nil {
			return err
		}
		name = fmt.Sprintf("%s.preview_%d.%s", base, i, exporter.format())
		if err := exporter.create(name, written, func(w io.Writer) error { return WriteImage(w, render.Preview(preview), exporter.format()) }); err != nil {
			return err
		}
	}
	for i, info := range f.TextInfos {
		name := fmt.Sprintf("%s.text_%d.txt", base, i)
		if err := exporter.create(name, written, func(w io.Writer) error { return WriteTextInfo(w, info) }); err != nil {
			return err
		}
	}
	return nil
}

func (exporter *Exporter) render(img *irb.Image, scale func(*irb.Image) (float32, float32)) image.Image {
	if exporter.PerImage {
		return render.Auto(img, exporter.Palette)
	}
	lo, hi := scale(img)
	if exporter.Palette == nil {
		return render.Gray16(img, lo, hi)
	}
	return render.Colorize(img, exporter.Palette, lo, hi)
}

func (exporter *Exporter) writeText(w io.Writer, img *irb.Image) error {
	if !exporter.Compress {
		return WriteText(w, img)
	}
	zw, err := Compress(w)
	if err != nil {
		return err
	}
	if err := WriteText(zw, img); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func (exporter *Exporter) format() Format {
	if exporter.Format == "" {
		return FormatPNG
	}
	return exporter.Format
}

func (exporter *Exporter) create(name string, written *[]string, fn func(io.Writer) error) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := fn(fd); err != nil {
		fd.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := fd.Close(); err != nil {
		return err
	}
	*written = append(*written, name)
	if exporter.Logger != nil {
		exporter.Logger.Printf("export: wrote %s", name)
	}
	return nil
}
