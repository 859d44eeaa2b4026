package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/cam-per/irbis/irb/export"
	"github.com/cam-per/irbis/irb/render"
	"github.com/dustin/go-humanize"
	"github.com/maruel/interrupt"
	"github.com/urfave/cli/v3"
)

var colormaps = map[string]color.Palette{
	"gray16": nil,
	"gray":   render.Grayscale,
	"jet":    render.Jet,
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write .dat matrices, JSON metadata, renderings, previews and text blocks",
		ArgsUsage: "<file.irb>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory (default: next to the input)"},
			&cli.StringFlag{Name: "format", Value: "png", Usage: "rendering format: png or qoi"},
			&cli.StringFlag{Name: "colormap", Value: "gray16", Usage: "rendering colors: gray16, gray or jet"},
			&cli.BoolFlag{Name: "per-image", Usage: "scale each rendering over its own temperature range"},
			&cli.BoolFlag{Name: "compress", Usage: "zstd compress the .dat matrices"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := export.ParseFormat(cmd.String("format"))
			if err != nil {
				return cli.Exit(err, 2)
			}
			palette, ok := colormaps[cmd.String("colormap")]
			if !ok {
				return cli.Exit(fmt.Sprintf("unknown colormap %q", cmd.String("colormap")), 2)
			}

			f, filename, err := open(cmd)
			if err != nil {
				return err
			}
			base := filename
			if dir := cmd.String("out"); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
				base = filepath.Join(dir, filepath.Base(filename))
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				select {
				case <-interrupt.Channel:
					cancel()
				case <-ctx.Done():
				}
			}()

			e := &export.Exporter{
				Base:     base,
				Format:   format,
				Palette:  palette,
				PerImage: cmd.Bool("per-image"),
				Compress: cmd.Bool("compress"),
			}
			if cfg, _ := decoderConfig(cmd); cfg != nil {
				e.Logger = cfg.Logger
			}
			written, err := e.Export(ctx, f)

			var size int64
			for _, name := range written {
				if fi, err := os.Stat(name); err == nil {
					size += fi.Size()
				}
			}
			fmt.Fprintf(cmd.Root().Writer, "wrote %d files, %s\n", len(written), humanize.Bytes(uint64(size)))
			return err
		},
	}
}
