package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cam-per/irbis/irb"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print header, block table, image summaries and diagnostics",
		ArgsUsage: "<file.irb>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "diagnostics", Aliases: []string{"d"}, Usage: "list every diagnostic"},
			&cli.BoolFlag{Name: "text", Usage: "print TEXT_INFO blocks"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, filename, err := open(cmd)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			fmt.Fprintf(w, "%s: %s container\n", filename, f.Header.Type)
			printFile(w, f, "", cmd.Bool("text"))

			if f.FrontMatter != nil {
				fmt.Fprintf(w, "front matter: %dx%d image header at %d\n", f.FrontMatter.Width, f.FrontMatter.Height, f.FrontMatter.Offset)
			}
			if len(f.Frames) > 0 {
				total := 0
				for _, frame := range f.Frames {
					total += frame.Length
				}
				fmt.Fprintf(w, "frames: %s (%s), frame header chain: %d\n",
					humanize.Comma(int64(len(f.Frames))), humanize.Bytes(uint64(total)), irb.FollowFrameChain(f.FrameChain()))
			}

			diags := f.AllDiagnostics()
			fmt.Fprintf(w, "diagnostics: %d\n", len(diags))
			if cmd.Bool("diagnostics") {
				for _, d := range diags {
					fmt.Fprintf(w, "  %s\n", d)
				}
			}
			return nil
		},
	}
}

func printFile(w io.Writer, f *irb.File, indent string, text bool) {
	fmt.Fprintf(w, "%sheader: tag=%q blocks=%d at %d, %s\n", indent, f.Header.Tag, f.Header.BlockCount, f.Header.BlockOffset, humanize.Bytes(uint64(f.Length)))
	for _, e := range f.Blocks {
		if e.Type == irb.BlockEmpty {
			continue
		}
		fmt.Fprintf(w, "%s  block %d: %-12s offset=%-10s size=%-10s frame=%d\n", indent, e.Index, e.Type,
			humanize.Comma(int64(e.Offset)), humanize.Comma(int64(e.Size)), e.FrameIndex)
	}
	for i, img := range f.Images {
		printImage(w, i, img, indent)
	}
	for i, preview := range f.Previews {
		fmt.Fprintf(w, "%spreview %d: %dx%d\n", indent, i, preview.Width, preview.Height)
	}
	for i, info := range f.TextInfos {
		fmt.Fprintf(w, "%stext %d: %s\n", indent, i, humanize.Bytes(uint64(len(info.Raw))))
		if text {
			fmt.Fprintf(w, "%s\n", info.Text)
		}
	}
}

func printImage(w io.Writer, i int, img *irb.Image, indent string) {
	c := func(k float32) float32 { return k - irb.CelsiusOffset }
	fmt.Fprintf(w, "%simage %d: %dx%d %s, %s pixels\n", indent, i, img.Width, img.Height, img.Compression,
		humanize.Comma(int64(img.Width*img.Height)))
	if img.Degenerate {
		fmt.Fprintf(w, "%s  degenerate: declared dimensions out of range\n", indent)
	}
	fmt.Fprintf(w, "%s  device: %s %s, optics: %s\n", indent, img.Device, img.DeviceSerial, img.Optics)
	fmt.Fprintf(w, "%s  timestamp: %s\n", indent, img.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "%s            env temp: %g °C\n", indent, c(img.EnvironmentalTemp))
	fmt.Fprintf(w, "%s           path temp: %g °C\n", indent, c(img.PathTemperature))
	fmt.Fprintf(w, "%s     calib range min: %g °C\n", indent, c(img.CalibRangeMin))
	fmt.Fprintf(w, "%s     calib range max: %g °C\n", indent, c(img.CalibRangeMax))
	fmt.Fprintf(w, "%sshot range start err: %g °C\n", indent, c(img.ShotRangeStartErr))
	fmt.Fprintf(w, "%s     shot range size: %g K\n", indent, img.ShotRangeSize)
	if img.Palette != nil {
		fmt.Fprintf(w, "%s       palette range: %.2f .. %.2f °C\n", indent, c(img.Palette.Min()), c(img.Palette.Max()))
	}
	if img.HasPixels && !img.Degenerate {
		fmt.Fprintf(w, "%s         temperature: %.2f .. %.2f °C\n", indent, c(img.MinData), c(img.MaxData))
	}
}
