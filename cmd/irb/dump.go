package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cam-per/irbis/irb"
	"github.com/cam-per/irbis/utils"
	"github.com/urfave/cli/v3"
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "hex dump the file header and directory, or one block",
		ArgsUsage: "<file.irb>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "block", Aliases: []string{"b"}, Value: -1, Usage: "directory index of the block to dump"},
			&cli.IntFlag{Name: "limit", Value: 4096, Usage: "dump at most this many bytes (0 = all)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			filename := cmd.Args().First()
			if filename == "" {
				return cli.Exit("missing file argument", 2)
			}
			cfg, err := decoderConfig(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return err
			}
			// blocks are dumped, not decoded
			f, err := irb.DecodeDirectory(data, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}

			start := int64(0)
			end := int64(f.Header.BlockOffset) + int64(f.Header.BlockCount)*irb.BlockEntrySize
			if index := int(cmd.Int("block")); index >= 0 {
				if index >= len(f.Blocks) {
					return cli.Exit(fmt.Sprintf("block %d out of range, directory has %d entries", index, len(f.Blocks)), 2)
				}
				e := f.Blocks[index]
				start, end = int64(e.Offset), e.End()
				fmt.Fprintf(cmd.Root().Writer, "block %d: %s offset=%d size=%d\n", index, e.Type, e.Offset, e.Size)
			}
			if limit := int64(cmd.Int("limit")); limit > 0 && end-start > limit {
				end = start + limit
			}
			end = min(max(end, 0), int64(len(data)))
			start = min(max(start, 0), end)
			return utils.HexDump(cmd.Root().Writer, data[start:end], start)
		},
	}
}
