// Command irb inspects and exports InfraTec IRB thermal camera files.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cam-per/irbis/irb"
	"github.com/maruel/interrupt"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/encoding/charmap"
)

var charmaps = map[string]*charmap.Charmap{
	"iso8859-1":    charmap.ISO8859_1,
	"iso8859-15":   charmap.ISO8859_15,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"cp437":        charmap.CodePage437,
	"koi8-r":       charmap.KOI8R,
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "irb",
		Usage: "decode InfraTec IRB thermal camera files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log decoder progress and diagnostics to stderr",
				Sources: cli.EnvVars("IRB_VERBOSE"),
			},
			&cli.StringFlag{
				Name:    "charmap",
				Value:   "iso8859-1",
				Usage:   "encoding of metadata strings and TEXT_INFO blocks",
				Sources: cli.EnvVars("IRB_CHARMAP"),
			},
			&cli.BoolFlag{
				Name:  "no-video",
				Usage: "stop after the top-level block directory",
			},
			&cli.IntFlag{
				Name:  "max-frames",
				Usage: "decode at most this many video frames (0 = all)",
			},
		},
		Commands: []*cli.Command{
			infoCommand(),
			exportCommand(),
			dumpCommand(),
		},
	}
}

func decoderConfig(cmd *cli.Command) (*irb.Config, error) {
	name := strings.ToLower(cmd.String("charmap"))
	cm, ok := charmaps[name]
	if !ok {
		return nil, cli.Exit(fmt.Sprintf("unknown charmap %q", name), 2)
	}
	cfg := &irb.Config{
		Charmap:      cm,
		DisableVideo: cmd.Bool("no-video"),
		MaxFrames:    int(cmd.Int("max-frames")),
	}
	if cmd.Bool("verbose") {
		cfg.Logger = log.New(cmd.Root().ErrWriter, "", log.Lmicroseconds)
	}
	return cfg, nil
}

// open decodes the file named by the first argument. A frame failure is
// reported and the frames before it are kept.
func open(cmd *cli.Command) (*irb.File, string, error) {
	filename := cmd.Args().First()
	if filename == "" {
		return nil, "", cli.Exit("missing file argument", 2)
	}
	cfg, err := decoderConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	f, err := irb.Open(filename, cfg)
	var fe *irb.FrameError
	if errors.As(err, &fe) && f != nil {
		fmt.Fprintf(cmd.Root().ErrWriter, "irb: warning: %v; keeping %d frames\n", err, len(f.Frames))
		return f, filename, nil
	}
	if err != nil {
		return nil, "", err
	}
	return f, filename, nil
}

func main() {
	interrupt.HandleCtrlC()
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "irb: %s.\n", err)
		os.Exit(1)
	}
}
