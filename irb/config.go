package irb

import (
	"io"
	"log"

	"golang.org/x/text/encoding/charmap"
)

type Config struct {
	// Logger receives diagnostics and progress. Nil discards.
	Logger *log.Logger
	// Charmap decodes fixed-length strings and TEXT_INFO blocks.
	Charmap *charmap.Charmap
	// DisableVideo stops after the top-level directory.
	DisableVideo bool
	// MaxFrames bounds video enumeration; 0 means unlimited.
	MaxFrames int
}

var discard = log.New(io.Discard, "", 0)

func (cfg *Config) withDefaults() *Config {
	out := Config{}
	if cfg != nil {
		out = *cfg
	}
	if out.Logger == nil {
		out.Logger = discard
	}
	if out.Charmap == nil {
		out.Charmap = charmap.ISO8859_1
	}
	return &out
}
