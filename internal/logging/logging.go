// Package logging builds the zerolog loggers used across the service.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var root = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Setup sets the global level and output. Unknown levels fall back to info.
func Setup(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	root = zerolog.New(out).With().Timestamp().Logger()
}

// New returns a logger tagged with component.
func New(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}
