// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at stderr with human-readable output.
// Debug messages are only emitted when verbose is set.
func Setup(verbose bool) {
	noColor := termenv.NewOutput(os.Stderr).EnvColorProfile() == termenv.Ascii
	SetupWriter(os.Stderr, verbose, noColor)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, verbose, noColor bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
