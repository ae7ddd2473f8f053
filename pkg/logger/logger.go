// Package logger provides the process-wide structured logger used by the
// colour engine. Library packages log through Log; cmd/paintmix configures
// its own verbosity via log/slog for CLI-facing output.
package logger

import (
	"os"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
)

// Log is the shared zerolog logger for engine packages.
var Log = logger.With().Caller().Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
