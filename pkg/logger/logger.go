// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New creates a structured logger at the given level (debug, info, warn,
// error). Pretty enables human-readable console output for interactive runs;
// batch and server processes log JSON.
func New(level string, pretty bool) zerolog.Logger {
	parsed := zerolog.InfoLevel
	switch level {
	case "debug":
		parsed = zerolog.DebugLevel
	case "warn":
		parsed = zerolog.WarnLevel
	case "error":
		parsed = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(parsed)
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stderr
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	}

	l := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = l
	return l
}
