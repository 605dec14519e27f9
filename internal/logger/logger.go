// Package logger builds the root zerolog logger for the service.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns the root logger for the given runtime environment. Local runs
// get a human-readable console writer at debug level; every other
// environment logs JSON to stdout at info level.
func New(env string) zerolog.Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if env == "local" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "killboard").
		Logger()
}
