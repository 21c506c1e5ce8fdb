// Package logtrace provides logging and tracing utilities for the client.
// It integrates with zerolog for structured logging and carries a per-call
// request id through context so request and response log lines correlate.
package logtrace

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerOptions controls how InitLogger configures the global logger.
type LoggerOptions struct {
	Level   zerolog.Level // minimum level, zerolog.InfoLevel when unset
	Console bool          // human readable output instead of JSON lines
	Out     io.Writer     // destination, stderr when nil
}

// InitLogger initializes the global logger with Unix timestamp format.
// Configures zerolog to output to stderr with timestamps.
func InitLogger(opts ...LoggerOptions) {
	o := LoggerOptions{Level: zerolog.InfoLevel}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Out == nil {
		o.Out = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := o.Out
	if o.Console {
		out = zerolog.ConsoleWriter{Out: o.Out, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).Level(o.Level).With().Timestamp().Logger()
}

// Component returns a child of the global logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
