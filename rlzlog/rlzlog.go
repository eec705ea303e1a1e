// Package rlzlog provides a configurable logger shared by the RLZ core's
// components, for the "warn, continue" and "bug, abort" error classes.
//
// The root logger defaults to github.com/rs/zerolog with a console writer,
// mirroring how logging is set up across this toolkit's sibling tools.
package rlzlog

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// SetOutput changes the output of the global logger.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set allows a caller to override the global logger entirely.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable replaces the global logger with a no-op logger. Subloggers already
// returned by Logger keep the output they were created with.
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns a sublogger scoped to component, e.g. "rlzparse" or
// "token/vbyte".
func Logger(component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
