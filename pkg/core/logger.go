package core

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogger implements Logger on top of a zerolog console writer
type DefaultLogger struct {
	log zerolog.Logger
}

// NewDefaultLogger creates a logger that writes human-readable lines to stderr
func NewDefaultLogger() Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return &DefaultLogger{log: zerolog.New(output).With().Timestamp().Logger()}
}

// NewLoggerTo creates an uncolored logger writing to w
func NewLoggerTo(w io.Writer) *DefaultLogger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return &DefaultLogger{log: zerolog.New(output).With().Timestamp().Logger()}
}

// Printf logs a formatted message at info level
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.log.Info().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// NopLogger discards everything. Used by tests and library callers that do
// not want output.
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}
