package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console logger on stdout with the given level string
// (debug, info, warn, error).
func New(level string) *zerolog.Logger {
	return NewWriter(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}, level)
}

// NewWriter builds a logger writing to w.
func NewWriter(w io.Writer, level string) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	return &logger
}

// Component returns a child logger tagged with the component name.
func Component(parent *zerolog.Logger, name string) *zerolog.Logger {
	logger := parent.With().Str("component", name).Logger()
	return &logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
