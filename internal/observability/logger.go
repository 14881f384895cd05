// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observability builds the zerolog logger and the Prometheus
// counters shared by the API client and the batch driver.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citehist/pkg/types"
)

// DefaultLogConfig returns console logging at info level.
func DefaultLogConfig() types.LogConfig {
	return types.LogConfig{
		Level:  "info",
		Format: "console",
	}
}

// NewLogger creates a zerolog logger writing to w (stderr when nil).
// Format "json" emits one JSON object per line; anything else uses the
// human-readable console writer.
func NewLogger(cfg types.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithAuthor adds the author query to a logger.
func WithAuthor(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("author", name).Logger()
}
