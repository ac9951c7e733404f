package app

import (
	"io"
	"log/slog"
)

// newLogger builds the logger one App instance writes through. The global
// default logger is left untouched so instances stay isolated.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	// An unrecognized level name keeps the info default.
	_ = level.UnmarshalText([]byte(levelStr))

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
