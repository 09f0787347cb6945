// SPDX-License-Identifier: MIT

// Package logging builds the structured loggers used by the questopt CLI
// and handed to the optimizer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a *slog.Logger with the given format and level.
// format: "text" (default) or "json".
// level: "debug", "info" (default), "warn", "error".
// If w is nil, os.Stderr is used.
func New(format, level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to slog.Level. Unknown names yield
// slog.LevelInfo and an error; the empty name is info without error.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", level)
	}
}

// ValidFormat reports whether format is accepted by New.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON, "":
		return true
	}

	return false
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
