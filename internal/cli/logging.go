package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// newLogger writes text logs to stderr (warn, or debug with --verbose). When
// PLANBOARD_DEBUG_LOG names a file, JSON debug logs are appended there instead.
func newLogger(stderr io.Writer, verbose bool) (*slog.Logger, func() error, error) {
	if path := strings.TrimSpace(os.Getenv("PLANBOARD_DEBUG_LOG")); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h), f.Close, nil
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h), func() error { return nil }, nil
}
