package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the configured application logger. It writes to stderr so that
// simulation output on stdout stays clean, and standardizes the "error" key
// to "err".
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything. Components default to it
// so logging stays opt-in.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
