package log

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a text handler writing to w at level as the default slog
// logger and returns it. A nil w writes to stderr.
func Setup(level slog.Leveler, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
