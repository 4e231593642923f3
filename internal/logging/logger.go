// v0
// internal/logging/logger.go
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds the service logger. When path is non-empty the log is duplicated
// to that file so container runs keep a copy past stdout rotation.
func New(path string) *slog.Logger {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			l := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
			l.Error("failed to open log file, using stdout only", "path", path, "err", err)
			return l
		}
		w = io.MultiWriter(os.Stdout, f)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
