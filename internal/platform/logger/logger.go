package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output so log aggregation can key on
// run_id/provider fields emitted throughout the scan pipeline.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
