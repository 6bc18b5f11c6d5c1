package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/config"
	"github.com/natefinch/lumberjack"
)

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the JSON process logger. With a log file configured, output
// goes to stdout and to a size rotated file.
func NewLogger(cfg config.Log) *slog.Logger {
	return slog.New(slog.NewJSONHandler(logWriter(cfg), &slog.HandlerOptions{Level: parseLevel(cfg.Level)}))
}

func logWriter(cfg config.Log) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	})
}
