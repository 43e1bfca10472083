// Package logging wires slog to rotating log files.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"visitlens/internal/config"
)

// NewLogger builds the application logger from configuration. In production
// output goes to a size-rotated file; elsewhere it goes to stdout.
func NewLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.IsProduction() {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogsDirectory, cfg.AppName+".log"),
			MaxSize:    cfg.LogsMaxSizeInMb,
			MaxBackups: cfg.LogsMaxBackups,
			MaxAge:     cfg.LogsMaxAgeInDays,
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	})
	return slog.New(handler)
}

func parseLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelInfo:
		return slog.LevelInfo
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
