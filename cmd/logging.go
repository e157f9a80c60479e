package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/odit-bit/chatreply/config"
)

// setupLogger installs the default slog logger. debug forces the debug level.
func setupLogger(cfg config.LogConfig, debug bool) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	slog.SetDefault(slog.New(h))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
