package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/LavaJover/shvark-payout-forecast/internal/config"
)

// New builds the process logger from the log_config section and installs it
// as the slog default. The returned closer releases a log file, if any.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	out, closer, err := output(cfg.LogOutput)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level(cfg.LogLevel)}
	var h slog.Handler
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		h = slog.NewTextHandler(out, opts)
	}

	l := slog.New(h).With("service", "payout-forecast")
	slog.SetDefault(l)
	return l, closer, nil
}

func level(s string) slog.Level {
	switch strings.ToLower(s) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func output(target string) (io.Writer, io.Closer, error) {
	switch target {
	case "", "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	default:
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", target, err)
		}
		return f, f, nil
	}
}
