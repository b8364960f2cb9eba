package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jwebster45206/mythgarden-console/internal/config"
)

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config) *slog.Logger {
	return SetupWriter(cfg, os.Stdout)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// SetupFile sends logs to cfg.LogFile. The terminal belongs to the UI, so
// the console never logs to stdout. The returned file must be closed by the
// caller.
func SetupFile(cfg *config.Config) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return SetupWriter(cfg, f), f, nil
}

// WithRequestID adds request ID to logger context
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
