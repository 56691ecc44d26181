package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel determines which log levels to forward to Sentry.
	MinLevel slog.Level
}

// NewWithSentry creates a logger that writes to stdout and forwards
// warnings and errors to Sentry. An empty DSN falls back to stdout
// only, so the same code path works in local development.
func NewWithSentry(cfg SentryConfig, opts ...Option) *slog.Logger {
	c := &config{out: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(c)
	}

	stdoutHandler := slog.NewJSONHandler(c.out, &slog.HandlerOptions{Level: c.level})

	if cfg.DSN == "" {
		return slog.New(newContextHandler(stdoutHandler, c.extractors))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdoutHandler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(newContextHandler(stdoutHandler, c.extractors))
	}

	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel,
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	combined := newFanoutHandler(stdoutHandler, sentryHandler)
	return slog.New(newContextHandler(combined, c.extractors))
}
