package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Option configures the logger factory.
type Option func(*config)

type config struct {
	out        io.Writer
	level      slog.Level
	extractors []ContextExtractor
}

// WithLevel sets the minimum log level. Default: info.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithWriter redirects log output. Default: stdout.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithContextExtractor adds an extractor that injects request-scoped
// attributes (request id, tenant, ...) into every record.
func WithContextExtractor(ex ContextExtractor) Option {
	return func(c *config) {
		if ex != nil {
			c.extractors = append(c.extractors, ex)
		}
	}
}

// New creates a JSON-formatted slog logger.
func New(opts ...Option) *slog.Logger {
	cfg := &config{out: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := slog.NewJSONHandler(cfg.out, &slog.HandlerOptions{Level: cfg.level})
	return slog.New(newContextHandler(handler, cfg.extractors))
}

// NewNope creates a no-op logger that discards all output.
// Use this as a default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
