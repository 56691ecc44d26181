// Package logger provides structured logging built on log/slog with
// context-based attribute injection and optional Sentry forwarding.
//
// # Usage
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug))
//	log.Info("dispatching email", slog.String("template", "welcome"))
//
// Context extractors inject request-scoped values into every record:
//
//	log := logger.New(logger.WithContextExtractor(func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(requestIDKey).(string); ok {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}))
//
// # Sentry
//
// NewWithSentry writes logs to stdout and forwards warnings and errors
// to Sentry. With an empty DSN it degrades to stdout-only logging, so
// the same code path works locally and in production:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//	})
package logger
