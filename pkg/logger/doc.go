// Package logger builds structured slog loggers for applications embedding
// the slug engine: JSON output to stdout, with an optional Sentry handler for
// error reporting.
//
// Basic usage:
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug)).With("app", "catalog")
//
// With Sentry (falls back to stdout-only when the DSN is empty or
// initialization fails):
//
//	log := logger.New(
//	    logger.WithSentry(os.Getenv("SENTRY_DSN"), "production"),
//	)
package logger
