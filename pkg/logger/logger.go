package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Option configures logger construction.
type Option func(*options)

type options struct {
	out         io.Writer
	level       slog.Level
	sentryDSN   string
	sentryEnv   string
	sentryLevel slog.Level
}

func defaultOptions() *options {
	return &options{
		out:         os.Stdout,
		level:       slog.LevelInfo,
		sentryEnv:   "production",
		sentryLevel: slog.LevelWarn,
	}
}

// WithLevel sets the minimum level for stdout output.
// Default: slog.LevelInfo.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOutput redirects log output away from stdout. Useful in tests.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithSentry forwards warnings and errors to Sentry. An empty DSN disables
// the integration, which keeps local development on stdout only.
func WithSentry(dsn, environment string) Option {
	return func(o *options) {
		o.sentryDSN = dsn
		if environment != "" {
			o.sentryEnv = environment
		}
	}
}

// WithSentryLevel sets the minimum level forwarded to Sentry.
// Default: slog.LevelWarn.
func WithSentryLevel(level slog.Level) Option {
	return func(o *options) {
		o.sentryLevel = level
	}
}

// New creates a JSON logger. When a Sentry DSN is configured, records at or
// above the Sentry level are forwarded there as well; a failed Sentry
// initialization degrades to stdout-only logging instead of failing startup.
func New(opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	stdout := slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: o.level})

	if o.sentryDSN == "" {
		return slog.New(stdout)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         o.sentryDSN,
		Environment: o.sentryEnv,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(stdout)
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if o.sentryLevel >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}
	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(newTeeHandler(stdout, sentryHandler))
}

// NewDiscard creates a no-op logger for tests and unconfigured setups.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
