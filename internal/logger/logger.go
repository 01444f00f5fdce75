package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"

	"github.com/templui/cosmicblog/internal/ctxkeys"
)

// Log is the global logger instance
var Log *slog.Logger

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Optionally sends errors to Sentry for error tracking
func Init(isDev bool, sentryDSN string) {
	var level slog.Level
	var handlers []slog.Handler

	// Base handler for stdout (always enabled)
	if isDev {
		level = slog.LevelDebug
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	} else {
		level = slog.LevelInfo
		handlers = append(handlers, slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	}

	// Optional Sentry handler (sends errors only)
	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	Log = slog.New(New(handlers...))
	slog.SetDefault(Log)
}

// New fans records out to every handler after stamping the request id.
func New(handlers ...slog.Handler) slog.Handler {
	var sink slog.Handler
	if len(handlers) > 1 {
		sink = slogmulti.Fanout(handlers...)
	} else {
		sink = handlers[0]
	}

	return slogmulti.Pipe(slogmulti.NewHandleInlineMiddleware(withRequestID)).Handler(sink)
}

// withRequestID adds request_id to records logged with a request context.
func withRequestID(ctx context.Context, record slog.Record, next func(context.Context, slog.Record) error) error {
	if ctx != nil {
		if id := ctxkeys.RequestID(ctx); id != "" {
			record.AddAttrs(slog.String("request_id", id))
		}
	}
	return next(ctx, record)
}
