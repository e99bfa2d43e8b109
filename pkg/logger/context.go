package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// Context returns a copy of ctx carrying l. The request middleware seeds
// this once per request so everything downstream logs through the
// request-scoped logger.
func Context(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// With returns a new context whose logger carries the extra fields.
func With(ctx context.Context, fields ...any) context.Context {
	return Context(ctx, From(ctx).With(fields...))
}

// From returns the logger attached to ctx, or the process logger if none
// was attached.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
