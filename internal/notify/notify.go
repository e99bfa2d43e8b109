// Package notify is the user-visible notification sink. Controllers and the
// backend client report outcomes here instead of rendering anything
// themselves; the web layer decides how a notice reaches the screen.
package notify

import (
	"context"
	"log/slog"

	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/pkg/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Success(message string)
	Error(kind internal.ErrorKind, message string)
}

// LogNotifier writes notices to the structured log only. It is the fallback
// outside a web request, and what tests usually inject.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Success(message string) {
	n.logger().Info("notification", "level", LevelSuccess, "message", message)
}

func (n *LogNotifier) Error(kind internal.ErrorKind, message string) {
	n.logger().Warn("notification", "level", LevelError, "kind", kind, "message", message)
}

func (n *LogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return logger.LoggerWrapper()
}

type ctxKey struct{}

// WithNotifier returns a context carrying n. The web layer installs a
// per-request notifier so anything downstream can surface a notice.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// FromContext returns the notifier carried by ctx, or a log-backed fallback.
func FromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(ctxKey{}).(Notifier); ok && n != nil {
		return n
	}
	return &LogNotifier{}
}
