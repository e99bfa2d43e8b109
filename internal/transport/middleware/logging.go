package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/umsys/user-management-console/pkg/logger"
)

// sensitiveFields are form/query field names that must never reach the logs.
var sensitiveFields = []string{
	"password",
	"token",
	"secret",
}

// Logging attaches a request-scoped logger carrying the request id to the
// context and records every request with its status and duration. Form
// values are logged with sensitive fields masked; the create-user form posts
// a password.
func Logging(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logger.Context(r.Context(), lg)
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				ctx = logger.With(ctx, "request_id", reqID)
			}
			r = r.WithContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}

			logger.From(ctx).Log(ctx, level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", filterValues(r.URL.Query()),
				"form", filterValues(r.PostForm),
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func filterValues(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	filtered := url.Values{}
	for name, vals := range values {
		if isSensitive(name) {
			filtered.Set(name, "[FILTERED]")
			continue
		}
		filtered[name] = vals
	}
	return filtered.Encode()
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
