package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/seshop/internal/domain"
)

type loggerKey struct{}

// WithRequestLogger puts a logger tagged with request_id, method, path and
// client_ip into the context. Place it after RequestID and WithClientIP.
func WithRequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			}
			if id := GetRequestID(r.Context()); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if ip := GetClientIPFromContext(r.Context()); ip != "" {
				attrs = append(attrs, slog.String("client_ip", ip))
			}
			if email := domain.CurrentOwnerEmail(r.Context()); email != "" {
				attrs = append(attrs, slog.String("email", email))
			}

			ctx := context.WithValue(r.Context(), loggerKey{}, base.With(attrs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger returns the request logger, then fallback, then slog.Default().
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}

// withLoggerEmail tags the request logger with the verified caller.
// Token middleware runs per route, after WithRequestLogger.
func withLoggerEmail(ctx context.Context, email string) context.Context {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger.With(slog.String("email", email)))
}
