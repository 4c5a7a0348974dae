package log

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// newContext returns ctx carrying logger.
func newContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext extracts a logger from ctx, falling back to the default logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// Middleware puts a request scoped logger into the context. requestID and
// clientIP extract values set by earlier middleware; either may be nil.
func Middleware(logger *Logger, requestID, clientIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := NewFields()
			if requestID != nil {
				fields.WithRequestID(requestID(r))
			}
			if clientIP != nil {
				fields.WithClientIP(clientIP(r))
			}
			reqLogger := logger.With(fields.ToSlice()...)
			next.ServeHTTP(w, r.WithContext(newContext(r.Context(), reqLogger)))
		})
	}
}
