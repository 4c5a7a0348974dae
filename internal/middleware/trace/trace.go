// Package trace tags each request with an ID and logs its completion.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	applog "healthlog/internal/log"
)

type contextKey struct{}

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const idPrefix = "req_"

// Middleware assigns request IDs, logs request completion and counts
// responses by status class.
type Middleware struct {
	clientIP func(*http.Request) string

	total       atomic.Int64
	clientErrs  atomic.Int64
	serverErrs  atomic.Int64
	lastLatency atomic.Int64
}

type Metrics struct {
	TotalRequests int64
	ClientErrors  int64
	ServerErrors  int64
	// LastResponseTime is in microseconds.
	LastResponseTime int64
}

func NewMiddleware(clientIP func(*http.Request) string) *Middleware {
	return &Middleware{clientIP: clientIP}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := incomingID(r)
		if requestID == "" {
			requestID = GenerateRequestID()
		}
		ctx := WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		m.total.Add(1)
		m.lastLatency.Store(elapsed.Microseconds())

		level := slog.LevelInfo
		switch {
		case rw.status >= 500:
			m.serverErrs.Add(1)
			level = slog.LevelError
		case rw.status >= 400:
			m.clientErrs.Add(1)
			level = slog.LevelWarn
		}

		fields := applog.NewFields().
			WithRequestID(requestID).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()).
			WithHTTPResponse(rw.status, elapsed.Milliseconds())
		if m.clientIP != nil {
			fields = fields.WithClientIP(m.clientIP(r))
		}
		slog.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
	})
}

// incomingID keeps an upstream proxy's ID when it is one of ours.
func incomingID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if len(id) <= len(idPrefix) || id[:len(idPrefix)] != idPrefix {
		return ""
	}
	if _, err := uuid.Parse(id[len(idPrefix):]); err != nil {
		return ""
	}
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID returns "req_" followed by a random UUID.
func GenerateRequestID() string {
	return idPrefix + uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// RequestID extracts the request ID of r; it fits log.Middleware.
func RequestID(r *http.Request) string {
	return requestIDFromContext(r.Context())
}

func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:    m.total.Load(),
		ClientErrors:     m.clientErrs.Load(),
		ServerErrors:     m.serverErrs.Load(),
		LastResponseTime: m.lastLatency.Load(),
	}
}
