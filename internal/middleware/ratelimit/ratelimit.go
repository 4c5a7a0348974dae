// Package ratelimit caps how often one client may submit entries.
package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter counts requests per client in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	hits    atomic.Int64

	limit   int
	window  time.Duration
	idleTTL time.Duration
	methods map[string]bool
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	start    time.Time
	requests int
}

// Config tunes a Limiter. Zero values fall back to DefaultConfig.
type Config struct {
	// Limit is the number of requests allowed per Window.
	Limit  int
	Window time.Duration
	// IdleTTL is how long an idle client is remembered.
	IdleTTL         time.Duration
	CleanupInterval time.Duration
	// Methods limits which HTTP methods are counted; empty counts all.
	Methods []string
}

// DefaultConfig allows 60 writes a minute per client and leaves reads alone.
func DefaultConfig() Config {
	return Config{
		Limit:           60,
		Window:          time.Minute,
		IdleTTL:         10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		Methods:         []string{http.MethodPost},
	}
}

// NewLimiter starts a limiter and its cleanup goroutine; call Stop to end it.
func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}

	rl := &Limiter{
		clients: make(map[string]*window),
		limit:   cfg.Limit,
		window:  cfg.Window,
		idleTTL: cfg.IdleTTL,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if len(cfg.Methods) > 0 {
		rl.methods = make(map[string]bool, len(cfg.Methods))
		for _, m := range cfg.Methods {
			rl.methods[m] = true
		}
	}
	go rl.cleanupLoop(cfg.CleanupInterval)
	return rl
}

// Allow records one request from client and reports whether it fits the
// current window.
func (rl *Limiter) Allow(client string) bool {
	ok, _ := rl.allow(client)
	return ok
}

// allow also returns how long until the client's window resets.
func (rl *Limiter) allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[client]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[client] = &window{start: now, requests: 1}
		return true, rl.window
	}

	w.requests++
	remaining := rl.window - now.Sub(w.start)
	if w.requests > rl.limit {
		rl.hits.Add(1)
		return false, remaining
	}
	return true, remaining
}

func (rl *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.forgetIdle()
		case <-rl.stop:
			return
		}
	}
}

func (rl *Limiter) forgetIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	for client, w := range rl.clients {
		if w.start.Before(cutoff) {
			delete(rl.clients, client)
		}
	}
}

func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *Limiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

type Metrics struct {
	TotalHits   int64
	ClientCount int64
}

func (rl *Limiter) GetMetrics() Metrics {
	return Metrics{
		TotalHits:   rl.hits.Load(),
		ClientCount: int64(rl.ActiveClients()),
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. onLimit, when set, writes the body instead of the plain text default.
func (rl *Limiter) Middleware(clientOf func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.methods != nil && !rl.methods[r.Method] {
				next.ServeHTTP(w, r)
				return
			}

			client := clientOf(r)
			ok, retry := rl.allow(client)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", client, "method", r.Method, "path", r.URL.Path)
			secs := int((retry + time.Second - 1) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			if onLimit != nil {
				onLimit(w, r)
				return
			}
			http.Error(w, "Too many requests, try again later.", http.StatusTooManyRequests)
		})
	}
}
