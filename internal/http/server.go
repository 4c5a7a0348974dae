package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"healthlog/internal/cache"
	"healthlog/internal/core"
	applog "healthlog/internal/log"
	"healthlog/internal/middleware/ratelimit"
	"healthlog/internal/middleware/security"
	"healthlog/internal/middleware/trace"
	"healthlog/internal/services"
	appweb "healthlog/web"
)

// Records is the part of the record service the HTTP layer depends on.
type Records interface {
	GetRecord(ctx context.Context, date string) (core.Record, bool, error)
	GetAllRecords(ctx context.Context) ([]core.Record, error)
	SaveWeight(ctx context.Context, date string, weight float64) (core.Record, error)
	SaveCalorie(ctx context.Context, date string, calorie int64) (core.Record, error)
	Report(ctx context.Context, start, end string) (services.RangeReport, error)
}

var _ Records = (*services.RecordService)(nil)

// Options tunes the server. Zero values fall back to sensible defaults.
type Options struct {
	RangeDays int
	CacheSize int
	CacheTTL  time.Duration
	// Ready reports whether the backing store is reachable.
	Ready  func(ctx context.Context) error
	Now    func() time.Time
	Logger *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	records   Records
	logger    *applog.Logger
	now       func() time.Time
	rangeDays int
	ready     func(ctx context.Context) error

	reportCache  *cache.LRUCache[services.RangeReport]
	reports      *cache.Loader[services.RangeReport]
	cacheManager *cache.Manager

	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	rateLimiter      *ratelimit.Limiter

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	recordsSaved  int64
	reportLookups int64
	cacheMisses   int64
	uptime        time.Time
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, records Records, opts Options) *Server {
	if opts.RangeDays < 1 {
		opts.RangeDays = 30
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}

	mux := http.NewServeMux()

	s := &Server{
		records:          records,
		logger:           opts.Logger,
		now:              opts.Now,
		rangeDays:        opts.RangeDays,
		ready:            opts.Ready,
		reportCache:      cache.NewLRUCache[services.RangeReport](opts.CacheSize, opts.CacheTTL),
		cacheManager:     cache.NewManager(),
		securityDetector: security.NewDetector(),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}
	s.reports = cache.NewLoader[services.RangeReport](s.reportCache)
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP)

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /records", s.handleSaveEntry)
	mux.HandleFunc("GET /api/records/{date}", s.handleGetRecord)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	// UI partials
	mux.HandleFunc("GET /ui/records", s.handleRecordsPartial)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		NewHTMXResponse().
			Status(http.StatusTooManyRequests).
			TriggerNotice(core.Notice{Kind: core.NoticeFailure, Message: "Too many entries, try again shortly"}).
			BodyHTML(`<div class="notice-failure" role="alert">Too many entries, try again shortly</div>`).
			Write(w)
	})
	requestLogger := applog.Middleware(s.logger, trace.RequestID, s.securityDetector.ExtractClientIP)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = requestLogger(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = s.securityDetector.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	// Ensure shutdown logic runs only once
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// defaultRange is the window of rangeDays days ending today.
func (s *Server) defaultRange() core.DateRange {
	return core.InitialState(s.now(), s.rangeDays).Range
}

// getReport returns the report for rng, served from the cache when possible.
func (s *Server) getReport(ctx context.Context, rng core.DateRange) (services.RangeReport, error) {
	atomicAdd(&s.appMetrics.reportLookups)
	return s.reports.Get(rng.Start+"|"+rng.End, func() (services.RangeReport, error) {
		atomicAdd(&s.appMetrics.cacheMisses)
		slog.DebugContext(ctx, "Report cache miss", applog.NewFields().WithRange(rng.Start, rng.End).ToSlice()...)
		return s.records.Report(ctx, rng.Start, rng.End)
	})
}

// invalidateReports drops cached reports after a write.
func (s *Server) invalidateReports() {
	s.reports.Invalidate()
}
