package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"healthlog/internal/core"
	"healthlog/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(health)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	} else {
		checks["storage"] = "ok"
	}

	checks["cache"] = map[string]int{"report_entries": s.reportCache.Size()}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// handleMetrics writes counters and gauges in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	security := s.securityDetector.GetMetrics()
	limits := s.rateLimiter.GetMetrics()
	requests := s.traceMiddleware.GetMetrics()

	lookups := atomic.LoadInt64(&s.appMetrics.reportLookups)
	misses := atomic.LoadInt64(&s.appMetrics.cacheMisses)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	for _, m := range []struct {
		name, kind, help string
		value            any
	}{
		{"http_requests_total", "counter", "HTTP requests served", requests.TotalRequests},
		{"http_client_errors_total", "counter", "Responses with a 4xx status", requests.ClientErrors},
		{"http_server_errors_total", "counter", "Responses with a 5xx status", requests.ServerErrors},
		{"records_saved_total", "counter", "Entries saved through the web UI", atomic.LoadInt64(&s.appMetrics.recordsSaved)},
		{"report_cache_hits_total", "counter", "Range reports served from cache", lookups - misses},
		{"report_cache_misses_total", "counter", "Range reports read from the store", misses},
		{"report_cache_entries", "gauge", "Range reports currently cached", s.reportCache.Size()},
		{"report_cache_evictions_total", "counter", "Range reports evicted for space", s.reportCache.Evictions()},
		{"rate_limit_hits_total", "counter", "Writes rejected by the rate limiter", limits.TotalHits},
		{"rate_limit_clients", "gauge", "Clients tracked by the rate limiter", limits.ClientCount},
		{"suspicious_requests_total", "counter", "Requests rejected as probes", security.SuspiciousRequests},
		{"uptime_seconds", "gauge", "Seconds since the server started", int64(time.Since(s.appMetrics.uptime).Seconds())},
	} {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

// stateFromQuery replays the selections carried in the query string on top
// of the initial state. Invalid selections are ignored by the reducer.
func (s *Server) stateFromQuery(q url.Values) core.AppState {
	state := core.InitialState(s.now(), s.rangeDays)
	if v := q.Get("mode"); v != "" {
		state = core.Update(state, core.ModeSelected{Mode: core.Mode(v)})
	}
	if v := q.Get("date"); v != "" {
		state = core.Update(state, core.DateSelected{Date: v})
	}
	if v := q.Get("metric"); v != "" {
		state = core.Update(state, core.MetricSelected{Metric: core.Metric(v)})
	}
	start, end := q.Get("start"), q.Get("end")
	if start != "" || end != "" {
		if start == "" {
			start = state.Range.Start
		}
		if end == "" {
			end = state.Range.End
		}
		state = core.Update(state, core.RangeSelected{Start: start, End: end})
	}
	return state
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	state := s.stateFromQuery(r.URL.Query())

	rec, found, err := s.records.GetRecord(r.Context(), state.Date)
	if err != nil {
		// The form still works without the prefilled value.
		logger.ErrorContext(r.Context(), "Record lookup failed", log.FieldDate, state.Date, log.FieldError, err)
	}

	report, err := s.getReport(r.Context(), state.Range)
	if err != nil {
		logger.ErrorContext(r.Context(), "Report failed",
			log.NewFields().WithRange(state.Range.Start, state.Range.End).WithError(err).ToSlice()...)
		errorResponse(err).Write(w)
		return
	}

	data := IndexView{
		State:   state,
		Entry:   newEntryView(state, rec, found),
		Records: newRecordsView(report, state.Metric),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		logger.ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err, "template", "index.html")
		http.Error(w, "Could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleRecordsPartial renders the table, summary and diffs for a range.
func (s *Server) handleRecordsPartial(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	rng, err := ParseRangeParams(r.URL.Query(), s.defaultRange())
	if err != nil {
		errorResponse(err).Write(w)
		return
	}
	metric := core.MetricWeight
	if v := r.URL.Query().Get("metric"); v != "" {
		if m, err := core.ParseMetric(v); err == nil {
			metric = m
		}
	}

	report, err := s.getReport(r.Context(), rng)
	if err != nil {
		logger.ErrorContext(r.Context(), "Report failed",
			log.NewFields().WithRange(rng.Start, rng.End).WithError(err).ToSlice()...)
		errorResponse(err).Write(w)
		return
	}
	if s.templates == nil {
		InternalServerError("Templates not loaded").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "records.html", newRecordsView(report, metric)); err != nil {
		logger.ErrorContext(r.Context(), "Template execution error", log.FieldError, err, "template", "records.html")
		InternalServerError("Could not render records").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}

// renderNotice executes notice.html, falling back to the plain message.
func (s *Server) renderNotice(n core.Notice) string {
	if s.templates == nil {
		return template.HTMLEscapeString(n.Message)
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "notice.html", NoticeView{Kind: n.Kind, Message: n.Message}); err != nil {
		s.logger.Error("Template execution error", log.FieldError, err, "template", "notice.html")
		return template.HTMLEscapeString(n.Message)
	}
	return buf.String()
}
