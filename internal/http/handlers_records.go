package http

import (
	"bytes"
	"context"
	"net/http"

	"healthlog/internal/core"
	"healthlog/internal/log"
	"healthlog/internal/render"
)

// handleSaveEntry stores the morning weight or the night calorie total for a
// date. The other field of the record is preserved.
func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(r.Context(), "Parse body error", log.FieldError, err, log.FieldPath, r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	state := core.InitialState(s.now(), s.rangeDays)
	p := ParseEntryParams(parser.Get, state.Today)
	if p.Mode == "" {
		p.Mode = state.Mode
	}
	if p.Mode != core.ModeMorning && p.Mode != core.ModeNight {
		BadRequestError("Unknown entry mode").Write(w)
		return
	}
	state = core.Update(state, core.ModeSelected{Mode: p.Mode})

	rec, err := s.saveEntry(r.Context(), p)
	if err != nil {
		state = core.Update(state, core.EntryFailed{Err: err})
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(r.Context(), "Entry save failed", log.FieldDate, p.Date, log.FieldError, err)
		} else {
			logger.InfoContext(r.Context(), "Entry rejected", log.FieldDate, p.Date, log.FieldError, err)
		}
		if parser.IsJSON() {
			NewHTMXResponse().Status(status).BodyJSON(map[string]string{"error": msg}).Write(w)
			return
		}
		NewHTMXResponse().
			Status(status).
			TriggerNotice(state.Notice).
			BodyHTML(s.renderNotice(state.Notice)).
			Write(w)
		return
	}

	s.invalidateReports()
	atomicAdd(&s.appMetrics.recordsSaved)
	state = core.Update(state, core.EntrySaved{Record: rec})

	logger.InfoContext(r.Context(), "Entry saved",
		log.NewFields().WithRecord(rec.Date, rec.Weight, rec.TotalCalorie).ToSlice()...)

	if parser.IsJSON() {
		NewHTMXResponse().BodyJSON(rec).Write(w)
		return
	}
	NewHTMXResponse().
		TriggerRecordSaved(rec.Date, p.Mode).
		TriggerNotice(state.Notice).
		TriggerFormReset().
		BodyHTML(s.renderNotice(state.Notice)).
		Write(w)
}

// saveEntry parses the value for the entry mode and saves it.
func (s *Server) saveEntry(ctx context.Context, p EntryParams) (core.Record, error) {
	if p.Mode == core.ModeNight {
		c, err := core.ParseCalorie(p.Value)
		if err != nil {
			return core.Record{}, err
		}
		return s.records.SaveCalorie(ctx, p.Date, c)
	}
	wt, err := core.ParseWeight(p.Value)
	if err != nil {
		return core.Record{}, err
	}
	return s.records.SaveWeight(ctx, p.Date, wt)
}

// handleGetRecord returns the record stored for one date as JSON.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if err := core.ValidateDate(date); err != nil {
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			BodyJSON(map[string]string{"error": err.Error()}).
			Write(w)
		return
	}

	rec, found, err := s.records.GetRecord(r.Context(), date)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Record lookup failed", log.FieldDate, date, log.FieldError, err)
		status, msg := errorStatus(err)
		NewHTMXResponse().Status(status).BodyJSON(map[string]string{"error": msg}).Write(w)
		return
	}
	if !found {
		NewHTMXResponse().
			Status(http.StatusNotFound).
			BodyJSON(map[string]string{"error": "no record for " + date}).
			Write(w)
		return
	}
	NewHTMXResponse().BodyJSON(rec).Write(w)
}

// handleSeries returns chart data for one metric over a range.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric := core.MetricWeight
	if v := q.Get("metric"); v != "" {
		m, err := core.ParseMetric(v)
		if err != nil {
			NewHTMXResponse().
				Status(http.StatusBadRequest).
				BodyJSON(map[string]string{"error": err.Error()}).
				Write(w)
			return
		}
		metric = m
	}

	rng, err := ParseRangeParams(q, s.defaultRange())
	if err != nil {
		status, msg := errorStatus(err)
		NewHTMXResponse().Status(status).BodyJSON(map[string]string{"error": msg}).Write(w)
		return
	}

	report, err := s.getReport(r.Context(), rng)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Report failed",
			log.NewFields().WithRange(rng.Start, rng.End).WithError(err).ToSlice()...)
		status, msg := errorStatus(err)
		NewHTMXResponse().Status(status).BodyJSON(map[string]string{"error": msg}).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, render.JSONRenderer{}, core.BuildSeries(report.Records, metric)); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Series render failed", log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			BodyJSON(map[string]string{"error": "Could not render series"}).
			Write(w)
		return
	}
	NewHTMXResponse().
		Header("Content-Type", "application/json").
		Header("Cache-Control", "no-store").
		Body(buf.Bytes()).
		Write(w)
}
