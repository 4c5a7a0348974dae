package http

import (
	"bytes"
	"net/http"

	"healthlog/internal/core"
	"healthlog/internal/export"
	"healthlog/internal/log"
)

// openRange matches every ISO date.
var openRange = core.DateRange{Start: "0000-01-01", End: "9999-12-31"}

// handleExportCSV downloads the records of a range, or of the whole table
// when neither bound is given.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	q := r.URL.Query()

	rng, err := ParseRangeParams(q, openRange)
	if err != nil {
		errorResponse(err).Write(w)
		return
	}

	var recs []core.Record
	if rng == openRange {
		recs, err = s.records.GetAllRecords(r.Context())
	} else {
		recs, err = s.exportRange(r, rng)
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "Export failed",
			log.NewFields().WithRange(rng.Start, rng.End).WithError(err).ToSlice()...)
		errorResponse(err).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, recs); err != nil {
		logger.ErrorContext(r.Context(), "CSV encoding failed", log.FieldError, err)
		InternalServerError("Could not export records").Write(w)
		return
	}

	name := export.FileName("", "")
	if q.Get("start") != "" && q.Get("end") != "" {
		name = export.FileName(rng.Start, rng.End)
	}
	fields := log.NewFields().WithOperation(log.OpExport)
	if rng != openRange {
		fields.WithRange(rng.Start, rng.End)
	}
	logger.InfoContext(r.Context(), "Records exported",
		append(fields.ToSlice(), log.FieldCount, len(recs))...)

	NewHTMXResponse().
		Header("Content-Type", "text/csv; charset=utf-8").
		Header("Content-Disposition", `attachment; filename="`+name+`"`).
		Body(buf.Bytes()).
		Write(w)
}

func (s *Server) exportRange(r *http.Request, rng core.DateRange) ([]core.Record, error) {
	report, err := s.getReport(r.Context(), rng)
	if err != nil {
		return nil, err
	}
	return report.Records, nil
}
