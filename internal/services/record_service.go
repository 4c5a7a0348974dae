package services

import (
	"context"
	"log/slog"

	"healthlog/internal/core"
	"healthlog/internal/records"
)

// RecordService exposes point lookup, upsert and scan over a record store,
// plus the range, summary and diff views built on top of them.
type RecordService struct {
	store     records.Store
	publisher records.SavedPublisher
}

func NewRecordService(store records.Store, publisher records.SavedPublisher) *RecordService {
	return &RecordService{
		store:     store,
		publisher: publisher,
	}
}

// GetRecord returns the record for date; found is false when there is none.
func (s *RecordService) GetRecord(ctx context.Context, date string) (core.Record, bool, error) {
	rec, found, err := s.store.Get(ctx, date)
	if err != nil {
		return core.Record{}, false, storageErr("get", err)
	}
	return rec, found, nil
}

// UpsertRecord writes rec, replacing any record with the same date. It
// neither validates nor merges; callers merge with core.MergeRecord first.
func (s *RecordService) UpsertRecord(ctx context.Context, rec core.Record) error {
	if err := s.store.Put(ctx, rec); err != nil {
		return storageErr("put", err)
	}
	s.publishSaved(ctx, rec.Date)
	return nil
}

// GetAllRecords returns an unordered snapshot of the whole table.
func (s *RecordService) GetAllRecords(ctx context.Context) ([]core.Record, error) {
	recs, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, storageErr("get all", err)
	}
	return recs, nil
}

// SaveWeight records the morning weight for date, keeping any calorie value
// already stored for it. The read and the write are separate operations, so
// two overlapping saves for the same date may lose one update.
func (s *RecordService) SaveWeight(ctx context.Context, date string, weight float64) (core.Record, error) {
	if err := core.ValidateDate(date); err != nil {
		return core.Record{}, err
	}
	if err := core.ValidateWeight(weight); err != nil {
		return core.Record{}, err
	}
	return s.save(ctx, core.Record{Date: date, Weight: core.Float64(weight)})
}

// SaveCalorie records the night total calorie for date, keeping any weight
// already stored for it. Same race caveat as SaveWeight.
func (s *RecordService) SaveCalorie(ctx context.Context, date string, calorie int64) (core.Record, error) {
	if err := core.ValidateDate(date); err != nil {
		return core.Record{}, err
	}
	if err := core.ValidateCalorie(calorie); err != nil {
		return core.Record{}, err
	}
	return s.save(ctx, core.Record{Date: date, TotalCalorie: core.Int64(calorie)})
}

func (s *RecordService) save(ctx context.Context, next core.Record) (core.Record, error) {
	prev, found, err := s.GetRecord(ctx, next.Date)
	if err != nil {
		return core.Record{}, err
	}
	var base *core.Record
	if found {
		base = &prev
	}
	merged := core.MergeRecord(base, next)
	if err := s.UpsertRecord(ctx, merged); err != nil {
		return core.Record{}, err
	}

	slog.InfoContext(ctx, "Record saved",
		"date", merged.Date,
		"created", !found,
		"has_weight", merged.Weight != nil,
		"has_total_calorie", merged.TotalCalorie != nil)
	return merged, nil
}

// QueryRange returns the records inside [start, end], ascending by date.
func (s *RecordService) QueryRange(ctx context.Context, start, end string) ([]core.Record, error) {
	all, err := s.GetAllRecords(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterRange(all, start, end), nil
}

// RangeReport bundles the views of one date window.
type RangeReport struct {
	Range   core.DateRange
	Records []core.Record
	Summary core.Summary
	Diffs   []core.DiffRow
}

// Report computes the range, its summary and its day-over-day diffs.
func (s *RecordService) Report(ctx context.Context, start, end string) (RangeReport, error) {
	recs, err := s.QueryRange(ctx, start, end)
	if err != nil {
		return RangeReport{}, err
	}
	return BuildReport(core.DateRange{Start: start, End: end}, recs), nil
}

// BuildReport derives a report from an already filtered, sorted sequence.
func BuildReport(rng core.DateRange, recs []core.Record) RangeReport {
	return RangeReport{
		Range:   rng,
		Records: recs,
		Summary: core.Summarize(recs),
		Diffs:   core.Diffs(recs),
	}
}

// Import upserts every record as given, without merging. Weights are rounded
// to one decimal first.
func (s *RecordService) Import(ctx context.Context, recs []core.Record) (int, error) {
	for i, r := range recs {
		norm, err := r.Normalized()
		if err != nil {
			return i, err
		}
		if err := s.UpsertRecord(ctx, norm); err != nil {
			return i, err
		}
	}
	return len(recs), nil
}

func (s *RecordService) publishSaved(ctx context.Context, date string) {
	if s.publisher == nil {
		return
	}
	// The record is stored locally; a failed notification only delays the export.
	if err := s.publisher.PublishRecordSaved(ctx, date); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record saved message", "date", date, "error", err)
	}
}
