package worker

import (
	"context"
	"fmt"
	"log/slog"

	"healthlog/internal/amqp"
	"healthlog/internal/records"
)

// ExportWorker mirrors the record table to an external destination whenever
// a record saved message arrives. The local store stays the source of truth;
// every export rewrites the destination from a fresh snapshot.
type ExportWorker struct {
	store    records.Scanner
	exporter records.Exporter
}

func NewExportWorker(store records.Scanner, exporter records.Exporter) *ExportWorker {
	return &ExportWorker{
		store:    store,
		exporter: exporter,
	}
}

// HandleRecordSaved processes a single record saved message from AMQP.
func (w *ExportWorker) HandleRecordSaved(ctx context.Context, msg *amqp.RecordSavedMessage) error {
	slog.InfoContext(ctx, "Processing record saved message",
		"date", msg.Date,
		"timestamp", msg.Timestamp)

	n, err := w.export(ctx)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Exported records",
		"date", msg.Date,
		"count", n)
	return nil
}

// StartupExport rewrites the destination once at worker startup, covering
// saves made while the worker was down.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	n, err := w.export(ctx)
	if err != nil {
		return fmt.Errorf("startup export: %w", err)
	}
	slog.InfoContext(ctx, "Startup export completed", "count", n)
	return nil
}

func (w *ExportWorker) export(ctx context.Context) (int, error) {
	recs, err := w.store.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read records: %w", err)
	}
	if err := w.exporter.ExportRecords(ctx, recs); err != nil {
		return 0, fmt.Errorf("export records: %w", err)
	}
	return len(recs), nil
}
