package worker

import (
	"context"
	"errors"
	"testing"

	"healthlog/internal/amqp"
	"healthlog/internal/core"
	"healthlog/internal/records/memory"
)

type fakeExporter struct {
	calls int
	last  []core.Record
	err   error
}

func (f *fakeExporter) ExportRecords(_ context.Context, recs []core.Record) error {
	f.calls++
	f.last = recs
	return f.err
}

type brokenScanner struct{}

func (brokenScanner) GetAll(context.Context) ([]core.Record, error) {
	return nil, errors.New("disk gone")
}

func TestExportWorker_HandleRecordSaved(t *testing.T) {
	store := memory.New(
		core.Record{Date: "2024-01-01", Weight: core.Float64(70)},
		core.Record{Date: "2024-01-02", TotalCalorie: core.Int64(1800)},
	)
	exp := &fakeExporter{}
	w := NewExportWorker(store, exp)

	if err := w.HandleRecordSaved(context.Background(), amqp.NewRecordSavedMessage("2024-01-02")); err != nil {
		t.Fatalf("HandleRecordSaved() error = %v", err)
	}
	if exp.calls != 1 {
		t.Fatalf("exporter calls = %d, want 1", exp.calls)
	}
	if len(exp.last) != 2 {
		t.Errorf("exported %d records, want 2", len(exp.last))
	}
}

func TestExportWorker_Errors(t *testing.T) {
	tests := []struct {
		name    string
		worker  *ExportWorker
		wantExp int
	}{
		{
			name:    "store failure skips export",
			worker:  NewExportWorker(brokenScanner{}, &fakeExporter{}),
			wantExp: 0,
		},
		{
			name:    "exporter failure is returned",
			worker:  NewExportWorker(memory.New(), &fakeExporter{err: errors.New("quota")}),
			wantExp: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.worker.HandleRecordSaved(context.Background(), amqp.NewRecordSavedMessage("2024-01-01"))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := tt.worker.exporter.(*fakeExporter).calls; got != tt.wantExp {
				t.Errorf("exporter calls = %d, want %d", got, tt.wantExp)
			}
		})
	}
}

func TestExportWorker_StartupExport(t *testing.T) {
	exp := &fakeExporter{}
	w := NewExportWorker(memory.New(), exp)

	if err := w.StartupExport(context.Background()); err != nil {
		t.Fatalf("StartupExport() error = %v", err)
	}
	if exp.calls != 1 || len(exp.last) != 0 {
		t.Errorf("calls = %d, records = %d; want 1 call with 0 records", exp.calls, len(exp.last))
	}
}
