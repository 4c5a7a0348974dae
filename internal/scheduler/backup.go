package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"healthlog/internal/core"
	"healthlog/internal/export"
	"healthlog/internal/records"
)

// Backup writes a full CSV snapshot of the record table into Dir.
type Backup struct {
	Source records.Scanner
	Dir    string
	Now    func() time.Time
}

// BackupFileName is the snapshot name for the given day.
func BackupFileName(day time.Time) string {
	return "healthlog-" + core.FormatDate(day) + ".csv"
}

// Run writes today's snapshot, replacing an earlier one from the same day.
// The file is written to a temporary name first so a partial backup never
// shadows a complete one.
func (b *Backup) Run(ctx context.Context) error {
	recs, err := b.Source.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	path := filepath.Join(b.Dir, BackupFileName(now()))

	tmp, err := os.CreateTemp(b.Dir, ".healthlog-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteCSV(tmp, recs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move backup into place: %w", err)
	}

	slog.InfoContext(ctx, "Backup written", "path", path, "count", len(recs))
	return nil
}
