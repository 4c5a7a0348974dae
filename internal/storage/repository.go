package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"healthlog/internal/core"
	"healthlog/internal/records"

	_ "modernc.org/sqlite"
)

var _ records.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite records store ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Get implements records.Getter
func (r *SQLiteRepository) Get(ctx context.Context, date string) (core.Record, bool, error) {
	row, err := r.queries.GetRecord(ctx, date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, false, nil
	}
	if err != nil {
		return core.Record{}, false, fmt.Errorf("get record %s: %w", date, err)
	}
	return fromRow(row), true, nil
}

// Put implements records.Putter
func (r *SQLiteRepository) Put(ctx context.Context, rec core.Record) error {
	params := UpsertRecordParams{Date: rec.Date}
	if rec.Weight != nil {
		params.Weight = sql.NullFloat64{Float64: *rec.Weight, Valid: true}
	}
	if rec.TotalCalorie != nil {
		params.TotalCalorie = sql.NullInt64{Int64: *rec.TotalCalorie, Valid: true}
	}
	if err := r.queries.UpsertRecord(ctx, params); err != nil {
		return fmt.Errorf("upsert record %s: %w", rec.Date, err)
	}

	slog.DebugContext(ctx, "Record saved to SQLite",
		"date", rec.Date,
		"has_weight", rec.Weight != nil,
		"has_total_calorie", rec.TotalCalorie != nil)
	return nil
}

// GetAll implements records.Scanner
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]core.Record, error) {
	rows, err := r.queries.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]core.Record, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out, nil
}

// Count returns the number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func fromRow(row Row) core.Record {
	rec := core.Record{Date: row.Date}
	if row.Weight.Valid {
		rec.Weight = core.Float64(row.Weight.Float64)
	}
	if row.TotalCalorie.Valid {
		rec.TotalCalorie = core.Int64(row.TotalCalorie.Int64)
	}
	return rec
}
