package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Row is the records table row.
type Row struct {
	Date         string
	Weight       sql.NullFloat64
	TotalCalorie sql.NullInt64
}

const getRecord = `SELECT date, weight, total_calorie FROM records WHERE date = ?`

func (q *Queries) GetRecord(ctx context.Context, date string) (Row, error) {
	row := q.db.QueryRowContext(ctx, getRecord, date)
	var r Row
	err := row.Scan(&r.Date, &r.Weight, &r.TotalCalorie)
	return r, err
}

const upsertRecord = `INSERT INTO records (date, weight, total_calorie, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(date) DO UPDATE SET
    weight = excluded.weight,
    total_calorie = excluded.total_calorie,
    updated_at = CURRENT_TIMESTAMP`

type UpsertRecordParams struct {
	Date         string
	Weight       sql.NullFloat64
	TotalCalorie sql.NullInt64
}

func (q *Queries) UpsertRecord(ctx context.Context, arg UpsertRecordParams) error {
	_, err := q.db.ExecContext(ctx, upsertRecord, arg.Date, arg.Weight, arg.TotalCalorie)
	return err
}

const listRecords = `SELECT date, weight, total_calorie FROM records`

func (q *Queries) ListRecords(ctx context.Context) ([]Row, error) {
	rows, err := q.db.QueryContext(ctx, listRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Date, &r.Weight, &r.TotalCalorie); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRecords = `SELECT COUNT(*) FROM records`

func (q *Queries) CountRecords(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRecords)
	var n int64
	err := row.Scan(&n)
	return n, err
}
