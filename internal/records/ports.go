package records

import (
	"context"

	"healthlog/internal/core"
)

// Ports for outbound adapters.
type (
	// Getter performs a point lookup by date. found is false when no record exists.
	Getter interface {
		Get(ctx context.Context, date string) (rec core.Record, found bool, err error)
	}

	// Putter writes a record, replacing any record with the same date.
	Putter interface {
		Put(ctx context.Context, rec core.Record) error
	}

	// Scanner returns an unordered snapshot of the whole table.
	Scanner interface {
		GetAll(ctx context.Context) ([]core.Record, error)
	}

	// Store is the key-value persistence boundary keyed by date.
	Store interface {
		Getter
		Putter
		Scanner
	}

	// Exporter mirrors the full table to an external destination.
	Exporter interface {
		ExportRecords(ctx context.Context, recs []core.Record) error
	}

	// SavedPublisher announces that the record for a date changed.
	SavedPublisher interface {
		PublishRecordSaved(ctx context.Context, date string) error
	}
)
