package memory

import (
	"context"
	"log/slog"
	"sync"

	"healthlog/internal/core"
	"healthlog/internal/records"
)

var _ records.Store = (*Store)(nil)

// Store keeps records in a map keyed by date. Each operation holds the lock
// for its whole duration, so single reads and writes are atomic.
type Store struct {
	mu    sync.Mutex
	items map[string]core.Record
}

func New(seed ...core.Record) *Store {
	s := &Store{items: make(map[string]core.Record, len(seed))}
	for _, r := range seed {
		s.items[r.Date] = r.Clone()
	}
	return s
}

// NewFromFile seeds the store from a YAML file. A missing or invalid file
// leaves the store empty.
func NewFromFile(path string) *Store {
	recs, err := records.LoadSeedFile(path)
	if err != nil {
		slog.Warn("Ignoring seed file", "path", path, "error", err)
		return New()
	}
	return New(recs...)
}

// Get returns a copy of the record stored for date.
func (s *Store) Get(_ context.Context, date string) (core.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[date]
	if !ok {
		return core.Record{}, false, nil
	}
	return r.Clone(), true, nil
}

// Put replaces the record for rec.Date.
func (s *Store) Put(_ context.Context, rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Date] = rec.Clone()
	return nil
}

// GetAll returns every record in no particular order.
func (s *Store) GetAll(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
