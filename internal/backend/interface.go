package backend

import (
	"context"

	"healthlog/internal/records"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is a ready record store plus its optional event publisher.
type BackendResult struct {
	Store records.Store
	// Publisher is nil when AMQP is not configured or unreachable.
	Publisher records.SavedPublisher
	// Ready reports whether the store can serve requests.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory builds the record store selected by Config.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config selects and parameterises a record store.
type Config struct {
	Type BackendType

	SQLiteDBPath string
	// SeedFile is an optional YAML file loaded into the memory store.
	SeedFile string

	// Record saved events are published only when AMQPURL is set.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType names a record store implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	// MemoryBackend loses everything on restart; meant for demos and tests.
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	return bt == SQLiteBackend || bt == MemoryBackend
}
