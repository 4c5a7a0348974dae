package cache

import (
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Loader fronts a Cache with a load function. Concurrent misses for the same
// key share a single load. Invalidate drops everything cached so far, and a
// load that started before the invalidation is not stored.
type Loader[T any] struct {
	cache Cache[T]
	group singleflight.Group
	gen   atomic.Uint64
}

func NewLoader[T any](c Cache[T]) *Loader[T] {
	return &Loader[T]{cache: c}
}

// Get returns the cached value for key or calls load to fill it.
func (l *Loader[T]) Get(key string, load func() (T, error)) (T, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	gen := l.gen.Load()
	// Keying the flight by generation keeps callers arriving after an
	// invalidation from joining a stale load.
	v, err, _ := l.group.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := load()
		if err != nil {
			return v, err
		}
		if l.gen.Load() != gen {
			return v, nil
		}
		l.cache.Set(key, v)
		// An Invalidate between the check and the Set bumped gen before
		// purging; undo our Set so the pre-invalidation value never survives.
		if l.gen.Load() != gen {
			l.cache.Delete(key)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every cached entry.
func (l *Loader[T]) Invalidate() {
	l.gen.Add(1)
	l.cache.Purge()
}
