package ratelimit

import "sync"

// Factory constructs a fresh pair of (read, write) Limiters for a
// table, letting callers plug in an alternative Limiter implementation
//.
type Factory func(readUnitsPerSecond, writeUnitsPerSecond, percent float64) (read, write Limiter)

// DefaultFactory builds the TokenBucket default implementation.
func DefaultFactory(readUnitsPerSecond, writeUnitsPerSecond, percent float64) (read, write Limiter) {
	return NewTokenBucket(readUnitsPerSecond, percent), NewTokenBucket(writeUnitsPerSecond, percent)
}

type tableKey struct {
	compartment string
	tableName string
}

type entry struct {
	read, write Limiter
}

// Registry is the global rate-limiter registry keyed by
// (compartment, table_name): entries are created on first observation
// of a table's limits and updated on every subsequent table
// description. Rate-limiter maps are guarded per-entry at the
// individual Limiter level; the registry's own map access is guarded
// by a single mutex.
type Registry struct {
	mu sync.Mutex
	entries map[tableKey]*entry
	factory Factory
	percent float64
}

// NewRegistry builds an empty registry using factory (DefaultFactory
// if nil) and the given percent scaling applied to every table's
// published limits.
func NewRegistry(factory Factory, percent float64) *Registry {
	if factory == nil {
		factory = DefaultFactory
	}
	if percent <= 0 {
		percent = 100
	}
	return &Registry{
		entries: make(map[tableKey]*entry),
		factory: factory,
		percent: percent,
	}
}

// Observe records a table's published (read, write) units-per-second,
// creating the entry on first observation and calling UpdateLimit on
// subsequent ones.
func (r *Registry) Observe(compartment, tableName string, readUnitsPerSecond, writeUnitsPerSecond float64) {
	key := tableKey{compartment: compartment, tableName: tableName}

	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		read, write := r.factory(readUnitsPerSecond, writeUnitsPerSecond, r.percent)
		e = &entry{read: read, write: write}
		r.entries[key] = e
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	e.read.UpdateLimit(readUnitsPerSecond)
	e.write.UpdateLimit(writeUnitsPerSecond)
}

// Limiters returns the (read, write) limiter pair for a table, or
// (nil, nil) if no table description has been observed yet — callers
// should treat that as "rate limiting not yet applicable."
func (r *Registry) Limiters(compartment, tableName string) (read, write Limiter) {
	key := tableKey{compartment: compartment, tableName: tableName}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, nil
	}
	return e.read, e.write
}
