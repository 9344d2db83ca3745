// Package snapcache caches precomputed snapshots of application data for
// display surfaces that run in their own constrained, externally-scheduled
// process (a home-screen widget). It serves data with bounded latency even
// when the backing store is slow or unreachable: a fresh TTL-bounded store
// is shadowed by a stale copy kept past expiry, so the fetch path can
// always degrade to something renderable.
//
// Each value type gets its own Cache instance, so logically different
// snapshot types never collide on a key namespace.
package snapcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/snapcache/pkg/report"
)

// Invalidator coordinates global cache invalidation across processes that
// share no memory, through a durable monotonic timestamp. Implemented by
// invalidation.Channel; uses only standard library types so implementations
// need not import this package.
type Invalidator interface {
	// MarkInvalidated advances the marker to the current time.
	MarkInvalidated(ctx context.Context) error

	// LastInvalidated returns the marker, or the zero time if never set.
	LastInvalidated(ctx context.Context) (time.Time, error)
}

// entry is one cached snapshot. Entries are created on a successful fetch,
// overwritten by a newer fetch for the same key, and never mutated in place.
type entry[V any] struct {
	value      V
	insertedAt time.Time
	expiresAt  time.Time // zero means no expiry
}

// Cache is a typed, TTL-bounded snapshot store with a parallel stale
// shadow. Fresh entries expire by TTL, are evicted oldest-first beyond
// capacity, and are lazily discarded when the invalidation marker is newer
// than their insertion time. The stale shadow survives all of that and is
// cleared only by Reset.
type Cache[V any] struct {
	mu          sync.RWMutex
	fresh       map[string]entry[V]
	stale       map[string]entry[V]
	localMarker time.Time

	capacity   int
	defaultTTL time.Duration
	inv        Invalidator
	reporter   *report.Reporter
	logger     *slog.Logger
}

// New creates a cache for one snapshot value type.
//
// Example:
//
//	cache := snapcache.New[[]notestore.Note](
//	    snapcache.WithTTL(5*time.Minute),
//	    snapcache.WithInvalidator(channel),
//	)
func New[V any](opts ...Option) *Cache[V] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Cache[V]{
		fresh:      make(map[string]entry[V]),
		stale:      make(map[string]entry[V]),
		capacity:   cfg.capacity,
		defaultTTL: cfg.defaultTTL,
		inv:        cfg.inv,
		reporter:   cfg.reporter,
		logger:     cfg.logger,
	}
}

// Get returns the fresh entry for key, if one exists, is within its TTL,
// and has not been globally invalidated since it was inserted. Absence is
// a normal outcome, never an error.
//
// An unreadable invalidation marker fails open: the entry is served as-is
// and the failure is reported (rate-limited).
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.fresh[key]
	marker := c.localMarker
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return zero, false
	}
	if marker.After(e.insertedAt) {
		return zero, false
	}

	if c.inv != nil {
		durable, err := c.inv.LastInvalidated(ctx)
		switch {
		case err != nil:
			c.reporter.Report(
				report.Fingerprint{Domain: "cache", Code: "shared_storage_unavailable"},
				"invalidation marker unreadable, serving cache as-is",
				slog.String("key", key), slog.String("error", err.Error()))
		case durable.After(e.insertedAt):
			return zero, false
		}
	}

	return e.value, true
}

// GetStale returns the most recent value ever stored for key, regardless
// of age or global invalidation. Misses only if no value was ever stored.
func (c *Cache[V]) GetStale(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.stale[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set writes both the fresh entry and its stale shadow. If no TTL is
// provided, the cache default is used; a non-positive default means no
// expiry. Capacity is enforced after every write by evicting the
// oldest-inserted fresh entries; their stale shadows are retained.
func (c *Cache[V]) Set(key string, value V, ttl ...time.Duration) {
	var t time.Duration
	if len(ttl) > 0 {
		t = ttl[0]
	}
	if t <= 0 {
		t = c.defaultTTL
	}

	now := time.Now()
	e := entry[V]{value: value, insertedAt: now}
	if t > 0 {
		e.expiresAt = now.Add(t)
	}

	c.mu.Lock()
	c.fresh[key] = e
	c.stale[key] = e
	for len(c.fresh) > c.capacity {
		c.evictOldestLocked()
	}
	c.mu.Unlock()
}

// evictOldestLocked removes the single fresh entry with the oldest
// insertedAt. Insertion-order eviction, not LRU: widget caches hold few
// keys with short TTLs, so recency of insertion is an adequate proxy.
func (c *Cache[V]) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range c.fresh {
		if first || e.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.insertedAt
			first = false
		}
	}
	if !first {
		delete(c.fresh, oldestKey)
		c.logger.Debug("evicted oldest fresh entry", "key", oldestKey, "inserted_at", oldestAt)
	}
}

// InvalidateAll advances the invalidation marker to now. Entries are not
// physically deleted; Get discards them lazily on the next read. A write
// after invalidation is valid and fresh again.
func (c *Cache[V]) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	c.localMarker = time.Now()
	c.mu.Unlock()

	if c.inv != nil {
		if err := c.inv.MarkInvalidated(ctx); err != nil {
			return fmt.Errorf("advance invalidation marker: %w", err)
		}
	}
	return nil
}

// ClearFresh physically removes all fresh entries, leaving stale shadows
// untouched. Used after processing an external invalidation signal.
func (c *Cache[V]) ClearFresh() {
	c.mu.Lock()
	c.fresh = make(map[string]entry[V])
	c.mu.Unlock()
}

// Reset removes everything, including stale shadows. This is the only
// operation that clears the stale shadow.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	c.fresh = make(map[string]entry[V])
	c.stale = make(map[string]entry[V])
	c.mu.Unlock()
}

// Len returns the number of fresh entries, including ones a Get would
// discard as expired or invalidated.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fresh)
}

// StaleLen returns the number of stale shadow entries.
func (c *Cache[V]) StaleLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stale)
}
