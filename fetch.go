package snapcache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/codeGROOVE-dev/snapcache/pkg/report"
)

// FetchFunc performs the possibly-slow, possibly-failing call into the
// backing store. It must respect ctx cancellation.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Fetcher orchestrates the fallback ladder around a Cache: fresh hit →
// backing-store fetch → stale shadow → last-resort default. Fetch never
// fails: display surfaces must always receive some renderable value.
//
// Concurrent fetches for the same key with no fresh entry share one
// outstanding backing-store call.
type Fetcher[V any] struct {
	cache    *Cache[V]
	group    singleflight.Group
	reporter *report.Reporter
	logger   *slog.Logger
	timeout  time.Duration
	domain   string
}

// NewFetcher creates a Fetcher over an existing cache. The reporter and
// logger default to the cache's own unless overridden.
func NewFetcher[V any](cache *Cache[V], opts ...Option) *Fetcher[V] {
	cfg := defaultConfig()
	cfg.reporter = cache.reporter
	cfg.logger = cache.logger
	for _, opt := range opts {
		opt(cfg)
	}

	return &Fetcher[V]{
		cache:    cache,
		reporter: cfg.reporter,
		logger:   cfg.logger,
		timeout:  cfg.fetchTimeout,
		domain:   cfg.domain,
	}
}

// Fetch returns a snapshot for key, degrading through the fallback ladder
// on failure. On a fresh cache hit no I/O happens. On a miss, fn is
// invoked (deduplicated across concurrent callers for the same key) and a
// success populates both the fresh entry and the stale shadow. On failure
// the error is classified and reported, then the stale shadow is served if
// one exists; otherwise fallback is returned.
func (f *Fetcher[V]) Fetch(ctx context.Context, key string, fn FetchFunc[V], fallback V, ttl ...time.Duration) V {
	if v, ok := f.cache.Get(ctx, key); ok {
		return v
	}

	v, err, shared := f.group.Do(key, func() (any, error) {
		fctx := ctx
		if f.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, f.timeout)
			defer cancel()
		}

		val, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, val, ttl...)
		return val, nil
	})
	if err == nil {
		if shared {
			f.logger.Debug("joined in-flight fetch", "key", key)
		}
		return v.(V) //nolint:forcetypeassert // group.Do only ever stores V
	}

	f.reporter.Report(Classify(f.domain, err), "snapshot fetch failed",
		slog.String("key", key), slog.String("error", err.Error()))

	if sv, ok := f.cache.GetStale(key); ok {
		f.logger.Warn("serving stale snapshot after fetch failure", "key", key)
		return sv
	}

	f.logger.Warn("no stale snapshot available, serving fallback", "key", key)
	return fallback
}

// Invalidate handles the main process's refresh request after a
// data-changing operation: advance the cross-process marker, then drop the
// local fresh entries so the next Fetch goes to the backing store. Other
// processes notice the marker lazily on their next read.
func (f *Fetcher[V]) Invalidate(ctx context.Context) error {
	if err := f.cache.InvalidateAll(ctx); err != nil {
		return err
	}
	f.cache.ClearFresh()
	return nil
}

// Cache returns the underlying cache, for diagnostics.
func (f *Fetcher[V]) Cache() *Cache[V] {
	return f.cache
}
