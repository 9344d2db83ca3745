// Package invalidation propagates "data changed" signals across process
// boundaries through a single durable scalar: a monotonic timestamp.
//
// The main application and its widget processes share no memory, so the
// only coordination primitive available is a shared durable value. The main
// process advances the marker after data-changing operations; any
// cache-holding process compares the marker against its newest entry and
// treats its fresh cache as empty when the marker is newer.
package invalidation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/snapcache/pkg/sharedstore"
)

// DefaultKey is the well-known shared-store key for the marker.
const DefaultKey = "snapshot_invalidated_at"

// Channel reads and writes the invalidation marker.
type Channel struct {
	store sharedstore.Store
	key   string
}

// Option configures a Channel.
type Option func(*Channel)

// WithKey overrides the shared-store key used for the marker.
func WithKey(key string) Option {
	return func(c *Channel) {
		c.key = key
	}
}

// New creates a Channel over the given shared store.
func New(store sharedstore.Store, opts ...Option) *Channel {
	c := &Channel{store: store, key: DefaultKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MarkInvalidated advances the marker to the current time. Called from the
// main process after underlying data changes materially.
func (c *Channel) MarkInvalidated(ctx context.Context) error {
	now := time.Now().UnixNano()
	if err := c.store.Set(ctx, c.key, strconv.FormatInt(now, 10)); err != nil {
		return fmt.Errorf("write invalidation marker: %w", err)
	}
	return nil
}

// LastInvalidated returns the marker value, or the zero time if it has
// never been set. Storage errors are returned so the caller can decide to
// fail open.
func (c *Channel) LastInvalidated(ctx context.Context) (time.Time, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return time.Time{}, fmt.Errorf("read invalidation marker: %w", err)
	}
	if !ok {
		return time.Time{}, nil
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed invalidation marker %q: %w", raw, err)
	}
	return time.Unix(0, nanos), nil
}

// InvalidatedSince reports whether the marker is strictly newer than t.
func (c *Channel) InvalidatedSince(ctx context.Context, t time.Time) (bool, error) {
	marker, err := c.LastInvalidated(ctx)
	if err != nil {
		return false, err
	}
	return marker.After(t), nil
}
