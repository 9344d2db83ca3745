// Package sharedstore provides a durable scalar key/value store shared by
// every process cooperating on one device: the main application writes the
// invalidation marker and power telemetry, widget processes read them.
//
// The interface uses only standard library types, so implementations can
// satisfy it without importing this package.
package sharedstore

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the shared storage could not be read or written.
// Readers of best-effort values (the invalidation marker) should fail open
// on this error rather than discard a usable cache.
var ErrUnavailable = errors.New("shared storage unavailable")

// Store is a scalar key/value store durable across process restarts.
// Writes are single-writer per key (the main process); reads may come from
// any number of short-lived widget processes concurrently.
type Store interface {
	// Get retrieves a scalar value. Absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes a scalar value, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Close releases resources held by the store.
	Close() error
}
