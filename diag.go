package snapcache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// StatusSummary returns a one-line operational summary: entry counts,
// oldest and newest fresh-entry ages, and whether the whole fresh cache is
// currently invalidated. Read-only, not used in the hot path.
func (c *Cache[V]) StatusSummary(ctx context.Context) string {
	c.mu.RLock()
	freshCount := len(c.fresh)
	staleCount := len(c.stale)
	var oldest, newest time.Time
	for _, e := range c.fresh {
		if oldest.IsZero() || e.insertedAt.Before(oldest) {
			oldest = e.insertedAt
		}
		if e.insertedAt.After(newest) {
			newest = e.insertedAt
		}
	}
	c.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "fresh=%d stale=%d", freshCount, staleCount)
	now := time.Now()
	if !oldest.IsZero() {
		fmt.Fprintf(&b, " oldest_age=%s newest_age=%s",
			now.Sub(oldest).Round(time.Second), now.Sub(newest).Round(time.Second))
	}

	marker, readable := c.markerAt(ctx)
	switch {
	case !readable:
		b.WriteString(" invalidated=unknown")
	case freshCount > 0 && marker.After(newest):
		b.WriteString(" invalidated=true")
	default:
		b.WriteString(" invalidated=false")
	}
	return b.String()
}

// DetailedReport returns a multi-line per-key report: fresh and stale ages,
// remaining TTL, and the invalidation timestamps. For operational
// debugging only.
func (c *Cache[V]) DetailedReport(ctx context.Context) string {
	now := time.Now()

	c.mu.RLock()
	localMarker := c.localMarker
	keys := make([]string, 0, len(c.stale))
	for key := range c.stale {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "key=%s", key)
		if e, ok := c.fresh[key]; ok {
			fmt.Fprintf(&b, " fresh_age=%s", now.Sub(e.insertedAt).Round(time.Second))
			if !e.expiresAt.IsZero() {
				fmt.Fprintf(&b, " ttl_left=%s", e.expiresAt.Sub(now).Round(time.Second))
			}
		} else {
			b.WriteString(" fresh=none")
		}
		if e, ok := c.stale[key]; ok {
			fmt.Fprintf(&b, " stale_age=%s", now.Sub(e.insertedAt).Round(time.Second))
		}
		b.WriteString("\n")
	}
	c.mu.RUnlock()

	if !localMarker.IsZero() {
		fmt.Fprintf(&b, "local_invalidated_at=%s\n", localMarker.Format(time.RFC3339))
	}
	if c.inv != nil {
		if durable, err := c.inv.LastInvalidated(ctx); err != nil {
			fmt.Fprintf(&b, "durable_invalidated_at=unreadable (%v)\n", err)
		} else if !durable.IsZero() {
			fmt.Fprintf(&b, "durable_invalidated_at=%s\n", durable.Format(time.RFC3339))
		}
	}
	return b.String()
}

// markerAt returns the effective invalidation marker (the newer of the
// local and durable markers) and whether it could be read.
func (c *Cache[V]) markerAt(ctx context.Context) (time.Time, bool) {
	c.mu.RLock()
	marker := c.localMarker
	c.mu.RUnlock()

	if c.inv == nil {
		return marker, true
	}
	durable, err := c.inv.LastInvalidated(ctx)
	if err != nil {
		return marker, false
	}
	if durable.After(marker) {
		marker = durable
	}
	return marker, true
}
