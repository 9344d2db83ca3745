package snapcache_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/snapcache"
	"github.com/codeGROOVE-dev/snapcache/pkg/invalidation"
	"github.com/codeGROOVE-dev/snapcache/pkg/notestore"
	"github.com/codeGROOVE-dev/snapcache/pkg/sharedstore"
)

// TestWidgetCycle exercises the full read path the way a widget process
// does: fetch from the real sqlite note store through the cache, then
// again without touching the store.
func TestWidgetCycle(t *testing.T) {
	ctx := context.Background()

	notes, err := notestore.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer notes.Close()

	if err := notes.Seed(ctx, 5); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	cache := snapcache.New[[]notestore.Note](snapcache.WithTTL(time.Minute))
	fetcher := snapcache.NewFetcher(cache)

	var queries int
	fn := func(ctx context.Context) ([]notestore.Note, error) {
		queries++
		return notes.RecentNotes(ctx, 5)
	}

	first := fetcher.Fetch(ctx, "recent_notes", fn, nil)
	if len(first) != 5 {
		t.Fatalf("first fetch returned %d notes; want 5", len(first))
	}

	second := fetcher.Fetch(ctx, "recent_notes", fn, nil)
	if queries != 1 {
		t.Errorf("backing store queried %d times; want 1", queries)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("note %d differs between fetches: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

// TestCrossProcessInvalidation models two processes sharing only the
// durable store: the main process marks data changed, and a separate
// cache instance (a widget wake-up) discards its fresh entry.
func TestCrossProcessInvalidation(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	mainStore, err := sharedstore.NewLocalFS(dir)
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	widgetStore, err := sharedstore.NewLocalFS(dir)
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	widgetCache := snapcache.New[string](
		snapcache.WithInvalidator(invalidation.New(widgetStore)),
	)
	widgetCache.Set("summary", "5 notes")

	if _, ok := widgetCache.Get(ctx, "summary"); !ok {
		t.Fatal("summary should be fresh before invalidation")
	}

	time.Sleep(time.Millisecond)

	// Main process side: refresh request after a data change.
	mainCache := snapcache.New[string](
		snapcache.WithInvalidator(invalidation.New(mainStore)),
	)
	mainFetcher := snapcache.NewFetcher(mainCache)
	if err := mainFetcher.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	// Widget side notices the durable marker lazily on its next read.
	if _, ok := widgetCache.Get(ctx, "summary"); ok {
		t.Error("summary should be discarded after cross-process invalidation")
	}
	if val, ok := widgetCache.GetStale("summary"); !ok || val != "5 notes" {
		t.Errorf("GetStale = %q, %t; want stale shadow intact", val, ok)
	}
}

// TestOutageDegradation walks the whole fallback ladder against a real
// sqlite store that goes away mid-test.
func TestOutageDegradation(t *testing.T) {
	ctx := context.Background()

	notes, err := notestore.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := notes.Seed(ctx, 3); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	cache := snapcache.New[[]notestore.Note](snapcache.WithTTL(30 * time.Millisecond))
	fetcher := snapcache.NewFetcher(cache, snapcache.WithDomain("notestore"))

	fn := func(ctx context.Context) ([]notestore.Note, error) {
		return notes.RecentNotes(ctx, 3)
	}
	placeholder := []notestore.Note{{Title: "Notes unavailable"}}

	got := fetcher.Fetch(ctx, "recent_notes", fn, placeholder)
	if len(got) != 3 {
		t.Fatalf("fetch returned %d notes; want 3", len(got))
	}

	// Store goes down; fresh entry expires.
	notes.Close()
	time.Sleep(60 * time.Millisecond)

	stale := fetcher.Fetch(ctx, "recent_notes", fn, placeholder)
	if len(stale) != 3 {
		t.Errorf("expected stale snapshot of 3 notes, got %d", len(stale))
	}

	// A key never fetched has no stale shadow: last-resort default.
	counts := snapcache.New[int]()
	countFetcher := snapcache.NewFetcher(counts, snapcache.WithDomain("notestore"))
	agg := countFetcher.Fetch(ctx, "note_counts", func(ctx context.Context) (int, error) {
		a, err := notes.CountNotes(ctx, notestore.AggregateFilter{})
		if err != nil {
			return 0, fmt.Errorf("count: %w", err)
		}
		return a.Total, nil
	}, -1)
	if agg != -1 {
		t.Errorf("expected fallback -1 with no stale shadow, got %d", agg)
	}
}
