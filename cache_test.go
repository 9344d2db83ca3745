package snapcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/snapcache/pkg/report"
)

var errTest = errors.New("shared storage down")

// fakeInvalidator is an in-memory stand-in for the durable channel.
type fakeInvalidator struct {
	mu     sync.Mutex
	marker time.Time
	err    error
}

func (f *fakeInvalidator) MarkInvalidated(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.marker = time.Now()
	return nil
}

func (f *fakeInvalidator) LastInvalidated(context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.marker, f.err
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := New[int]()

	cache.Set("answer", 42)

	val, ok := cache.Get(ctx, "answer")
	if !ok {
		t.Fatal("answer not found")
	}
	if val != 42 {
		t.Errorf("Get = %d; want 42", val)
	}

	if _, ok := cache.Get(ctx, "missing"); ok {
		t.Error("missing key should not be found")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	cache := New[string](WithTTL(50 * time.Millisecond))

	cache.Set("temp", "value")

	if _, ok := cache.Get(ctx, "temp"); !ok {
		t.Fatal("temp should be found immediately")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get(ctx, "temp"); ok {
		t.Error("temp should be expired")
	}
	if val, ok := cache.GetStale("temp"); !ok || val != "value" {
		t.Errorf("GetStale = %q, %t; want %q, true", val, ok, "value")
	}
}

func TestCache_PerCallTTLOverridesDefault(t *testing.T) {
	ctx := context.Background()
	cache := New[string](WithTTL(time.Hour))

	cache.Set("short", "v", 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get(ctx, "short"); ok {
		t.Error("short should be expired despite long default TTL")
	}
}

func TestCache_GetStale_NeverStored(t *testing.T) {
	cache := New[int]()
	if _, ok := cache.GetStale("nothing"); ok {
		t.Error("GetStale should miss for a key never stored")
	}
}

func TestCache_InvalidateAll_LazyDiscard(t *testing.T) {
	ctx := context.Background()
	cache := New[int]()

	cache.Set("a", 1)
	cache.Set("b", 2)

	if err := cache.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if _, ok := cache.Get(ctx, key); ok {
			t.Errorf("%s should be invalidated", key)
		}
		if _, ok := cache.GetStale(key); !ok {
			t.Errorf("%s stale shadow should survive invalidation", key)
		}
	}

	// Invalidation is lazy: entries are not physically deleted.
	if got := cache.Len(); got != 2 {
		t.Errorf("Len = %d; want 2 (lazy invalidation)", got)
	}
}

func TestCache_WriteAfterInvalidation(t *testing.T) {
	ctx := context.Background()
	cache := New[string]()

	cache.Set("k", "v1")
	time.Sleep(time.Millisecond)

	if err := cache.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	time.Sleep(time.Millisecond)

	cache.Set("k", "v2")

	val, ok := cache.Get(ctx, "k")
	if !ok {
		t.Fatal("write after invalidation should be fresh")
	}
	if val != "v2" {
		t.Errorf("Get = %q; want %q", val, "v2")
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	ctx := context.Background()
	cache := New[int](WithCapacity(3))

	for i := 1; i <= 5; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i)
		time.Sleep(2 * time.Millisecond) // distinct insertedAt ordering
	}

	if got := cache.Len(); got != 3 {
		t.Fatalf("Len = %d; want 3", got)
	}

	// Exactly the oldest-inserted keys are gone.
	for _, key := range []string{"k1", "k2"} {
		if _, ok := cache.Get(ctx, key); ok {
			t.Errorf("%s should have been evicted", key)
		}
	}
	for i := 3; i <= 5; i++ {
		key := fmt.Sprintf("k%d", i)
		if _, ok := cache.Get(ctx, key); !ok {
			t.Errorf("%s should still be fresh", key)
		}
	}

	// Stale shadows survive capacity eviction.
	if val, ok := cache.GetStale("k1"); !ok || val != 1 {
		t.Errorf("GetStale(k1) = %d, %t; want 1, true", val, ok)
	}
	if got := cache.StaleLen(); got != 5 {
		t.Errorf("StaleLen = %d; want 5", got)
	}
}

func TestCache_ClearFresh(t *testing.T) {
	ctx := context.Background()
	cache := New[int]()

	cache.Set("a", 1)
	cache.ClearFresh()

	if _, ok := cache.Get(ctx, "a"); ok {
		t.Error("fresh entry should be gone after ClearFresh")
	}
	if _, ok := cache.GetStale("a"); !ok {
		t.Error("stale shadow should survive ClearFresh")
	}
}

func TestCache_Reset(t *testing.T) {
	cache := New[int]()

	cache.Set("a", 1)
	cache.Reset()

	if cache.Len() != 0 || cache.StaleLen() != 0 {
		t.Errorf("Reset should clear everything; fresh=%d stale=%d", cache.Len(), cache.StaleLen())
	}
}

func TestCache_DurableInvalidation(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInvalidator{}
	cache := New[int](WithInvalidator(inv))

	cache.Set("k", 1)
	time.Sleep(time.Millisecond)

	// Another process advances the marker.
	if err := inv.MarkInvalidated(ctx); err != nil {
		t.Fatalf("MarkInvalidated: %v", err)
	}

	if _, ok := cache.Get(ctx, "k"); ok {
		t.Error("entry older than durable marker should be discarded")
	}
	if _, ok := cache.GetStale("k"); !ok {
		t.Error("stale shadow should survive durable invalidation")
	}

	// A newer write is fresh again.
	time.Sleep(time.Millisecond)
	cache.Set("k", 2)
	if val, ok := cache.Get(ctx, "k"); !ok || val != 2 {
		t.Errorf("Get = %d, %t; want 2, true", val, ok)
	}
}

func TestCache_FailOpenOnMarkerError(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInvalidator{err: errTest}
	reporter := report.New(report.WithCooldown(time.Hour))
	cache := New[int](WithInvalidator(inv), WithReporter(reporter))

	cache.Set("k", 7)

	// Unreadable marker fails open: the fresh entry is still served.
	val, ok := cache.Get(ctx, "k")
	if !ok || val != 7 {
		t.Fatalf("Get = %d, %t; want 7, true (fail open)", val, ok)
	}

	fp := report.Fingerprint{Domain: "cache", Code: "shared_storage_unavailable"}
	if got := reporter.Occurrences(fp); got != 1 {
		t.Errorf("Occurrences = %d; want 1", got)
	}

	// Repeated reads keep counting but stay suppressed within cooldown.
	cache.Get(ctx, "k")
	cache.Get(ctx, "k")
	stats := reporter.Stats(fp)
	if stats.Count != 3 {
		t.Errorf("Count = %d; want 3", stats.Count)
	}
	if stats.Emitted != 1 {
		t.Errorf("Emitted = %d; want 1", stats.Emitted)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := New[int](WithCapacity(8))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			for j := range 100 {
				cache.Set(key, j)
				cache.Get(ctx, key)
				cache.GetStale(key)
			}
		}()
	}
	wg.Wait()

	if got := cache.Len(); got > 8 {
		t.Errorf("Len = %d; want <= 8 under concurrent writes", got)
	}
}
