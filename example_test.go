package snapcache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/snapcache"
)

func ExampleCache() {
	ctx := context.Background()

	cache := snapcache.New[string](snapcache.WithTTL(5 * time.Minute))
	cache.Set("greeting", "hello widget")

	if val, ok := cache.Get(ctx, "greeting"); ok {
		fmt.Println(val)
	}

	// Output: hello widget
}

func ExampleFetcher_Fetch() {
	ctx := context.Background()

	cache := snapcache.New[[]string](snapcache.WithTTL(5 * time.Minute))
	fetcher := snapcache.NewFetcher(cache)

	// The fetch function stands in for a backing-store query.
	fn := func(context.Context) ([]string, error) {
		return []string{"first note", "second note"}, nil
	}

	snapshot := fetcher.Fetch(ctx, "recent_notes", fn, []string{"notes unavailable"})
	for _, title := range snapshot {
		fmt.Println(title)
	}

	// A failing backing store degrades to the stale copy of the same data.
	failing := func(context.Context) ([]string, error) {
		return nil, snapcache.ErrStoreUnavailable
	}
	cache.ClearFresh()
	snapshot = fetcher.Fetch(ctx, "recent_notes", failing, []string{"notes unavailable"})
	fmt.Println(len(snapshot), "titles served stale")

	// Output:
	// first note
	// second note
	// 2 titles served stale
}
