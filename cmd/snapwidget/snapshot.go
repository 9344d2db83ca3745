package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/snapcache"
	"github.com/codeGROOVE-dev/snapcache/pkg/invalidation"
	"github.com/codeGROOVE-dev/snapcache/pkg/notestore"
	"github.com/codeGROOVE-dev/snapcache/pkg/power"
	"github.com/codeGROOVE-dev/snapcache/pkg/report"
	"github.com/codeGROOVE-dev/snapcache/pkg/sharedstore"
)

var flagLimit int

// snapshotCmd runs one widget fetch cycle: consult the cache, fall back
// through the ladder, and print what a widget would render plus when the
// host should ask again.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Run one widget fetch cycle and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, err := openSharedStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // read-mostly store

		notes, err := notestore.Open(cfg.NotesDB)
		if err != nil {
			return err
		}
		defer notes.Close() //nolint:errcheck // read-only queries

		fetcher, scheduler := buildFetcher(store)

		placeholder := []notestore.Note{{Title: "Notes unavailable", Body: "Open the app to refresh."}}
		result := fetcher.Fetch(ctx, "recent_notes", func(ctx context.Context) ([]notestore.Note, error) {
			return notes.RecentNotes(ctx, flagLimit)
		}, placeholder, cfg.TTL())

		header := color.New(color.FgCyan, color.Bold)
		header.Println("Snapshot")
		for _, n := range result {
			color.New(color.Bold).Printf("  %s", n.Title)
			if !n.UpdatedAt.IsZero() {
				color.New(color.Faint).Printf("  (%s)", n.UpdatedAt.Format("Jan 2 15:04"))
			}
			fmt.Println()
		}

		header.Println("Cache")
		color.White("  %s", fetcher.Cache().StatusSummary(ctx))

		header.Println("Next refresh")
		interval, state := scheduler.NextInterval(ctx)
		color.White("  power=%s interval=%s at=%s", state, interval,
			scheduler.NextRefreshAt(ctx).Format("15:04:05"))
		return nil
	},
}

// buildFetcher wires the cache stack the way a widget process entry point
// does: explicit instances, no globals.
func buildFetcher(store sharedstore.Store) (*snapcache.Fetcher[[]notestore.Note], *power.Scheduler) {
	channel := invalidation.New(store)
	scheduler := power.NewScheduler(power.NewStoreSource(store),
		power.WithCriticalLevel(cfg.CriticalLevel),
		power.WithTelemetryMaxAge(cfg.TelemetryMaxAge()),
	)

	reporter := report.New(
		report.WithCooldown(cfg.Cooldown()),
		report.WithEnv(func() []slog.Attr {
			state := scheduler.State(context.Background())
			return []slog.Attr{slog.String("power_state", state.String())}
		}),
	)

	cache := snapcache.New[[]notestore.Note](
		snapcache.WithCapacity(cfg.Capacity),
		snapcache.WithTTL(cfg.TTL()),
		snapcache.WithInvalidator(channel),
		snapcache.WithReporter(reporter),
	)
	fetcher := snapcache.NewFetcher(cache,
		snapcache.WithFetchTimeout(cfg.FetchTimeout()),
		snapcache.WithDomain("notestore"),
	)
	return fetcher, scheduler
}

func init() {
	snapshotCmd.Flags().IntVar(&flagLimit, "limit", 5, "max notes in the snapshot")
	rootCmd.AddCommand(snapshotCmd)
}
