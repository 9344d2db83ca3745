package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/snapcache/pkg/invalidation"
	"github.com/codeGROOVE-dev/snapcache/pkg/power"
)

// statusCmd inspects the durable side of the system: the invalidation
// marker and persisted power telemetry. The in-memory cache of another
// process cannot be observed from here, only what it would see on wake-up.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show shared-store state: invalidation marker and telemetry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, err := openSharedStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // read-only inspection

		header := color.New(color.FgCyan, color.Bold)

		header.Println("Invalidation")
		channel := invalidation.New(store)
		if marker, err := channel.LastInvalidated(ctx); err != nil {
			color.Red("  marker: unreadable (%v)", err)
		} else if marker.IsZero() {
			color.White("  marker: never set")
		} else {
			color.White("  marker: %s", marker.Format("2006-01-02 15:04:05"))
		}

		header.Println("Power telemetry")
		source := power.NewStoreSource(store)
		t, err := source.Telemetry(ctx)
		switch {
		case err != nil:
			color.Red("  unreadable (%v)", err)
		case t.UpdatedAt.IsZero():
			color.White("  never written")
		default:
			color.White("  level=%.0f%% charging=%t low_power=%t updated=%s",
				t.Level*100, t.Charging, t.LowPower, t.UpdatedAt.Format("15:04:05"))
		}

		scheduler := power.NewScheduler(source,
			power.WithCriticalLevel(cfg.CriticalLevel),
			power.WithTelemetryMaxAge(cfg.TelemetryMaxAge()),
		)
		interval, state := scheduler.NextInterval(ctx)
		header.Println("Scheduling")
		color.White("  power=%s interval=%s", state, interval)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
