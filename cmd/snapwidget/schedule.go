package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/snapcache/pkg/power"
)

// scheduleCmd answers the host scheduler's question: derive the current
// power state from persisted telemetry and print when to ask for a
// snapshot again.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Derive the power state and print the next refresh time",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, err := openSharedStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // read-only inspection

		scheduler := power.NewScheduler(power.NewStoreSource(store),
			power.WithCriticalLevel(cfg.CriticalLevel),
			power.WithTelemetryMaxAge(cfg.TelemetryMaxAge()),
		)

		interval, state := scheduler.NextInterval(ctx)
		color.White("power=%s interval=%s next_refresh=%s",
			state, interval, scheduler.NextRefreshAt(ctx).Format("15:04:05"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
