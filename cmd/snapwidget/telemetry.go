package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/snapcache/pkg/power"
)

var (
	flagLevel    float64
	flagCharging bool
	flagLowPower bool
)

// telemetryCmd writes power telemetry scalars into the shared store,
// simulating the main application's battery monitoring.
var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Write power telemetry into the shared store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openSharedStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // few writes

		t := power.Telemetry{Level: flagLevel, Charging: flagCharging, LowPower: flagLowPower}
		if err := power.WriteTelemetry(cmd.Context(), store, t); err != nil {
			return err
		}
		color.Green("telemetry written: level=%.0f%% charging=%t low_power=%t",
			flagLevel*100, flagCharging, flagLowPower)
		return nil
	},
}

func init() {
	telemetryCmd.Flags().Float64Var(&flagLevel, "level", 1.0, "battery level, 0.0 to 1.0")
	telemetryCmd.Flags().BoolVar(&flagCharging, "charging", false, "device is charging")
	telemetryCmd.Flags().BoolVar(&flagLowPower, "low-power", false, "low-power mode engaged")
	rootCmd.AddCommand(telemetryCmd)
}
