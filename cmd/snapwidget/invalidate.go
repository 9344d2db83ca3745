package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/snapcache/pkg/invalidation"
)

// invalidateCmd is the refresh-request signal's entry point: the main
// application fires this after a data-changing operation. The durable
// marker is advanced; widget processes notice it lazily on their next
// wake-up and discard their fresh cache.
var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Advance the cross-process invalidation marker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openSharedStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // single write

		channel := invalidation.New(store)
		if err := channel.MarkInvalidated(cmd.Context()); err != nil {
			return err
		}
		color.Green("invalidation marker advanced")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invalidateCmd)
}
