package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/snapcache/pkg/notestore"
)

var flagCount int

// seedCmd populates the demo note store.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample notes into the notes database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := notestore.Open(cfg.NotesDB)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // writes are flushed per-insert

		if err := store.Seed(cmd.Context(), flagCount); err != nil {
			return err
		}
		color.Green("seeded %d notes into %s", flagCount, cfg.NotesDB)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&flagCount, "count", 10, "number of notes to insert")
	rootCmd.AddCommand(seedCmd)
}
