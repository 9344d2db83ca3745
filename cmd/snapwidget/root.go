package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/snapcache/pkg/config"
	"github.com/codeGROOVE-dev/snapcache/pkg/sharedstore"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "snapwidget",
	Short: "Inspect and drive the widget snapshot cache",
	Long: `snapwidget drives the widget snapshot cache from the command line:
run a fetch cycle the way a widget process would, inspect cache and
scheduler state, seed demo notes, and fire the invalidation signal the
way the main application does after a data change.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		path := flagConfig
		if path == "" {
			var err error
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ~/.config/snapwidget/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// openSharedStore opens the configured durable shared store.
func openSharedStore() (sharedstore.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			dir, err := sharedstore.DefaultDir(cfg.CacheID)
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create shared store dir: %w", err)
			}
			path = filepath.Join(dir, "shared.db")
		}
		return sharedstore.OpenSQLite(path)
	case "localfs":
		dir := cfg.Store.Path
		if dir == "" {
			var err error
			if dir, err = sharedstore.DefaultDir(cfg.CacheID); err != nil {
				return nil, err
			}
		}
		return sharedstore.NewLocalFS(dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
