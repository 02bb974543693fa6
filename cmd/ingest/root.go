package main

import (
	"github.com/spf13/cobra"

	"podcast-ingest/internal/config"
)

// runFlags override the environment configuration when set.
type runFlags struct {
	feedURL  string
	folder   string
	driver   string
	database string
	lock     string
}

func (f runFlags) apply(cfg config.Config) (config.Config, error) {
	if f.feedURL != "" {
		cfg.FeedURL = f.feedURL
	}
	if f.folder != "" {
		cfg.EpisodeFolder = f.folder
	}
	if f.driver != "" {
		cfg.DatabaseDriver = f.driver
	}
	if f.database != "" {
		cfg.DatabaseURL = f.database
	}
	if f.lock != "" {
		cfg.LockPath = f.lock
	}
	return cfg, cfg.Validate()
}

func newRootCommand() *cobra.Command {
	var flags runFlags

	rootCmd := &cobra.Command{
		Use:           "podcast-ingest",
		Short:         "Incremental podcast feed ingestion",
		Version:       CommitSHA,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.feedURL, "feed-url", "", "Feed to ingest (default $FEED_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.folder, "folder", "", "Episode folder (default $EPISODE_FOLDER)")
	rootCmd.PersistentFlags().StringVar(&flags.driver, "driver", "", "Database driver: sqlite or postgres (default $DATABASE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&flags.database, "database", "", "Database DSN (default $DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.lock, "lock", "", "Lock file guarding against concurrent runs (default $LOCK_PATH)")

	rootCmd.AddCommand(newRunCommand(&flags))

	return rootCmd
}
