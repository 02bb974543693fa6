package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"podcast-ingest/internal/config"
	"podcast-ingest/internal/db"
	"podcast-ingest/internal/feed"
	"podcast-ingest/internal/ingest"
)

type runSummary struct {
	FeedURL        string   `json:"feed_url"`
	Fetched        int      `json:"fetched"`
	NewEpisodes    []string `json:"new_episodes"`
	Files          int      `json:"files"`
	DownloadErrors []string `json:"download_errors,omitempty"`
}

func summarize(result *ingest.RunResult) runSummary {
	s := runSummary{
		FeedURL:     result.FeedURL,
		Fetched:     result.Fetched,
		NewEpisodes: make([]string, 0, len(result.NewEpisodes)),
		Files:       len(result.Files),
	}
	for _, ep := range result.NewEpisodes {
		s.NewEpisodes = append(s.NewEpisodes, ep.Link)
	}
	for _, err := range result.DownloadErrors {
		s.DownloadErrors = append(s.DownloadErrors, err.Error())
	}
	return s
}

func printSummary(w io.Writer, s runSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	fmt.Fprintf(w, "Feed:         %s\n", s.FeedURL)
	fmt.Fprintf(w, "Fetched:      %d\n", s.Fetched)
	fmt.Fprintf(w, "New episodes: %d\n", len(s.NewEpisodes))
	for _, link := range s.NewEpisodes {
		fmt.Fprintf(w, "  %s\n", link)
	}
	fmt.Fprintf(w, "Files:        %d\n", s.Files)
	for _, msg := range s.DownloadErrors {
		fmt.Fprintf(w, "  failed: %s\n", msg)
	}
	return nil
}

func newRunCommand(flags *runFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one ingestion of the feed and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg, err = flags.apply(cfg); err != nil {
				return err
			}

			conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			store := db.NewStore(conn)
			defer store.Close()

			client := &http.Client{Timeout: cfg.HTTPTimeout}
			runner := ingest.NewRunner(cfg, store, feed.NewFetcher(client), ingest.NewMaterializer(client, cfg.EpisodeFolder))

			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := printSummary(cmd.OutOrStdout(), summarize(result), asJSON); err != nil {
				return err
			}
			if err := result.Err(); err != nil {
				return fmt.Errorf("%d downloads failed: %w", len(result.DownloadErrors), err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run summary as JSON")
	return cmd
}
