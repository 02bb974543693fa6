package main

import (
	"log"
	"net/http"

	"github.com/hibiken/asynq"

	"podcast-ingest/internal/config"
	"podcast-ingest/internal/db"
	"podcast-ingest/internal/feed"
	"podcast-ingest/internal/ingest"
	"podcast-ingest/internal/worker"
	"podcast-ingest/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	store := db.NewStore(conn)
	defer store.Close()

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	runner := ingest.NewRunner(cfg, store, feed.NewFetcher(client), ingest.NewMaterializer(client, cfg.EpisodeFolder))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			// Runs of one feed must never overlap.
			Concurrency: 1,
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(runner, cfg.FeedURL)
	mux.HandleFunc(tasks.TypeIngestFeed, taskHandler.HandleIngestFeedTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
