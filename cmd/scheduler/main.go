package main

import (
	"log"

	"github.com/hibiken/asynq"

	"podcast-ingest/internal/config"
	"podcast-ingest/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{},
	)

	task, err := tasks.NewIngestFeedTask(cfg.FeedURL)
	if err != nil {
		log.Fatalf("could not create task: %v", err)
	}

	entryID, err := scheduler.Register(cfg.Schedule, task)
	if err != nil {
		log.Fatalf("could not register task: %v", err)
	}

	log.Printf("Scheduler starting (commit: %s), ingest of %s registered as %s on %q", CommitSHA, cfg.FeedURL, entryID, cfg.Schedule)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("could not run scheduler: %v", err)
	}
}
