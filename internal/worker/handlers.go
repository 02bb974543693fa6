package worker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"podcast-ingest/internal/ingest"
	"podcast-ingest/pkg/tasks"
)

// Runner is implemented by *ingest.Runner.
type Runner interface {
	Run(ctx context.Context) (*ingest.RunResult, error)
}

type TaskHandler struct {
	runner  Runner
	feedURL string
}

func NewTaskHandler(runner Runner, feedURL string) *TaskHandler {
	return &TaskHandler{runner: runner, feedURL: feedURL}
}

// HandleIngestFeedTask runs one ingestion for the configured feed.
func (h *TaskHandler) HandleIngestFeedTask(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParseIngestFeedTask(t)
	if err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.FeedURL != h.feedURL {
		return fmt.Errorf("task is for feed %s, worker serves %s: %w", p.FeedURL, h.feedURL, asynq.SkipRetry)
	}

	log.Printf("Ingesting feed: %s", p.FeedURL)

	result, err := h.runner.Run(ctx)
	if errors.Is(err, ingest.ErrRunInProgress) {
		log.Printf("Skipping ingest of %s: %v", p.FeedURL, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("ingest %s: %w", p.FeedURL, err)
	}

	if err := result.Err(); err != nil {
		return fmt.Errorf("ingest %s: %d of %d downloads failed: %w",
			p.FeedURL, len(result.DownloadErrors), len(result.Files)+len(result.DownloadErrors), err)
	}

	log.Printf("Successfully ingested feed: %s", p.FeedURL)
	return nil
}
