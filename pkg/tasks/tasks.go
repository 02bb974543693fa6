package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeIngestFeed = "feed:ingest"

const (
	// ingestUniqueFor bounds how long a queued or running ingest blocks
	// another one for the same feed.
	ingestUniqueFor = 23 * time.Hour
	ingestTimeout   = time.Hour
)

type IngestFeedTaskPayload struct {
	FeedURL string
}

// NewIngestFeedTask builds the task for one ingestion run of feedURL. The
// task is unique per feed and never retried; the next scheduled run is the retry.
func NewIngestFeedTask(feedURL string) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestFeedTaskPayload{FeedURL: feedURL})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIngestFeed, payload,
		asynq.MaxRetry(0),
		asynq.Unique(ingestUniqueFor),
		asynq.Timeout(ingestTimeout),
	), nil
}

// ParseIngestFeedTask decodes the payload of a TypeIngestFeed task.
func ParseIngestFeedTask(t *asynq.Task) (IngestFeedTaskPayload, error) {
	var p IngestFeedTaskPayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}
