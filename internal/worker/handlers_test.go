package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"podcast-ingest/internal/feed"
	"podcast-ingest/internal/ingest"
	"podcast-ingest/internal/models"
	"podcast-ingest/pkg/tasks"
)

const feedURL = "https://example.com/feed.xml"

// mockRunner is a mock implementation of Runner for testing.
type mockRunner struct {
	result *ingest.RunResult
	err    error
	calls  int
}

func (m *mockRunner) Run(ctx context.Context) (*ingest.RunResult, error) {
	m.calls++
	return m.result, m.err
}

func mustTask(t *testing.T, url string) *asynq.Task {
	task, err := tasks.NewIngestFeedTask(url)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestHandleIngestFeedTask(t *testing.T) {
	runner := &mockRunner{result: &ingest.RunResult{
		FeedURL:     feedURL,
		Fetched:     2,
		NewEpisodes: []models.Episode{{Link: "/b"}},
		Files:       []models.MaterializedFile{{Link: "/a", Filename: "a.mp3"}, {Link: "/b", Filename: "b.mp3"}},
	}}
	handler := NewTaskHandler(runner, feedURL)

	err := handler.HandleIngestFeedTask(context.Background(), mustTask(t, feedURL))

	assert.NoError(t, err)
	assert.Equal(t, 1, runner.calls)
}

func TestHandleIngestFeedTaskRunFailure(t *testing.T) {
	runner := &mockRunner{err: &feed.ParseError{URL: feedURL, Item: -1, Err: feed.ErrNoItems}}
	handler := NewTaskHandler(runner, feedURL)

	err := handler.HandleIngestFeedTask(context.Background(), mustTask(t, feedURL))

	var perr *feed.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestHandleIngestFeedTaskDownloadFailures(t *testing.T) {
	dlErr := &ingest.DownloadError{Link: "/a", Filename: "a.mp3", Err: errors.New("unexpected status 404")}
	runner := &mockRunner{result: &ingest.RunResult{
		FeedURL:        feedURL,
		Files:          []models.MaterializedFile{{Link: "/b", Filename: "b.mp3"}},
		DownloadErrors: []error{dlErr},
	}}
	handler := NewTaskHandler(runner, feedURL)

	err := handler.HandleIngestFeedTask(context.Background(), mustTask(t, feedURL))

	assert.ErrorIs(t, err, dlErr)
	assert.Contains(t, err.Error(), "1 of 2 downloads failed")
}

func TestHandleIngestFeedTaskSkipsWhenRunInProgress(t *testing.T) {
	runner := &mockRunner{err: ingest.ErrRunInProgress}
	handler := NewTaskHandler(runner, feedURL)

	err := handler.HandleIngestFeedTask(context.Background(), mustTask(t, feedURL))

	assert.NoError(t, err)
}

func TestHandleIngestFeedTaskRejectsOtherFeed(t *testing.T) {
	runner := &mockRunner{}
	handler := NewTaskHandler(runner, feedURL)

	err := handler.HandleIngestFeedTask(context.Background(), mustTask(t, "https://other.example.com/rss"))

	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Equal(t, 0, runner.calls)
}

func TestHandleIngestFeedTaskBadPayload(t *testing.T) {
	handler := NewTaskHandler(&mockRunner{}, feedURL)

	err := handler.HandleIngestFeedTask(context.Background(), asynq.NewTask(tasks.TypeIngestFeed, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}
