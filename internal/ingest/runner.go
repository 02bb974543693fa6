package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofrs/flock"

	"podcast-ingest/internal/config"
	"podcast-ingest/internal/feed"
	"podcast-ingest/internal/models"
)

// ErrRunInProgress is returned when another run holds the lock file.
var ErrRunInProgress = errors.New("another ingestion run is in progress")

// FeedFetcher is implemented by *feed.Fetcher.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]models.RemoteItem, error)
}

// AssetMaterializer is implemented by *Materializer.
type AssetMaterializer interface {
	Materialize(ctx context.Context, requests []models.AssetRequest) ([]models.MaterializedFile, error)
}

// RunResult summarizes one ingestion run.
type RunResult struct {
	FeedURL        string
	Fetched        int
	NewEpisodes    []models.Episode
	Files          []models.MaterializedFile
	DownloadErrors []error
}

// Err joins the per-item download failures, or returns nil.
func (r *RunResult) Err() error {
	return errors.Join(r.DownloadErrors...)
}

// Runner sequences one ingestion: schema, fetch, delta, materialize.
type Runner struct {
	feedURL      string
	store        EpisodeStore
	fetcher      FeedFetcher
	materializer AssetMaterializer
	lockPath     string
}

func NewRunner(cfg config.Config, store EpisodeStore, fetcher FeedFetcher, materializer AssetMaterializer) *Runner {
	return &Runner{
		feedURL:      cfg.FeedURL,
		store:        store,
		fetcher:      fetcher,
		materializer: materializer,
		lockPath:     cfg.LockPath,
	}
}

// Run performs one ingestion. Fetch and store failures abort the run and
// are returned. Download failures happen after the store write has
// committed and are collected in RunResult.DownloadErrors instead.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if r.lockPath != "" {
		// One handle per run, so overlapping runs of this Runner conflict too.
		lock := flock.New(r.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, ErrRunInProgress
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				log.Printf("failed to release run lock: %v", err)
			}
		}()
	}

	if err := r.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	items, err := r.fetcher.Fetch(ctx, r.feedURL)
	if err != nil {
		return nil, err
	}

	fresh, err := Resolve(ctx, items, r.store)
	if err != nil {
		return nil, err
	}
	log.Printf("Stored %d new episodes", len(fresh))

	requests, err := assetRequests(items)
	if err != nil {
		return nil, err
	}

	// Materialize every fetched item, not only the new ones.
	files, err := r.materializer.Materialize(ctx, requests)

	result := &RunResult{
		FeedURL:     r.feedURL,
		Fetched:     len(items),
		NewEpisodes: fresh,
		Files:       files,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if err != nil {
		joined, ok := err.(interface{ Unwrap() []error })
		if !ok {
			return result, err
		}
		result.DownloadErrors = joined.Unwrap()
		for _, e := range result.DownloadErrors {
			log.Printf("%v", e)
		}
	}

	log.Printf("Run finished: %d fetched, %d new, %d files, %d download errors",
		result.Fetched, len(result.NewEpisodes), len(result.Files), len(result.DownloadErrors))
	return result, nil
}

func assetRequests(items []models.RemoteItem) ([]models.AssetRequest, error) {
	seen := make(map[string]struct{}, len(items))
	requests := make([]models.AssetRequest, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Link]; ok {
			continue
		}
		seen[item.Link] = struct{}{}

		filename, err := feed.FilenameForLink(item.Link)
		if err != nil {
			return nil, fmt.Errorf("derive filename: %w", err)
		}
		requests = append(requests, models.AssetRequest{
			Link:         item.Link,
			EnclosureURL: item.EnclosureURL,
			Filename:     filename,
		})
	}
	return requests, nil
}
