package ingest

import (
	"context"
	"fmt"
	"log"

	"podcast-ingest/internal/feed"
	"podcast-ingest/internal/models"
)

// EpisodeStore is the append-only persistence the pipeline needs.
// *db.Store satisfies it.
type EpisodeStore interface {
	EnsureSchema(ctx context.Context) error
	ListKnownLinks(ctx context.Context) (map[string]struct{}, error)
	AppendEpisodes(ctx context.Context, episodes []models.Episode) error
}

// Resolve returns the items whose link is not yet stored, in input order, and
// persists them with a single AppendEpisodes call. The known-link snapshot is
// read once. When the same link appears more than once in items only the
// first occurrence is kept.
func Resolve(ctx context.Context, items []models.RemoteItem, store EpisodeStore) ([]models.Episode, error) {
	known, err := store.ListKnownLinks(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	var fresh []models.Episode
	for _, item := range items {
		if _, ok := known[item.Link]; ok {
			continue
		}
		if _, ok := seen[item.Link]; ok {
			log.Printf("Skipping repeated link in feed: %s", item.Link)
			continue
		}
		seen[item.Link] = struct{}{}

		filename, err := feed.FilenameForLink(item.Link)
		if err != nil {
			return nil, fmt.Errorf("derive filename: %w", err)
		}
		fresh = append(fresh, models.Episode{
			Link:        item.Link,
			Title:       item.Title,
			Filename:    filename,
			Published:   item.PublishedAt,
			Description: item.Description,
		})
	}

	if err := store.AppendEpisodes(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}
