package feed

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eduncan911/podcast"

	"podcast-ingest/internal/models"
)

// BaseURL returns the configured public base URL, or one derived from the request.
func BaseURL(configured string, r *http.Request) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS republishes stored episodes whose audio is present in folder.
// Enclosures point at this server's /audio route.
func GenerateRSS(sourceURL string, episodes []models.Episode, folder, baseURL string) (string, error) {
	var lastBuild time.Time
	for _, ep := range episodes {
		if ep.IngestedAt.After(lastBuild) {
			lastBuild = ep.IngestedAt
		}
	}

	p := podcast.New(
		"Podcast Archive",
		fmt.Sprintf("%s/rss", baseURL),
		fmt.Sprintf("Episodes mirrored from %s", sourceURL),
		&lastBuild, &lastBuild,
	)

	for _, episode := range episodes {
		info, err := os.Stat(filepath.Join(folder, episode.Filename))
		if err != nil || info.IsDir() {
			continue
		}

		title := episode.Title
		if title == "" {
			title = episode.Filename
		}
		description := episode.Description
		if description == "" {
			description = title
		}

		item := podcast.Item{
			Title:       title,
			Link:        episode.Link,
			Description: description,
		}
		if published, err := time.Parse(time.RFC1123Z, episode.Published); err == nil {
			item.AddPubDate(&published)
		}
		item.AddEnclosure(fmt.Sprintf("%s/audio/%s", baseURL, episode.Filename), podcast.MP3, info.Size())
		if _, err := p.AddItem(item); err != nil {
			return "", fmt.Errorf("add item %s: %w", episode.Link, err)
		}
	}

	return p.String(), nil
}
