package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"podcast-ingest/internal/models"
)

// insertBatchSize keeps multi-row inserts below SQLite's bind variable limit.
const insertBatchSize = 500

const insertEpisode = `
	INSERT INTO episodes (link, title, filename, published, description, transcript)
	VALUES (:link, :title, :filename, :published, :description, :transcript)`

// Store is the append-only episode table.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the episodes table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// ListKnownLinks returns the link of every stored episode.
func (s *Store) ListKnownLinks(ctx context.Context) (map[string]struct{}, error) {
	var links []string
	if err := s.db.SelectContext(ctx, &links, "SELECT link FROM episodes"); err != nil {
		return nil, fmt.Errorf("failed to list episode links: %w", err)
	}

	known := make(map[string]struct{}, len(links))
	for _, link := range links {
		known[link] = struct{}{}
	}
	return known, nil
}

// AppendEpisodes inserts all rows in one transaction. A duplicate link rolls
// back the whole batch and yields a *StoreWriteError wrapping ErrDuplicateLink.
func (s *Store) AppendEpisodes(ctx context.Context, episodes []models.Episode) error {
	if len(episodes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return writeError(len(episodes), err)
	}

	for start := 0; start < len(episodes); start += insertBatchSize {
		end := min(start+insertBatchSize, len(episodes))
		if _, err := tx.NamedExecContext(ctx, insertEpisode, episodes[start:end]); err != nil {
			_ = tx.Rollback()
			return writeError(len(episodes), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return writeError(len(episodes), err)
	}
	return nil
}

// ListEpisodes returns stored episodes, most recently ingested first.
func (s *Store) ListEpisodes(ctx context.Context) ([]models.Episode, error) {
	episodes := []models.Episode{}
	query := `
		SELECT link, title, filename, published, description, transcript, ingested_at
		FROM episodes
		ORDER BY ingested_at DESC, link
	`
	if err := s.db.SelectContext(ctx, &episodes, query); err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return episodes, nil
}

// GetEpisodeByFilename returns the first episode stored under filename.
func (s *Store) GetEpisodeByFilename(ctx context.Context, filename string) (models.Episode, error) {
	episode := models.Episode{}
	query := s.db.Rebind(`
		SELECT link, title, filename, published, description, transcript, ingested_at
		FROM episodes
		WHERE filename = ?
		LIMIT 1
	`)
	err := s.db.GetContext(ctx, &episode, query, filename)
	return episode, err
}
