package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"podcast-ingest/internal/models"
	"podcast-ingest/pkg/tasks"
)

// EpisodeReader is the read side of the episode store.
type EpisodeReader interface {
	ListEpisodes(ctx context.Context) ([]models.Episode, error)
	GetEpisodeByFilename(ctx context.Context, filename string) (models.Episode, error)
}

type Handlers struct {
	store            EpisodeReader
	asynqClient      tasks.TaskEnqueuer
	feedURL          string
	audioStoragePath string
	baseURL          string
}

func New(store EpisodeReader, asynqClient tasks.TaskEnqueuer, feedURL, audioStoragePath, baseURL string) *Handlers {
	return &Handlers{
		store:            store,
		asynqClient:      asynqClient,
		feedURL:          feedURL,
		audioStoragePath: audioStoragePath,
		baseURL:          baseURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// ListEpisodes returns every stored episode as JSON.
func (h *Handlers) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.store.ListEpisodes(r.Context())
	if err != nil {
		log.Printf("Error getting episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}
