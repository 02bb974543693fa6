package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"podcast-ingest/internal/feed"
)

func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.store.ListEpisodes(r.Context())
	if err != nil {
		log.Printf("Error getting episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(h.feedURL, episodes, h.audioStoragePath, feed.BaseURL(h.baseURL, r))
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}

// ServeAudioFile serves a materialized file, but only one that belongs to a
// stored episode.
func (h *Handlers) ServeAudioFile(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	episode, err := h.store.GetEpisodeByFilename(r.Context(), filename)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Episode not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting episode %s: %v", filename, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, filepath.Join(h.audioStoragePath, episode.Filename))
}
