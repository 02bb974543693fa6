package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/hibiken/asynq"

	"podcast-ingest/pkg/tasks"
)

// PostIngest queues an ingestion run outside the schedule. A run already
// queued or in flight for the feed yields 409.
func (h *Handlers) PostIngest(w http.ResponseWriter, r *http.Request) {
	task, err := tasks.NewIngestFeedTask(h.feedURL)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	info, err := h.asynqClient.EnqueueContext(r.Context(), task)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		http.Error(w, "An ingest run is already queued", http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("Error enqueuing task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": info.ID, "queue": info.Queue})
}
