package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"golang.org/x/time/rate"

	"podcast-ingest/internal/config"
	"podcast-ingest/internal/db"
	"podcast-ingest/internal/handlers"
	"podcast-ingest/internal/middleware"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func newRouter(h *handlers.Handlers, cfg config.Config) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/rss", h.GetRSSFeed).Methods(http.MethodGet)
	r.HandleFunc("/episodes", h.ListEpisodes).Methods(http.MethodGet)
	r.HandleFunc("/audio/{filename}", h.ServeAudioFile).Methods(http.MethodGet)

	limiter := middleware.NewRateLimiterMiddleware(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	ingest := limiter.Middleware(middleware.TokenAuth(cfg.APIToken)(http.HandlerFunc(h.PostIngest)))
	r.Handle("/ingest", ingest).Methods(http.MethodPost)

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	store := db.NewStore(conn)
	defer store.Close()

	// The server may start before the first ingest run has created the table.
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	if cfg.APIToken == "" {
		log.Println("API_TOKEN is not set, POST /ingest is disabled")
	}

	h := handlers.New(store, asynqClient, cfg.FeedURL, cfg.EpisodeFolder, cfg.BaseURL)

	log.Printf("Starting server on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Port, newRouter(h, cfg)); err != nil {
		log.Fatal(err)
	}
}
