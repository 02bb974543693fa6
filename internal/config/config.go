package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultFeedURL       = "https://www.marketplace.org/feed/podcast/marketplace/"
	DefaultEpisodeFolder = "episodes"
)

// Config holds everything a run or a server needs. It is built once in main
// and passed down explicitly.
type Config struct {
	FeedURL        string
	EpisodeFolder  string
	DatabaseDriver string
	DatabaseURL    string
	RedisAddr      string
	Schedule       string
	HTTPTimeout    time.Duration
	LockPath       string

	Port      string
	BaseURL   string
	APIToken  string
	RateLimit float64
	RateBurst int
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	return Config{
		FeedURL:        DefaultFeedURL,
		EpisodeFolder:  DefaultEpisodeFolder,
		DatabaseDriver: DriverSQLite,
		DatabaseURL:    "episodes.db",
		RedisAddr:      "127.0.0.1:6379",
		Schedule:       "@daily",
		HTTPTimeout:    60 * time.Second,
		Port:           "8080",
		RateLimit:      1,
		RateBurst:      5,
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, falling back to defaults
// for unset variables.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("FEED_URL", &cfg.FeedURL)
	setString("EPISODE_FOLDER", &cfg.EpisodeFolder)
	setString("DATABASE_DRIVER", &cfg.DatabaseDriver)
	setString("DATABASE_URL", &cfg.DatabaseURL)
	setString("REDIS_ADDR", &cfg.RedisAddr)
	setString("INGEST_SCHEDULE", &cfg.Schedule)
	setString("LOCK_PATH", &cfg.LockPath)
	setString("PORT", &cfg.Port)
	setString("BASE_URL", &cfg.BaseURL)
	setString("API_TOKEN", &cfg.APIToken)

	if v := getenv("HTTP_TIMEOUT"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}
	if v := getenv("RATE_LIMIT"); v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT %q: %w", v, err)
		}
		cfg.RateLimit = f
	}
	if v := getenv("RATE_BURST"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_BURST %q: %w", v, err)
		}
		cfg.RateBurst = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.FeedURL == "" {
		return errors.New("feed URL is required")
	}
	if c.EpisodeFolder == "" {
		return errors.New("episode folder is required")
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL is required")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP timeout must be positive")
	}
	return nil
}
