package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, DefaultEpisodeFolder, cfg.EpisodeFolder)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "@daily", cfg.Schedule)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.LockPath)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"FEED_URL":        "https://example.com/feed.xml",
		"EPISODE_FOLDER":  "/data/audio",
		"DATABASE_DRIVER": "postgres",
		"DATABASE_URL":    "postgres://localhost/podcasts",
		"HTTP_TIMEOUT":    "15s",
		"RATE_LIMIT":      "0.5",
		"RATE_BURST":      "2",
		"LOCK_PATH":       "/run/ingest.lock",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/feed.xml", cfg.FeedURL)
	assert.Equal(t, "/data/audio", cfg.EpisodeFolder)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.Equal(t, 2, cfg.RateBurst)
	assert.Equal(t, "/run/ingest.lock", cfg.LockPath)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DATABASE_DRIVER": "mysql"}},
		{"bad timeout", map[string]string{"HTTP_TIMEOUT": "soon"}},
		{"bad burst", map[string]string{"RATE_BURST": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
