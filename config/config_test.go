package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CATALOG_API_URL", "https://api.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.CatalogAPIURL)
	assert.Equal(t, cfg.CatalogAPIURL, cfg.UsersAPIURL)
	assert.Empty(t, cfg.GameAPIURL)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 30*time.Minute, cfg.SnapshotInterval)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingCatalogURL(t *testing.T) {
	t.Setenv("CATALOG_API_URL", "")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "CATALOG_API_URL", cfgErr.Var)
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{"relative url", "GAME_API_URL", "/game"},
		{"bad duration", "SEARCH_DEBOUNCE", "soon"},
		{"negative duration", "SNAPSHOT_INTERVAL", "-1m"},
		{"bad bool", "RATE_LIMIT_ENABLED", "maybe"},
		{"zero burst", "RATE_LIMIT_BURST", "0"},
		{"bad rps", "RATE_LIMIT_RPS", "fast"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CATALOG_API_URL", "http://localhost:8000")
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.key, cfgErr.Var)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_API_URL", "http://localhost:8000")
	t.Setenv("GAME_API_URL", "http://localhost:9000/")
	t.Setenv("USERS_API_URL", "http://localhost:7000")
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.GameAPIURL)
	assert.Equal(t, "http://localhost:7000", cfg.UsersAPIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.False(t, cfg.RateLimitEnabled)
}
