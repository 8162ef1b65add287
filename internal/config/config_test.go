package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
	assert.Equal(t, 15*time.Minute, cfg.FinalizeInterval)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8081"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("DATABASE_URL", "postgres://app:app@db:5432/app")
	t.Setenv("FINALIZE_POLL_INTERVAL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "postgres://app:app@db:5432/app", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.FinalizeInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_RejectsTightInterval(t *testing.T) {
	t.Setenv("FINALIZE_POLL_INTERVAL", "10s")

	_, err := FromEnv()
	assert.Error(t, err)
}
