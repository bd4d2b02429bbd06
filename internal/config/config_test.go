package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.DBPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEVELCAT_SERVER", "https://cat.example.org")
	t.Setenv("LEVELCAT_TIMEOUT", "3s")
	t.Setenv("LEVELCAT_DB", "/tmp/levelcat.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://cat.example.org", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/levelcat.db", cfg.DBPath)
}
