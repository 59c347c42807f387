package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "list-Items", cfg.ListStorageKey)
	assert.Equal(t, "app-theme", cfg.ThemeStorageKey)
	assert.Equal(t, 5<<20, cfg.StorageQuotaBytes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("STORAGE_QUOTA_BYTES", "0")
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Zero(t, cfg.StorageQuotaBytes)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "floppy")
	_, err := Load()
	assert.Error(t, err)
}
