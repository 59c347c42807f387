package config

import (
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Storage backend names accepted by STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all configuration for golist.
type Config struct {
	// HTTP
	HTTPAddr           string `conf:"default::9090,env:HTTP_ADDR"`
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute int    `conf:"default:100,env:RATE_LIMIT_PER_MINUTE"`

	// Storage
	StorageBackend    string `conf:"default:sqlite,enum:sqlite|redis|memory,env:STORAGE_BACKEND"`
	SQLitePath        string `conf:"default:golist.db,env:SQLITE_PATH"`
	RedisAddr         string `conf:"default:localhost:6379,env:REDIS_ADDR"`
	RedisKeyPrefix    string `conf:"default:golist,env:REDIS_KEY_PREFIX"`
	ListStorageKey    string `conf:"default:list-Items,env:LIST_STORAGE_KEY"`
	ThemeStorageKey   string `conf:"default:app-theme,env:THEME_STORAGE_KEY"`
	StorageQuotaBytes int    `conf:"default:5242880,env:STORAGE_QUOTA_BYTES"`

	// Application
	LogLevel string `conf:"default:info,env:LOG_LEVEL"`
}

// Load reads configuration from the environment (and a .env file when
// present) with defaults for everything. Command-line flags belong to the
// CLI, so conf only sees the program name.
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()

	args := os.Args
	os.Args = args[:1]
	defer func() { os.Args = args }()

	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
