package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config for the standalone admin tooling (cmd/cleanup). The sync service
// uses the yaml-backed internal/modules/config instead.
type Config struct {
	DB              string // .env: DATABASE_DSN
	DeleteChunkSize int    // .env: DELETE_CHUNK_SIZE (200)
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{
		DB:              os.Getenv("DATABASE_DSN"),
		DeleteChunkSize: intFromEnv("DELETE_CHUNK_SIZE", 200),
	}
	if cfg.DB == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	return cfg, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
