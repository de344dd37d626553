// Package config loads hubble's process configuration from the environment,
// following the teacher's plain-struct-from-os.Getenv idiom: no flags, no
// third-party config framework.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the daemon needs to start.
type Config struct {
	// DataDir is the root under which cache/ and the sqlite file live.
	DataDir string
	// DatabaseURL is the sqlite DSN, e.g. "file:/data/hubble.db".
	DatabaseURL string
	Host        string
	Port        string
	LogLevel    string
	// RefreshInterval is how often the background sweep re-runs.
	RefreshInterval time.Duration
}

// Load reads Config from the environment. DATA_DIR and DATABASE_URL are
// required; everything else has a default. Call LoadEnvFile first if you
// want a .env file to seed the process environment.
func Load() (*Config, error) {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		return nil, fmt.Errorf("config: DATA_DIR must be set")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL must be set")
	}

	refresh := 4 * time.Hour
	if raw := os.Getenv("HUBBLE_REFRESH_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: HUBBLE_REFRESH_INTERVAL: %w", err)
		}
		refresh = parsed
	}

	return &Config{
		DataDir:         dataDir,
		DatabaseURL:     databaseURL,
		Host:            getEnv("HUBBLE_HOST", "0.0.0.0"),
		Port:            getEnv("HUBBLE_PORT", "8000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RefreshInterval: refresh,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
