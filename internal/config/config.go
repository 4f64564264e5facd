// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is loaded
// first when present, so local development needs no exported variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// StorageBackend selects the repository implementation: "memory" or
	// "postgres". Defaults to "memory" so the server runs with no setup.
	StorageBackend string

	// DatabaseURL is the Postgres connection string.
	// Required when StorageBackend is "postgres".
	DatabaseURL string

	// RedisAddr is the optional Redis host:port for the delivery cache.
	// Caching is disabled when empty.
	RedisAddr string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// SimulateDispatch enables the demo lifecycle simulator that assigns a
	// driver on creation and advances status on a timer. Off by default.
	SimulateDispatch bool

	// SimulatePickupDelay is how long the simulator waits after assignment
	// before marking a delivery picked up. Defaults to 30s.
	SimulatePickupDelay time.Duration

	// SimulateTransitDelay is how long the simulator waits after pickup
	// before marking a delivery in transit. Defaults to 60s.
	SimulateTransitDelay time.Duration
}

// Load reads configuration from the environment (and .env, if present) and
// returns a Config. Returns an error naming any invalid or missing values.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		StorageBackend:   getEnv("STORAGE_BACKEND", BackendMemory),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SimulateDispatch: getEnv("SIMULATE_DISPATCH", "false") == "true",
	}

	var err error
	if cfg.SimulatePickupDelay, err = getDuration("SIMULATE_PICKUP_DELAY", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SimulateTransitDelay, err = getDuration("SIMULATE_TRANSIT_DELAY", 60*time.Second); err != nil {
		return Config{}, err
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendMemory, BackendPostgres, cfg.StorageBackend)
	}

	if cfg.StorageBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("required environment variables not set: DATABASE_URL")
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses the environment variable named by key as a Go duration,
// falling back when unset.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
