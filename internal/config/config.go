// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Port           string
	StorageDriver  string
	SQLitePath     string
	DatabaseURL    string
	Namespace      string
	LogLevel       string
	UploadMaxBytes int64
}

// Load reads .env files when present and then the process environment.
// A missing .env is not an error; a malformed one is.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          getEnv("APP_PORT", "8080"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", "storefront.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Namespace:     getEnv("STORAGE_NAMESPACE", "shoe_store"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	raw := getEnv("UPLOAD_MAX_BYTES", "2097152")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return Config{}, fmt.Errorf("UPLOAD_MAX_BYTES must be a positive integer, got %q", raw)
	}
	cfg.UploadMaxBytes = n

	switch cfg.StorageDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
