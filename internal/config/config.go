// Package config loads configuration from the environment. A .env file, if
// present, is read first (godotenv), then the struct is parsed from the
// process environment (caarlos0/env) — real env vars win over .env entries.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8000"`
	// DBPath is the SQLite database file; the parent directory is created
	// on startup if needed.
	DBPath string `env:"DB_PATH" envDefault:"data/codebin.db"`
	// JWTSecret signs bearer tokens. Empty disables token auth entirely
	// (Basic auth still works).
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// CORSOrigins is the comma-separated list of allowed origins.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*"`
}

// Load reads .env (ignored when absent) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
