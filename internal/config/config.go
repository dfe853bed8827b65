// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	Port       int
	DBPath     string
	StaticPath string
	JWTSecret  string
	TokenTTL   time.Duration
	CORSOrigin string
}

// defaultJWTSecret is only acceptable for local development.
const defaultJWTSecret = "dev-secret-change-me"

// Load reads an optional .env file and then the environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("No .env file loaded, using environment variables", "error", err)
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Port:       port,
		DBPath:     getEnv("DB_PATH", "./data/splitbill.db"),
		StaticPath: getEnv("STATIC_PATH", ""),
		JWTSecret:  getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:   ttl,
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
	}
	if cfg.JWTSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET not set, using development secret")
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
