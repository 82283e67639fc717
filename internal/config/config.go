// Package config reads the app configuration from environment variables.
// A .env file is honored when present (loaded by cmd/server before this
// package is asked for values).
package config

import (
	"fmt"
	"os"
)

// Config holds everything cmd/server needs to wire the app.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// UpstreamBaseURL is the ateliers REST API, e.g. "http://localhost:8081".
	UpstreamBaseURL string
	// DBPath is the SQLite file holding advisory client-side state.
	DBPath string
	// CSRFKeyHex is the 64-hex-char CSRF secret; required in production.
	CSRFKeyHex string
	// ResendKey enables real email delivery when set.
	ResendKey string
	// EmailFrom is the confirmation sender address.
	EmailFrom string
	// Env is "production" or anything else for development.
	Env string
}

// Load builds a Config from the environment with development defaults.
// POST: returns an error only when a production requirement is missing
func Load() (Config, error) {
	cfg := Config{
		Addr:            envOrDefault("ATELIERS_ADDR", ":8080"),
		UpstreamBaseURL: envOrDefault("ATELIERS_API_URL", "http://localhost:8081"),
		DBPath:          envOrDefault("ATELIERS_DB_PATH", "ateliers.db"),
		CSRFKeyHex:      os.Getenv("ATELIERS_CSRF_KEY"),
		ResendKey:       os.Getenv("ATELIERS_RESEND_KEY"),
		EmailFrom:       envOrDefault("ATELIERS_EMAIL_FROM", "Ateliers <noreply@ateliers.example>"),
		Env:             envOrDefault("ATELIERS_ENV", "development"),
	}
	if cfg.IsProduction() && cfg.CSRFKeyHex == "" {
		return Config{}, fmt.Errorf("ATELIERS_CSRF_KEY is required in production")
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
