// Package config loads process configuration once at startup. The
// resulting Config is passed down explicitly and never mutated — there
// is no module-level state to reach for.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultSecretKey signs flash cookies when SECRET_KEY is unset. Fine for
// development; production deployments should override it.
const DefaultSecretKey = "feedback-app-secret-key-change-in-production"

// Config holds everything the server needs to run.
type Config struct {
	Port        int
	DBPath      string
	TemplateDir string
	StaticDir   string
	SecretKey   string
}

// Load reads configuration from the environment, after loading a .env
// file if one exists in the working directory. Missing variables fall
// back to development defaults.
func Load() (Config, error) {
	// A missing .env file is not an error; env vars may come from anywhere.
	_ = godotenv.Load()

	cfg := Config{
		Port:        8080,
		DBPath:      "data/feedback.db",
		TemplateDir: "web/templates",
		StaticDir:   "web/static",
		SecretKey:   DefaultSecretKey,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}

	return cfg, nil
}
