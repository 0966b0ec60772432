package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseName  string `env:"DATABASE_NAME" envDefault:"whereabouts"`
	SQLitePath    string `env:"SQLITE_PATH"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
}

func LoadConfig() (*Config, error) {
	// A .env file is optional; the environment wins either way
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.SQLitePath == "" {
		// Default to a data directory in the current directory
		cfg.SQLitePath = filepath.Join("data", fmt.Sprintf("%s.db", cfg.DatabaseName))
	}

	return cfg, nil
}
