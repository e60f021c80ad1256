package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings for the talk tracker.
type Config struct {
	Port          string        `envconfig:"PORT" default:"8080"`
	DatabasePath  string        `envconfig:"DATABASE_PATH" default:"talktracker.db"`
	RemoteURL     string        `envconfig:"REMOTE_URL" default:""`
	RemoteTimeout time.Duration `envconfig:"REMOTE_TIMEOUT" default:"15s"`
	ProbeInterval time.Duration `envconfig:"PROBE_INTERVAL" default:"30s"`
	DrainOnStart  bool          `envconfig:"DRAIN_ON_START" default:"true"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment is the source of truth.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	return &cfg, nil
}
