package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds client configuration, populated from LEVELCAT_* environment
// variables with defaults suitable for a local scoring service.
type Config struct {
	// ServerURL is the base URL of the adaptive scoring service.
	ServerURL string `env:"LEVELCAT_SERVER" envDefault:"http://localhost:8000"`

	// Timeout bounds a single request to the scoring service.
	Timeout time.Duration `env:"LEVELCAT_TIMEOUT" envDefault:"15s"`

	// DBPath overrides the local history database location. Empty means
	// the default XDG data path.
	DBPath string `env:"LEVELCAT_DB"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
