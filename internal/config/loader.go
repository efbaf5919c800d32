package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// defaultPath is where the server and notifier binaries look for their
// shared YAML config when CONFIG_PATH is not set.
const defaultPath = "./config.yaml"

// Load reads configuration for both binaries. Priority: ENV > YAML >
// defaults (via env-default tags). A missing file is an error only when
// CONFIG_PATH names it explicitly; otherwise ENV + defaults suffice, which
// is how containerized deployments run.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
