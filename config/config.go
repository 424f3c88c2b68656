// Package config loads the brainkey settings from a YAML file with environment overrides.
//
// The secret is passed through as an opaque string; whether it is long enough for deterministic generation is decided
// by the core's length gate, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-facing settings.
type Config struct {
	// Brainkey is the passphrase secret. Fewer than 16 bytes disables deterministic generation.
	Brainkey string `yaml:"brainkey"`

	// Curve is the group name to generate on (see the group package registry).
	Curve string `yaml:"curve"`
}

// Load reads the config from path. With an empty path, ~/.brainkey/config.yaml and ./brainkey.yaml are tried in
// order; a missing file yields an empty config rather than an error. The BRAINKEY and BRAINKEY_CURVE environment
// variables override file values.
func Load(path string) (*Config, error) {
	var cfg Config

	candidates := []string{path}
	if path == "" {
		candidates = candidates[:0]
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".brainkey", "config.yaml"))
		}
		candidates = append(candidates, "brainkey.yaml")
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			if path != "" {
				return nil, fmt.Errorf("config: reading %s: %w", candidate, err)
			}
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", candidate, err)
		}
		break
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BRAINKEY"); v != "" {
		cfg.Brainkey = v
	}
	if v := os.Getenv("BRAINKEY_CURVE"); v != "" {
		cfg.Curve = v
	}
}
