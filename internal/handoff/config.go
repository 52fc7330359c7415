package handoff

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	Policy string `yaml:"policy"` // "fifo" (by default) or "lifo"
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		Policy: FIFO.String(),
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamp: unknown policies fall back to FIFO
	if _, err := ParsePolicy(cfg.Policy); err != nil {
		cfg.Policy = FIFO.String()
	}

	return cfg
}
