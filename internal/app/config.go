package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	coredatabase "github.com/m3rciful/guidebot/core/database"
)

// DefaultContentPath is used when guide.content_path is not set.
const DefaultContentPath = "configs/guide.yaml"

// GuideConfig points at the guide content file.
type GuideConfig struct {
	ContentPath string `yaml:"content_path" envconfig:"CONTENT_PATH"`
}

// Config is the full bot configuration: the core sections plus the
// guide and events database.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Guide    GuideConfig         `yaml:"guide"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig returns the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads path, overlays the environment and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Guide.ContentPath) == "" {
		cfg.Guide.ContentPath = DefaultContentPath
	}
	if err := cfg.Database.Normalize(); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &cfg, nil
}
