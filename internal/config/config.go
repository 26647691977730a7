package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Stress  StressConfig  `toml:"stress" yaml:"stress"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type StressConfig struct {
	Duration       time.Duration `toml:"duration" yaml:"duration"`
	Entities       int           `toml:"entities" yaml:"entities"`
	Systems        int           `toml:"systems" yaml:"systems"`
	Components     int           `toml:"components" yaml:"components"` // max components per entity
	TickRate       time.Duration `toml:"tick_rate" yaml:"tick_rate"`
	Seed           uint64        `toml:"seed" yaml:"seed"` // 0 picks a random seed
	GCPauseMetrics bool          `toml:"gc_pause_metrics" yaml:"gc_pause_metrics"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Load reads a TOML or YAML file, chosen by extension, over Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}

	cfg := Defaults()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, eris.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Stress: StressConfig{
			Duration:   10 * time.Second,
			Entities:   10000,
			Systems:    50,
			Components: 5,
			TickRate:   time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects settings the stress harness cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Stress.Duration <= 0:
		return eris.New("stress.duration must be positive")
	case c.Stress.TickRate <= 0:
		return eris.New("stress.tick_rate must be positive")
	case c.Stress.Entities < 0:
		return eris.New("stress.entities must not be negative")
	case c.Stress.Systems < 0:
		return eris.New("stress.systems must not be negative")
	case c.Stress.Components < 1:
		return eris.New("stress.components must be at least 1")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return eris.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
