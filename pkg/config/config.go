// Package config provides the optional tool configuration file. Every value
// has a flag equivalent; the file only saves retyping stable paths.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds tool defaults. Flags override anything set here.
type Config struct {
	// RPFMDir is the RPFM installation directory containing rpfm_cli.
	RPFMDir string `yaml:"rpfm_dir"`

	// PackPath is the game's data.pack.
	PackPath string `yaml:"pack_path"`

	// SchemaPath is the RPFM .ron schema for the game.
	SchemaPath string `yaml:"schema_path"`

	// Game is the rpfm_cli game identifier.
	Game string `yaml:"game"`

	// Dest is the default output directory for converted files.
	Dest string `yaml:"dest"`

	// SeqURL enables shipping logs to a Seq server when non-empty.
	SeqURL string `yaml:"seq_url"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game:     "warhammer_3",
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of the defaults. A missing path is
// not an error when it was never explicitly requested; callers decide.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that have a closed domain.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Game == "" {
		return fmt.Errorf("game must not be empty")
	}
	return nil
}
