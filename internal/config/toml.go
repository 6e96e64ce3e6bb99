// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play   PlayConfig             `toml:"play"`
	Stages map[string]StageConfig `toml:"stages"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Stage      *string `toml:"stage"`
	Difficulty *string `toml:"difficulty"`
	Shuffle    *bool   `toml:"shuffle"`
}

// StageConfig describes a custom stage. Prompts from PromptsFile are appended after Prompts.
type StageConfig struct {
	Title       string   `toml:"title"`
	Prompts     []string `toml:"prompts"`
	PromptsFile string   `toml:"prompts-file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
