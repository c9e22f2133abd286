// Package config loads and saves the echoline configuration file. The file
// is YAML, lives at ~/.config/echoline/config.yaml by default, and every
// field has a sensible zero-config default so a missing file is not an
// error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all echoline configuration.
type Config struct {
	API      APIConfig         `yaml:"api"`
	Defaults Defaults          `yaml:"defaults"`
	Presets  map[string]Preset `yaml:"presets,omitempty"`
}

// APIConfig selects the provider and its transport parameters.
type APIConfig struct {
	Provider          string   `yaml:"provider"`
	APIKey            string   `yaml:"api_key,omitempty"`
	Model             string   `yaml:"model"`
	TimeoutSeconds    int      `yaml:"timeout"`
	FallbackProviders []string `yaml:"fallback_providers,omitempty"`
}

// Defaults are the sampling parameters applied when the command line leaves
// them unset.
type Defaults struct {
	Temperature float32  `yaml:"temperature"`
	MaxTokens   *uint32  `yaml:"max_tokens,omitempty"`
	TopP        *float32 `yaml:"top_p,omitempty"`
	TopK        *uint32  `yaml:"top_k,omitempty"`
	Stream      bool     `yaml:"stream"`
}

// Preset is a named conversation seed: an optional system prompt plus
// optional leading messages.
type Preset struct {
	SystemPrompt string          `yaml:"system_prompt,omitempty"`
	Messages     []PresetMessage `yaml:"messages,omitempty"`
}

// PresetMessage is a plain role/text pair; presets carry text only.
type PresetMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// Default returns a Config with the zero-config defaults: the keyless "chat"
// provider, gpt-3.5-turbo, a 30 second timeout and temperature 0.7.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Provider:       "chat",
			Model:          "gpt-3.5-turbo",
			TimeoutSeconds: 30,
		},
		Defaults: Defaults{
			Temperature: 0.7,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(configDir, "echoline", "config.yaml"), nil
}

// Load reads the config file at path, layering it over the defaults. A
// missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cannot serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("cannot write config file %s: %w", path, err)
	}
	return nil
}

// Timeout returns the configured timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
