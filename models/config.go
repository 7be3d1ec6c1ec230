package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional YAML
// file; CLI flags override file values and defaults fill the rest.
type Config struct {
	// Model is the Gemini model used for structured scoring.
	Model string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
	// ProxyURL, when set, is prepended to the target URL so fetches go
	// through a rendering proxy instead of hitting the page directly.
	ProxyURL string `yaml:"proxy_url"`
	// TimeoutSec bounds a single content fetch.
	TimeoutSec int `yaml:"timeout_sec"`
	// MaxContentChars caps how much HTML is embedded into the prompt.
	MaxContentChars int `yaml:"max_content_chars"`
	// OutputDir is where exported workbooks are written.
	OutputDir string `yaml:"output_dir"`
	// DBPath overrides the default run-history database location.
	DBPath string `yaml:"db_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:           "gemini-2.5-flash",
		APIKeyEnv:       "GEMINI_API_KEY",
		TimeoutSec:      30,
		MaxContentChars: 30000,
		OutputDir:       ".",
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
// A missing path returns the defaults without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 30
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = 30000
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg, nil
}

// FetchTimeout returns the configured fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
