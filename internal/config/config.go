// Package config loads assistant configuration from an optional YAML file,
// with environment variables taking precedence for credentials and paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"
)

const (
	// DefaultPrimaryModel is the model used for every conversation turn.
	DefaultPrimaryModel = "gemini-2.5-flash"

	// DefaultLiteModel is the fallback model used when the primary is rate limited.
	DefaultLiteModel = "gemini-2.5-flash-lite"

	// DefaultTemperature keeps model output leaning deterministic so the
	// strict-JSON response contract holds.
	DefaultTemperature = 0.1
)

// Config holds all runtime settings for the assistant.
type Config struct {
	APIKey       string  `yaml:"api_key"`
	PrimaryModel string  `yaml:"primary_model"`
	LiteModel    string  `yaml:"lite_model"`
	Temperature  float32 `yaml:"temperature"`
	DataPath     string  `yaml:"data_path"`
}

// Default returns the built-in configuration. The data file lives under the
// user's home directory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		PrimaryModel: DefaultPrimaryModel,
		LiteModel:    DefaultLiteModel,
		Temperature:  DefaultTemperature,
		DataPath:     filepath.Join(home, ".expense-assistant", "ledger.db"),
	}
}

// Load reads the YAML config at path if it exists and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg.applyDefaults()
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if data := os.Getenv("EXPENSE_ASSISTANT_DATA"); data != "" {
		cfg.DataPath = data
	}

	return cfg, nil
}

// applyDefaults fills any fields the YAML file left empty.
func (c *Config) applyDefaults() {
	d := Default()
	if c.PrimaryModel == "" {
		c.PrimaryModel = d.PrimaryModel
	}
	if c.LiteModel == "" {
		c.LiteModel = d.LiteModel
	}
	if c.Temperature == 0 {
		c.Temperature = d.Temperature
	}
	if c.DataPath == "" {
		c.DataPath = d.DataPath
	}
}
