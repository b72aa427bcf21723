// Package config provides configuration loading and validation for the site server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the file configuration that can be loaded from a YAML or JSON file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	Port               int    `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Domain             string `json:"domain,omitempty" yaml:"domain,omitempty" validate:"omitempty,url"`
	SiteName           string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Locale             string `json:"locale,omitempty" yaml:"locale,omitempty" validate:"omitempty,min=2,max=16"`
	DatabaseURL        string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	Fixture            string `json:"fixture,omitempty" yaml:"fixture,omitempty"` // Content fixture replacing the CMS
	CacheSize          int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty" validate:"omitempty,min=1"`
	RevalidateEndpoint string `json:"revalidate_endpoint,omitempty" yaml:"revalidate_endpoint,omitempty" validate:"omitempty,url"`
}

// LoadConfig loads configuration from a YAML (.yaml, .yml) or JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Fixture != "" {
		if _, err := os.Stat(c.Fixture); os.IsNotExist(err) {
			return fmt.Errorf("config error: fixture file not found: %s", c.Fixture)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Domain == "" {
		result.Domain = defaults.Domain
	}
	if result.SiteName == "" {
		result.SiteName = defaults.SiteName
	}
	if result.Locale == "" {
		result.Locale = defaults.Locale
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Fixture == "" {
		result.Fixture = defaults.Fixture
	}
	if result.RevalidateEndpoint == "" {
		result.RevalidateEndpoint = defaults.RevalidateEndpoint
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CacheSize == 0 {
		result.CacheSize = defaults.CacheSize
	}

	return result
}
