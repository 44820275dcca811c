// Package config loads the aimsledger settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/aimsledger/internal/airframe"
	"github.com/bryan-cox/aimsledger/internal/roster"
)

// Config holds all user-facing configuration for aimsledger.
type Config struct {
	// MinRest is the shortest gap between sectors that starts a new duty.
	MinRest      time.Duration  `yaml:"min_rest"`
	Timezone     string         `yaml:"timezone"`
	FirstOfficer bool           `yaml:"first_officer"`
	Airframe     AirframeConfig `yaml:"airframe"`
	Server       ServerConfig   `yaml:"server"`
}

// AirframeConfig points at the registration/type lookup service. An empty
// URL disables the lookup.
type AirframeConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP service started by the serve command.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		MinRest:  roster.DefaultMinRest,
		Timezone: "UTC",
		Airframe: AirframeConfig{Timeout: airframe.DefaultTimeout},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Load reads a YAML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse YAML from '%s': %w", path, err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the configured time zone used for rendering.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
