/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the garage configuration
type Config struct {
	Garage  Garage  `yaml:"garage"`
	Logging Logging `yaml:"logging"`
	Output  Output  `yaml:"output"`
}

// Garage contains limits applied to garages and their records
type Garage struct {
	MaxVehicles          int `yaml:"max_vehicles"`
	MaxRecordSize        int `yaml:"max_record_size"`
	MaxDescriptionLength int `yaml:"max_description_length"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Output contains display configuration
type Output struct {
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Garage: Garage{
			MaxVehicles:          1024,
			MaxRecordSize:        4096,
			MaxDescriptionLength: 99,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Output: Output{
			Format: "table",
		},
	}
}

// Validate checks the configuration for values the garage cannot use
func (c *Config) Validate() error {
	var errs []error

	if c.Garage.MaxVehicles < 0 {
		errs = append(errs, fmt.Errorf("garage.max_vehicles must not be negative: %d", c.Garage.MaxVehicles))
	}
	if c.Garage.MaxRecordSize < 0 {
		errs = append(errs, fmt.Errorf("garage.max_record_size must not be negative: %d", c.Garage.MaxRecordSize))
	}
	if c.Garage.MaxDescriptionLength < 0 {
		errs = append(errs, fmt.Errorf("garage.max_description_length must not be negative: %d", c.Garage.MaxDescriptionLength))
	}
	// header + description + sentinel must fit
	if c.Garage.MaxRecordSize > 0 && c.Garage.MaxDescriptionLength+5 > c.Garage.MaxRecordSize {
		errs = append(errs, fmt.Errorf("garage.max_description_length %d does not fit in max_record_size %d",
			c.Garage.MaxDescriptionLength, c.Garage.MaxRecordSize))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level: %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format: %q", c.Logging.Format))
	}
	switch c.Output.Format {
	case "table", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown output.format: %q", c.Output.Format))
	}

	return errors.Join(errs...)
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes the default configuration to configPath
func BootstrapConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./garage.yaml"
	}

	// For Linux/macOS, use ~/.config/garage/config.yaml
	configDir := filepath.Join(homeDir, ".config", "garage")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
