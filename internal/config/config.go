// Package config loads calculator settings from a YAML file.
//
// Config file locations (priority order):
//  1. $GASNET_CONFIG
//  2. ./gasnet.yaml
//  3. $XDG_CONFIG_HOME/gasnet/config.yaml
//  4. ~/.config/gasnet/config.yaml
//  5. /etc/gasnet/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gasnet/calculator/internal/report"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "GASNET_CONFIG"
	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = "gasnet.yaml"
	// ConfigDirName is the config directory name under XDG.
	ConfigDirName = "gasnet"
)

// Config holds all settings.
type Config struct {
	Database string       `yaml:"database"`
	Output   string       `yaml:"output"`
	Formats  []string     `yaml:"formats"`
	LogLevel string       `yaml:"log_level"`
	Report   ReportConfig `yaml:"report"`
}

// ReportConfig holds report letterhead and row settings.
type ReportConfig struct {
	Header report.Header `yaml:"header"`
	// VelocityBasis is "propagated" (default) or "stored".
	VelocityBasis  string `yaml:"velocity_basis"`
	RequireProfile bool   `yaml:"require_profile"`
}

// DefaultConfig returns the settings used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = defaultDatabasePath()
	}
	if c.Output == "" {
		c.Output = "output"
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"markdown", "pdf"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Report.VelocityBasis == "" {
		c.Report.VelocityBasis = string(report.BasisPropagated)
	}
	if c.Report.Header.Version == "" {
		c.Report.Header.Version = "1.0.1"
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := report.ParseBasis(c.Report.VelocityBasis); err != nil {
		return fmt.Errorf("report.velocity_basis: %w", err)
	}
	return nil
}

// ReportOptions converts the report section into report.Options.
func (c *Config) ReportOptions() (report.Options, error) {
	basis, err := report.ParseBasis(c.Report.VelocityBasis)
	if err != nil {
		return report.Options{}, err
	}
	opts := report.DefaultOptions()
	opts.Header = c.Report.Header
	opts.Basis = basis
	opts.RequireProfile = c.Report.RequireProfile
	return opts, nil
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// FindConfigPath returns the first existing config file in priority order,
// or an empty string.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	systemPath := filepath.Join("/etc", ConfigDirName, "config.yaml")
	if fileExists(systemPath) {
		return systemPath
	}
	return ""
}

// defaultDatabasePath keeps the profile database next to the user's config,
// falling back to the working directory.
func defaultDatabasePath() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, ConfigDirName, "profile.db")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share", ConfigDirName, "profile.db")
	}
	return "gasnet.db"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
