// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultFaceVersion  = 2
	DefaultClockFormat  = ClockAuto
	DefaultHealthSource = SourceAuto
	DefaultDBusName     = "io.github.watchface.Health1"
)

// Clock formats.
const (
	ClockAuto = "auto"
	Clock12h  = "12h"
	Clock24h  = "24h"
)

// Health sources.
const (
	SourceAuto   = "auto"
	SourceDBus   = "dbus"
	SourceFile   = "file"
	SourceStatic = "static"
	SourceNone   = "none"
)

// Config represents the watchface configuration.
type Config struct {
	Face   FaceConfig   `toml:"face"`
	Clock  ClockConfig  `toml:"clock"`
	Health HealthConfig `toml:"health"`
	Log    LogConfig    `toml:"log"`
}

// FaceConfig selects which watch face version runs.
type FaceConfig struct {
	Version int `toml:"version"` // 1, 2 or 3
}

// ClockConfig holds the host clock display setting.
type ClockConfig struct {
	Format string `toml:"format"` // auto, 12h, 24h
}

// HealthConfig configures the health data source.
type HealthConfig struct {
	Source      string `toml:"source"`       // auto, dbus, file, static, none
	File        string `toml:"file"`         // Empty = default data path
	DBusName    string `toml:"dbus_name"`    // Well-known bus name of the health service
	StaticSteps int    `toml:"static_steps"` // Step count reported by the static source
}

// LogConfig holds log output settings.
type LogConfig struct {
	File string `toml:"file"` // Empty = default state path
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Face: FaceConfig{
			Version: DefaultFaceVersion,
		},
		Clock: ClockConfig{
			Format: DefaultClockFormat,
		},
		Health: HealthConfig{
			Source:   DefaultHealthSource,
			File:     "",
			DBusName: DefaultDBusName,
		},
		Log: LogConfig{
			File: "",
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "watchface", "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "watchface")
}

// StatePath returns the path to the state directory.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StatePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "watchface")
}

// HealthFilePath returns the health sample file, honouring the configured override.
func (c *Config) HealthFilePath() string {
	if c.Health.File != "" {
		return c.Health.File
	}
	return filepath.Join(DataPath(), "health.yaml")
}

// LogFilePath returns the log file, honouring the configured override.
func (c *Config) LogFilePath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(StatePath(), "watchface.log")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	switch c.Face.Version {
	case 1, 2, 3:
	default:
		return fmt.Errorf("invalid face version %d: must be 1, 2 or 3", c.Face.Version)
	}

	switch c.Clock.Format {
	case ClockAuto, Clock12h, Clock24h:
	default:
		return fmt.Errorf("invalid clock format %q: must be auto, 12h or 24h", c.Clock.Format)
	}

	switch c.Health.Source {
	case SourceAuto, SourceDBus, SourceFile, SourceStatic, SourceNone:
	default:
		return fmt.Errorf("invalid health source %q", c.Health.Source)
	}

	if c.Health.StaticSteps < 0 {
		return fmt.Errorf("invalid static_steps %d: must not be negative", c.Health.StaticSteps)
	}

	return nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
