// Package config handles the quilt CLI settings file.
//
// Settings are stored at $XDG_CONFIG_HOME/quilt/config.yaml (defaults to
// ~/.config/quilt/config.yaml). They only feed CLI defaults; every value
// can be overridden per invocation with flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"quilt"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is where interface config files live unless the
// settings or a flag say otherwise.
const DefaultConfigDir = "/etc/quilt"

// Settings holds the CLI defaults.
type Settings struct {
	// ConfigDir is where interface config files are kept.
	ConfigDir string `yaml:"config_dir,omitempty"`

	// DataDir is reserved for future runtime state.
	DataDir string `yaml:"data_dir,omitempty"`

	// Keepalive overrides the network-wide persistent keepalive interval
	// in seconds. Zero means the built-in default.
	Keepalive uint16 `yaml:"keepalive,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Path returns the settings file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/quilt/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "quilt", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "quilt", "config.yaml")
}

// Load reads the settings file. If the file does not exist, zero
// settings are returned (not an error).
func Load() (*Settings, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &s, nil
}

// Save writes the settings to disk, creating directories as needed.
func (s *Settings) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// EffectiveConfigDir returns ConfigDir or the built-in default.
func (s *Settings) EffectiveConfigDir() string {
	if s.ConfigDir != "" {
		return s.ConfigDir
	}
	return DefaultConfigDir
}

// EffectiveKeepalive returns Keepalive or the built-in default.
func (s *Settings) EffectiveKeepalive() uint16 {
	if s.Keepalive != 0 {
		return s.Keepalive
	}
	return quilt.DefaultPersistentKeepalive
}
