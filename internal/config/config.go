package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults applied when a field is absent from config.json.
const (
	DefaultAgendaDays    = 7
	DefaultWatchSchedule = "@hourly"
)

// Config represents the flat stride configuration.
type Config struct {
	Version       string `json:"version"`
	Timezone      string `json:"timezone,omitempty"`       // IANA name; empty means the system local zone
	AgendaDays    int    `json:"agenda_days,omitempty"`    // default agenda horizon in days
	WatchSchedule string `json:"watch_schedule,omitempty"` // cron spec for the reseed watcher
}

// DefaultConfig returns a config with every default filled in.
func DefaultConfig() *Config {
	return &Config{
		Version:       "1",
		AgendaDays:    DefaultAgendaDays,
		WatchSchedule: DefaultWatchSchedule,
	}
}

// LoadConfig reads ~/.stride/config.json. A missing file is not an error;
// defaults are returned instead.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.AgendaDays <= 0 {
		cfg.AgendaDays = DefaultAgendaDays
	}
	if cfg.WatchSchedule == "" {
		cfg.WatchSchedule = DefaultWatchSchedule
	}
	return cfg, nil
}

// SaveConfig writes config.json under ~/.stride.
func SaveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Location resolves the configured timezone. An empty timezone means the
// system local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".stride", "config.json"), nil
}
