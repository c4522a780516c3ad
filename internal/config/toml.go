// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/termtypr/termtypr/internal/model"
)

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish unset keys from explicit values.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode              *string `toml:"mode"`
	Words             *int    `toml:"words"`
	SeparatorSkips    *bool   `toml:"separator-skips"`
	SkipCountsAsError *bool   `toml:"skip-counts-as-error"`
	TrendWindow       *int    `toml:"trend-window"`
}

// Load reads a TOML config from the given path. Missing file is not an error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Preferences applies config file values over the defaults.
func (c FileConfig) Preferences() model.Preferences {
	prefs := model.DefaultPreferences()
	if c.Practice.Words != nil {
		prefs.WordCount = *c.Practice.Words
	}
	if c.Practice.SeparatorSkips != nil {
		prefs.SeparatorSkips = *c.Practice.SeparatorSkips
	}
	if c.Practice.SkipCountsAsError != nil {
		prefs.SkipCountsAsError = *c.Practice.SkipCountsAsError
	}
	return prefs
}

// SavePreferences writes the preferences back to the config file,
// preserving a load-at-startup, persist-on-change lifecycle. Keys the
// preferences do not own, like mode and trend-window, are read back from the
// existing file and survive the write.
func SavePreferences(path string, prefs model.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	cfg.Practice.Words = &prefs.WordCount
	cfg.Practice.SeparatorSkips = &prefs.SeparatorSkips
	cfg.Practice.SkipCountsAsError = &prefs.SkipCountsAsError
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close; Encode errors are surfaced below.
			_ = cerr
		}
	}()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
