// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for scholar-tui.
//
// Supports a TOML configuration file with sensible defaults and environment
// variable overrides.
//
// Configuration file location: ~/.scholar/config.toml
// Environment overrides: SCHOLAR_BACKEND_URL, SCHOLAR_EXPORT_DIR
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete scholar-tui configuration.
type Config struct {
	// BackendURL is the base URL of the research agent backend.
	BackendURL string `toml:"backend_url"`

	// ExportDir is where exported documents are written.
	ExportDir string `toml:"export_dir"`

	// UI configuration.
	UI UIConfig `toml:"ui"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// GlamourStyle is the markdown rendering style ("dark", "light", "auto").
	GlamourStyle string `toml:"glamour_style"`

	// ThemeFromSources enables palette extraction from citation sources.
	ThemeFromSources bool `toml:"theme_from_sources"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		BackendURL: "http://localhost:8001",
		ExportDir:  "./exports",
		UI: UIConfig{
			GlamourStyle:     "auto",
			ThemeFromSources: true,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Path returns the config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".scholar", "config.toml"), nil
}

// Load reads the configuration: defaults, then the config file if present,
// then environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCHOLAR_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("SCHOLAR_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
}
