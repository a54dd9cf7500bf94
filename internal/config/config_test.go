// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:8001", cfg.BackendURL)
	assert.Equal(t, "./exports", cfg.ExportDir)
	assert.True(t, cfg.UI.ThemeFromSources)
}

func TestConfigTOMLRoundTrip(t *testing.T) {
	raw := `
backend_url = "https://agent.internal:9000"
export_dir = "/tmp/out"

[ui]
glamour_style = "dark"
theme_from_sources = false
`
	cfg := Default()
	_, err := toml.Decode(raw, cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://agent.internal:9000", cfg.BackendURL)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, "dark", cfg.UI.GlamourStyle)
	assert.False(t, cfg.UI.ThemeFromSources)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCHOLAR_BACKEND_URL", "http://override:1234")
	t.Setenv("SCHOLAR_EXPORT_DIR", "/override/exports")

	cfg := Default()
	cfg.applyEnv()
	assert.Equal(t, "http://override:1234", cfg.BackendURL)
	assert.Equal(t, "/override/exports", cfg.ExportDir)
}
