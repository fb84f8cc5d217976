// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.Chatbot.TimeoutSecs)
	assert.Equal(t, 24, cfg.History.TTLHours)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative api url", func(c *Config) { c.API.BaseURL = "localhost:8000" }},
		{"empty chatbot url", func(c *Config) { c.Chatbot.URL = "" }},
		{"zero timeout", func(c *Config) { c.Chatbot.TimeoutSecs = -1 }},
		{"zero ttl", func(c *Config) { c.History.TTLHours = -5 }},
		{"max messages too small", func(c *Config) { c.History.MaxMessages = 1 }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
	assert.Equal(t, Default().Chatbot.TimeoutSecs, cfg.Chatbot.TimeoutSecs)
	assert.Equal(t, Default().History.MaxMessages, cfg.History.MaxMessages)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "https://api.example.org/api/v1"

[chatbot]
url = "https://bot.example.org"
timeout_secs = 10

[history]
ttl_hours = 12
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "https://bot.example.org", cfg.Chatbot.URL)
	assert.Equal(t, 10, cfg.Chatbot.TimeoutSecs)
	assert.Equal(t, 12, cfg.History.TTLHours)
	// Unset fields take defaults.
	assert.Equal(t, Default().History.MaxMessages, cfg.History.MaxMessages)
}

func TestLoadFromPath_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"chatbot": {"url": "https://bot.example.org"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example.org", cfg.Chatbot.URL)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LIFELINK_API_URL", "https://override.example.org/api/v1")
	t.Setenv("LIFELINK_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "https://override.example.org/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir) // keep EnsureDir inside the sandbox

	cfg := Default()
	cfg.API.BaseURL = "https://roundtrip.example.org/api/v1"
	path := filepath.Join(dir, "config.json")

	require.NoError(t, SaveJSON(cfg, path))

	loaded := Default()
	require.NoError(t, LoadJSON(loaded, path))
	assert.Equal(t, cfg.API.BaseURL, loaded.API.BaseURL)
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, isConfigFile("/home/x/.lifelink/config.toml"))
	assert.True(t, isConfigFile("config.json"))
	assert.False(t, isConfigFile("/home/x/.lifelink/credentials.json"))
}
