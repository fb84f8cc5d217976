// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// the lifelink client.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env and environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.lifelink/config.toml
//   - ~/.lifelink/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/lifelink/lifelink-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lifelink client configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API is the platform REST API configuration.
	API APIConfig `toml:"api" json:"api"`

	// Chatbot is the chat-assistant service configuration.
	Chatbot ChatbotConfig `toml:"chatbot" json:"chatbot"`

	// History is the local chat-history persistence configuration.
	History HistoryConfig `toml:"history" json:"history"`

	// Storage holds local storage paths.
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration.
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains the platform backend endpoints.
type APIConfig struct {
	// BaseURL is the REST API base URL, e.g. https://api.lifelink.example/api/v1
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the request timeout for auth/domain API calls.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// ChatbotConfig contains the chatbot service endpoints.
type ChatbotConfig struct {
	// URL is the chatbot service base URL.
	URL string `toml:"url" json:"url"`
	// FallbackHealthURL is the absolute fallback health endpoint probed when
	// the primary health check fails. The production deployment pins this to
	// the hosted chatbot; it stays configurable rather than hardcoded.
	FallbackHealthURL string `toml:"fallback_health_url" json:"fallback_health_url"`
	// TimeoutSecs is the chat request timeout budget.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// HistoryConfig controls local transcript persistence.
type HistoryConfig struct {
	// TTLHours is how long a saved transcript stays valid.
	TTLHours int `toml:"ttl_hours" json:"ttl_hours"`
	// MaxMessages caps the persisted transcript length; oldest are dropped.
	MaxMessages int `toml:"max_messages" json:"max_messages"`
}

// StorageConfig holds local storage paths.
type StorageConfig struct {
	// Dir is the directory for the credential blob and chat history.
	// Empty means ~/.lifelink.
	Dir string `toml:"dir" json:"dir"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact layout.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowTimestamps displays message timestamps in the chat view.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:     "http://localhost:8000/api/v1",
			TimeoutSecs: 15,
		},

		Chatbot: ChatbotConfig{
			URL:               "http://localhost:8001",
			FallbackHealthURL: "https://chat.lifelink.example",
			TimeoutSecs:       30,
		},

		History: HistoryConfig{
			TTLHours:    24,
			MaxMessages: 100,
		},

		Storage: StorageConfig{
			Dir: "",
		},

		UI: UIConfig{
			Theme:          "dark",
			CompactMode:    false,
			ShowTimestamps: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the lifelink configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".lifelink"), nil
}

// PathTOML returns the path to the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the path to the JSON config file.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// StorageDir resolves the local storage directory, defaulting to the config
// directory when unset.
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return Dir()
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// A .env file in the working directory is loaded first (missing is fine),
// then TOML, then JSON, falling back to defaults. Environment overrides are
// applied last, then defaults and validation.
func Load() (*Config, error) {
	// Best-effort .env; absence is the normal case outside development.
	_ = godotenv.Load()

	cfg := Default()
	var loadErr error

	if tomlPath, err := PathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	if jsonPath, err := PathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err := finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. The format is chosen by extension; anything that is not
// .json decodes as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := PathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# lifelink configuration file")
	fmt.Fprintln(file, "# Generated by lifelink - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// validateURL checks a URL field and appends an error if it fails to parse
// or lacks a scheme and host.
func validateURL(errs ValidateErrors, field, raw string) ValidateErrors {
	u, err := url.Parse(raw)
	if err != nil {
		return append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid URL: %v", err)})
	}
	if u.Scheme == "" || u.Host == "" {
		return append(errs, ValidationError{Field: field, Message: fmt.Sprintf("URL must be absolute, got %q", raw)})
	}
	return errs
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	errs = validateURL(errs, "api.base_url", c.API.BaseURL)
	errs = validateURL(errs, "chatbot.url", c.Chatbot.URL)
	errs = validateURL(errs, "chatbot.fallback_health_url", c.Chatbot.FallbackHealthURL)

	if c.API.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be positive, got %d", c.API.TimeoutSecs),
		})
	}
	if c.Chatbot.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chatbot.timeout_secs",
			Message: fmt.Sprintf("must be positive, got %d", c.Chatbot.TimeoutSecs),
		})
	}
	if c.History.TTLHours <= 0 {
		errs = append(errs, ValidationError{
			Field:   "history.ttl_hours",
			Message: fmt.Sprintf("must be positive, got %d", c.History.TTLHours),
		})
	}
	if c.History.MaxMessages <= 1 {
		errs = append(errs, ValidationError{
			Field:   "history.max_messages",
			Message: fmt.Sprintf("must be greater than 1, got %d", c.History.MaxMessages),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.Chatbot.URL == "" {
		c.Chatbot.URL = defaults.Chatbot.URL
	}
	if c.Chatbot.FallbackHealthURL == "" {
		c.Chatbot.FallbackHealthURL = defaults.Chatbot.FallbackHealthURL
	}
	if c.Chatbot.TimeoutSecs == 0 {
		c.Chatbot.TimeoutSecs = defaults.Chatbot.TimeoutSecs
	}
	if c.History.TTLHours == 0 {
		c.History.TTLHours = defaults.History.TTLHours
	}
	if c.History.MaxMessages == 0 {
		c.History.MaxMessages = defaults.History.MaxMessages
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - LIFELINK_API_URL: overrides api.base_url
//   - LIFELINK_CHATBOT_URL: overrides chatbot.url
//   - LIFELINK_CHATBOT_FALLBACK_URL: overrides chatbot.fallback_health_url
//   - LIFELINK_STORAGE_DIR: overrides storage.dir
//   - LIFELINK_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LIFELINK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LIFELINK_CHATBOT_URL"); v != "" {
		c.Chatbot.URL = v
	}
	if v := os.Getenv("LIFELINK_CHATBOT_FALLBACK_URL"); v != "" {
		c.Chatbot.FallbackHealthURL = v
	}
	if v := os.Getenv("LIFELINK_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("LIFELINK_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
