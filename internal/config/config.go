// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for slashline.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.slashline/config.toml
//   - ~/.slashline/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/slashline/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete slashline configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Command catalog sources
	Catalog CatalogConfig `toml:"catalog" json:"catalog"`

	// Parameter grammar compilation
	Grammar GrammarConfig `toml:"grammar" json:"grammar"`

	// Logging output
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`

	// Line editor host
	REPL REPLConfig `toml:"repl" json:"repl"`

	// Completion journal
	Journal JournalConfig `toml:"journal" json:"journal"`
}

// CatalogConfig controls where commands come from.
type CatalogConfig struct {
	// File is a YAML, TOML or JSON command file (empty = built-ins only)
	File string `toml:"file" json:"file"`
	// Watch reloads File when it changes
	Watch bool `toml:"watch" json:"watch"`
	// Duplicates is the duplicate identifier policy: "reject", "shadow" or "replace"
	Duplicates string `toml:"duplicates" json:"duplicates"`
	// Builtins registers the demo commands (add, shout, repeat, hello, upper-all)
	Builtins bool `toml:"builtins" json:"builtins"`
	// ReloadDebounceMs waits for writes to settle before reloading
	ReloadDebounceMs int `toml:"reload_debounce_ms" json:"reload_debounce_ms"`
	// ReloadMinIntervalMs is the minimum time between two reloads
	ReloadMinIntervalMs int `toml:"reload_min_interval_ms" json:"reload_min_interval_ms"`
}

// GrammarConfig controls how parameter patterns are compiled.
type GrammarConfig struct {
	// Dialect is "default" (backtracking, lookarounds allowed) or "re2"
	Dialect string `toml:"dialect" json:"dialect"`
	// IgnoreCase matches parameter patterns case-insensitively
	IgnoreCase bool `toml:"ignore_case" json:"ignore_case"`
	// MatchTimeoutMs bounds a single grammar match (0 = no limit)
	MatchTimeoutMs int `toml:"match_timeout_ms" json:"match_timeout_ms"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level" json:"level"`
	// File receives logs; interactive hosts discard logs when empty
	File string `toml:"file" json:"file"`
	// Format is "json" or "console"
	Format string `toml:"format" json:"format"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// HintWidth truncates the hint line (0 = terminal width)
	HintWidth int `toml:"hint_width" json:"hint_width"`
	// Suggestions is the number of name suggestions shown while typing
	Suggestions int `toml:"suggestions" json:"suggestions"`
	// CopyOnComplete copies each replacement to the clipboard
	CopyOnComplete bool `toml:"copy_on_complete" json:"copy_on_complete"`
	// NoColor disables colour output
	NoColor bool `toml:"no_color" json:"no_color"`
	// Placeholder is shown in the empty input
	Placeholder string `toml:"placeholder" json:"placeholder"`
}

// REPLConfig contains line editor settings.
type REPLConfig struct {
	Prompt string `toml:"prompt" json:"prompt"`
	// HistoryFile persists input history (empty = ~/.slashline/history)
	HistoryFile string `toml:"history_file" json:"history_file"`
}

// JournalConfig controls the completion journal.
type JournalConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path of the SQLite database (empty = ~/.slashline/journal.db)
	Path string `toml:"path" json:"path"`
	// MaxEntries prunes older entries (0 = unlimited)
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Catalog: CatalogConfig{
			File:                "",
			Watch:               true,
			Duplicates:          "reject",
			Builtins:            true,
			ReloadDebounceMs:    200,
			ReloadMinIntervalMs: 1000,
		},

		Grammar: GrammarConfig{
			Dialect:        "default",
			IgnoreCase:     false,
			MatchTimeoutMs: 100,
		},

		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "json",
		},

		UI: UIConfig{
			HintWidth:      0,
			Suggestions:    5,
			CopyOnComplete: false,
			NoColor:        false,
			Placeholder:    "Type / for commands",
		},

		REPL: REPLConfig{
			Prompt:      "> ",
			HistoryFile: "",
		},

		Journal: JournalConfig{
			Enabled:    true,
			Path:       "",
			MaxEntries: 1000,
		},
	}
}

// MatchTimeout returns the grammar match timeout as a duration.
func (c *Config) MatchTimeout() time.Duration {
	return time.Duration(c.Grammar.MatchTimeoutMs) * time.Millisecond
}

// ReloadDebounce returns the catalog reload debounce as a duration.
func (c *Config) ReloadDebounce() time.Duration {
	return time.Duration(c.Catalog.ReloadDebounceMs) * time.Millisecond
}

// ReloadMinInterval returns the minimum time between catalog reloads.
func (c *Config) ReloadMinInterval() time.Duration {
	return time.Duration(c.Catalog.ReloadMinIntervalMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the slashline configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".slashline"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ExpandPath resolves a leading "~" to the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DataPath returns path expanded, or name inside the config directory when
// path is empty.
func DataPath(path, name string) (string, error) {
	if path != "" {
		return ExpandPath(path), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg, err := LoadFromPath(tomlPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			cfg, err := LoadFromPath(jsonPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
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
// validation. Values missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SetDefaults fills empty fields that have no meaningful zero value.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Catalog.Duplicates == "" {
		c.Catalog.Duplicates = defaults.Catalog.Duplicates
	}
	if c.Catalog.ReloadDebounceMs == 0 {
		c.Catalog.ReloadDebounceMs = defaults.Catalog.ReloadDebounceMs
	}
	if c.Catalog.ReloadMinIntervalMs == 0 {
		c.Catalog.ReloadMinIntervalMs = defaults.Catalog.ReloadMinIntervalMs
	}
	if c.Grammar.Dialect == "" {
		c.Grammar.Dialect = defaults.Grammar.Dialect
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = defaults.REPL.Prompt
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# slashline configuration file\n")
	buf.WriteString("# Generated by slashline - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
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

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Catalog
	validPolicies := map[string]bool{"reject": true, "shadow": true, "replace": true}
	if !validPolicies[strings.ToLower(c.Catalog.Duplicates)] {
		errs = append(errs, ValidationError{
			Field:   "catalog.duplicates",
			Message: fmt.Sprintf("invalid policy '%s', must be one of: reject, shadow, replace", c.Catalog.Duplicates),
		})
	}
	if c.Catalog.ReloadDebounceMs < 0 || c.Catalog.ReloadDebounceMs > 10000 {
		errs = append(errs, ValidationError{
			Field:   "catalog.reload_debounce_ms",
			Message: fmt.Sprintf("must be 0-10000, got %d", c.Catalog.ReloadDebounceMs),
		})
	}
	if c.Catalog.ReloadMinIntervalMs < 0 || c.Catalog.ReloadMinIntervalMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "catalog.reload_min_interval_ms",
			Message: fmt.Sprintf("must be 0-60000, got %d", c.Catalog.ReloadMinIntervalMs),
		})
	}
	if c.Catalog.File != "" {
		switch strings.ToLower(filepath.Ext(c.Catalog.File)) {
		case ".yaml", ".yml", ".toml", ".json":
		default:
			errs = append(errs, ValidationError{
				Field:   "catalog.file",
				Message: fmt.Sprintf("unsupported extension '%s', must be .yaml, .yml, .toml or .json", filepath.Ext(c.Catalog.File)),
			})
		}
	}

	// Grammar
	validDialects := map[string]bool{"default": true, "re2": true}
	if !validDialects[strings.ToLower(c.Grammar.Dialect)] {
		errs = append(errs, ValidationError{
			Field:   "grammar.dialect",
			Message: fmt.Sprintf("invalid dialect '%s', must be one of: default, re2", c.Grammar.Dialect),
		})
	}
	if c.Grammar.MatchTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "grammar.match_timeout_ms",
			Message: "must be non-negative",
		})
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: json, console", c.Logging.Format),
		})
	}

	// UI
	if c.UI.HintWidth < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.hint_width",
			Message: "must be non-negative",
		})
	}
	if c.UI.Suggestions < 0 || c.UI.Suggestions > 50 {
		errs = append(errs, ValidationError{
			Field:   "ui.suggestions",
			Message: fmt.Sprintf("must be 0-50, got %d", c.UI.Suggestions),
		})
	}

	// Journal
	if c.Journal.MaxEntries < 0 {
		errs = append(errs, ValidationError{
			Field:   "journal.max_entries",
			Message: "must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SLASHLINE_CATALOG: overrides catalog.file
//   - SLASHLINE_DUPLICATES: overrides catalog.duplicates
//   - SLASHLINE_DIALECT: overrides grammar.dialect
//   - SLASHLINE_LOG_LEVEL: overrides logging.level
//   - SLASHLINE_LOG_FILE: overrides logging.file
//   - SLASHLINE_JOURNAL: set to "0" or "false" to disable the journal
//   - SLASHLINE_NO_COLOR / NO_COLOR: disables colour output
func (c *Config) ApplyEnvOverrides() {
	if file := os.Getenv("SLASHLINE_CATALOG"); file != "" {
		c.Catalog.File = file
	}
	if policy := os.Getenv("SLASHLINE_DUPLICATES"); policy != "" {
		c.Catalog.Duplicates = policy
	}
	if dialect := os.Getenv("SLASHLINE_DIALECT"); dialect != "" {
		c.Grammar.Dialect = dialect
	}
	if level := os.Getenv("SLASHLINE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if file := os.Getenv("SLASHLINE_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
	if journal := os.Getenv("SLASHLINE_JOURNAL"); journal != "" {
		c.Journal.Enabled = parseBool(journal)
	}
	if noColor := os.Getenv("SLASHLINE_NO_COLOR"); noColor != "" {
		c.UI.NoColor = parseBool(noColor)
	}
	// https://no-color.org: any non-empty value disables colour
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "grammar.dialect").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookupField(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "grammar.dialect").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookupField(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookupField walks a dot-notation key down the config struct.
func (c *Config) lookupField(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"catalog.file",
		"catalog.watch",
		"catalog.duplicates",
		"catalog.builtins",
		"catalog.reload_debounce_ms",
		"catalog.reload_min_interval_ms",
		"grammar.dialect",
		"grammar.ignore_case",
		"grammar.match_timeout_ms",
		"logging.level",
		"logging.file",
		"logging.format",
		"ui.hint_width",
		"ui.suggestions",
		"ui.copy_on_complete",
		"ui.no_color",
		"ui.placeholder",
		"repl.prompt",
		"repl.history_file",
		"journal.enabled",
		"journal.path",
		"journal.max_entries",
	}
}

// Clone creates a copy of the configuration. Config holds no maps or
// slices, so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
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
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
