// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// Run with -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := Default()
			c.Grammar.Dialect = "re2"
			SetGlobal(c)
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_GlobalInitialization tests that Global() properly initializes
// the config on first access.
func TestConfig_GlobalInitialization(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}

	if cfg.Version == "" {
		t.Error("Config version should not be empty")
	}
	if cfg.Catalog.Duplicates == "" {
		t.Error("Catalog duplicate policy should not be empty")
	}
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ResetGlobalForTesting()
	_ = Global()

	customCfg := Default()
	customCfg.Version = "custom-version"
	customCfg.REPL.Prompt = "$ "
	SetGlobal(customCfg)

	result := Global()
	if result.Version != "custom-version" {
		t.Errorf("Expected version 'custom-version', got '%s'", result.Version)
	}
	if result.REPL.Prompt != "$ " {
		t.Errorf("Expected prompt '$ ', got '%s'", result.REPL.Prompt)
	}
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Catalog.Duplicates != "reject" {
		t.Errorf("Expected duplicate policy 'reject', got '%s'", cfg.Catalog.Duplicates)
	}
	if !cfg.Catalog.Builtins {
		t.Error("Default config should register built-in commands")
	}
	if cfg.Grammar.Dialect != "default" {
		t.Errorf("Expected dialect 'default', got '%s'", cfg.Grammar.Dialect)
	}
	if cfg.MatchTimeout() <= 0 {
		t.Error("Default config should bound grammar matches")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid default config", func(c *Config) {}, ""},
		{"invalid duplicate policy", func(c *Config) { c.Catalog.Duplicates = "merge" }, "catalog.duplicates"},
		{"shadow policy", func(c *Config) { c.Catalog.Duplicates = "Shadow" }, ""},
		{"unsupported catalog file", func(c *Config) { c.Catalog.File = "commands.ini" }, "catalog.file"},
		{"yaml catalog file", func(c *Config) { c.Catalog.File = "commands.yml" }, ""},
		{"invalid dialect", func(c *Config) { c.Grammar.Dialect = "pcre" }, "grammar.dialect"},
		{"negative timeout", func(c *Config) { c.Grammar.MatchTimeoutMs = -1 }, "grammar.match_timeout_ms"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"too many suggestions", func(c *Config) { c.UI.Suggestions = 51 }, "ui.suggestions"},
		{"negative journal size", func(c *Config) { c.Journal.MaxEntries = -5 }, "journal.max_entries"},
		{"debounce too long", func(c *Config) { c.Catalog.ReloadDebounceMs = 20000 }, "catalog.reload_debounce_ms"},
		{"negative reload interval", func(c *Config) { c.Catalog.ReloadMinIntervalMs = -1 }, "catalog.reload_min_interval_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error on %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want field %s", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("grammar.dialect")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "default" {
		t.Errorf("Get('grammar.dialect') = %v, want 'default'", val)
	}

	if err := cfg.Set("catalog.duplicates", "shadow"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Catalog.Duplicates != "shadow" {
		t.Errorf("Catalog.Duplicates after Set = %v, want 'shadow'", cfg.Catalog.Duplicates)
	}

	if err := cfg.Set("grammar.match_timeout_ms", "250"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Grammar.MatchTimeoutMs != 250 {
		t.Errorf("MatchTimeoutMs = %d, want 250", cfg.Grammar.MatchTimeoutMs)
	}

	if err := cfg.Set("ui.no_color", "yes"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !cfg.UI.NoColor {
		t.Error("ui.no_color should be true after Set")
	}

	if _, err := cfg.Get("invalid.key"); err == nil {
		t.Error("Get() with invalid key should return error")
	}
	if err := cfg.Set("catalog.watch.deep", true); err == nil {
		t.Error("Set() through a non-struct should return error")
	}
	if err := cfg.Set("ui.suggestions", "many"); err == nil {
		t.Error("Set() with a non-numeric value should return error")
	}
}

// TestConfig_AllKeysResolve checks every advertised key can be read.
func TestConfig_AllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error = %v", key, err)
		}
	}
}

// TestConfig_Clone tests that Clone creates an independent copy.
func TestConfig_Clone(t *testing.T) {
	original := Default()
	original.Version = "original"

	clone := original.Clone()
	clone.Version = "cloned"
	clone.UI.Suggestions = 9

	if original.Version != "original" || original.UI.Suggestions != 5 {
		t.Error("Clone should create an independent copy")
	}
}

// TestConfig_LoadFromPath tests loading TOML and JSON files over defaults.
func TestConfig_LoadFromPath(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "config.toml")
	tomlData := "[catalog]\nduplicates = \"shadow\"\nfile = \"~/cmds.yaml\"\n\n[grammar]\nignore_case = true\n"
	if err := os.WriteFile(tomlPath, []byte(tomlData), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromPath(toml) error = %v", err)
	}
	if cfg.Catalog.Duplicates != "shadow" {
		t.Errorf("Duplicates = %q, want shadow", cfg.Catalog.Duplicates)
	}
	if !cfg.Grammar.IgnoreCase {
		t.Error("IgnoreCase should be loaded from file")
	}
	// Untouched values keep their defaults
	if !cfg.Catalog.Builtins || cfg.REPL.Prompt != "> " {
		t.Error("Values missing from the file should keep defaults")
	}

	jsonPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(jsonPath, []byte(`{"logging": {"level": "debug"}}`), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFromPath(jsonPath)
	if err != nil {
		t.Fatalf("LoadFromPath(json) error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}

	badPath := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(badPath, []byte("[grammar]\ndialect = \"pcre\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(badPath); err == nil {
		t.Error("LoadFromPath should reject an invalid dialect")
	}
}

// TestConfig_SaveRoundTrip tests that a saved TOML file loads back.
func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.UI.HintWidth = 72
	cfg.Journal.Enabled = false
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.UI.HintWidth != 72 || loaded.Journal.Enabled {
		t.Errorf("loaded config does not match saved one: %s", loaded)
	}
}

// TestConfig_EnvOverrides tests SLASHLINE_* environment variables.
func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SLASHLINE_CATALOG", "/tmp/cmds.toml")
	t.Setenv("SLASHLINE_DUPLICATES", "replace")
	t.Setenv("SLASHLINE_LOG_LEVEL", "warn")
	t.Setenv("SLASHLINE_JOURNAL", "false")
	t.Setenv("NO_COLOR", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Catalog.File != "/tmp/cmds.toml" {
		t.Errorf("Catalog.File = %q", cfg.Catalog.File)
	}
	if cfg.Catalog.Duplicates != "replace" {
		t.Errorf("Catalog.Duplicates = %q", cfg.Catalog.Duplicates)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Journal.Enabled {
		t.Error("Journal should be disabled by SLASHLINE_JOURNAL=false")
	}
	if !cfg.UI.NoColor {
		t.Error("NO_COLOR should disable colour")
	}
}

// TestExpandPath tests home directory expansion.
func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("ExpandPath(~/x/y) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}

	got, err := DataPath("", "journal.db")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, ".slashline", "journal.db") {
		t.Errorf("DataPath() = %q", got)
	}
}
