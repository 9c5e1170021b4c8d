// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for slashline.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - CatalogConfig: Command file, hot reload and duplicate policy
//   - GrammarConfig: Parameter pattern dialect and match timeout
//   - LoggingConfig, UIConfig, REPLConfig, JournalConfig: host settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SLASHLINE_*)
//   - ~/.slashline/config.toml
//   - ~/.slashline/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.MatchTimeout()
package config
