// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalogfile loads user-defined slash commands from YAML, TOML or
// JSON files and keeps a catalog in sync with the file.
//
// A command file lists commands with their parameters and a text/template
// that produces the replacement:
//
//	commands:
//	  - name: greet
//	    description: Greet someone loudly
//	    params:
//	      - name: who
//	        kind: word
//	    template: "HEY {{upper .who}}!"
//
// Parameters take a kind (number, word, quoted, sentence) or a raw
// pattern. Commands without a template are preview-only.
//
// # Key Types
//
//   - File, CommandSpec, ParamDef: the decoded file
//   - Loader: builds commands and swaps them into a catalog
//   - Watcher: reloads on change (fsnotify, debounced and rate limited)
package catalogfile
