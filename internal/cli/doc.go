// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the slashline command line on cobra.
//
// # Commands
//
//   - (root): interactive input on a terminal, line-by-line resolution otherwise
//   - tui: Bubble Tea input with live hints and name suggestions
//   - repl: line editor with history; Tab completes and applies
//   - resolve: resolve (and optionally apply) the command at a cursor
//   - commands: list the catalog
//   - history: show or clear the completion journal
//   - config: show, get, set, path, init
//   - version
//
// Every command accepts --config, --verbose and --json. JSON output uses
// the JSONResponse envelope; errors map to exit codes through GetExitCode.
//
// Interactive commands draw on stderr and never log to it, so accepted
// text written to stdout can be captured by the caller.
package cli
