// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides string, offset and file helpers shared by the
// slashline hosts.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width truncation with ellipsis
//   - StringWidth: terminal display width (go-runewidth)
//   - ByteOffset, RuneOffset: cursor conversion between widgets and the engine
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// textinput reports rune positions, resolution expects bytes
//	cursor := util.ByteOffset(value, input.Position())
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
