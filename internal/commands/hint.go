// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// Status labels shown after a hint.
const (
	ReadyLabel    = "Tab to apply"
	NotReadyLabel = "Not ready..."
)

// Hint renders the one-line guidance for a resolved command, e.g.
// "/add [a] [b] (Add two numbers together) - Tab to apply".
func Hint(ctx *CommandContext) string {
	if ctx == nil || ctx.Command == nil {
		return ""
	}

	hint := ctx.Command.Usage()
	if ctx.Command.Description != "" {
		hint += " (" + ctx.Command.Description + ")"
	}
	return hint + " - " + StatusLabel(ctx)
}

// StatusLabel tells whether the context can be completed.
func StatusLabel(ctx *CommandContext) string {
	if ctx != nil && ctx.Match.IsValid {
		return ReadyLabel
	}
	return NotReadyLabel
}
