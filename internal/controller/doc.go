// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller drives slash command resolution for a text surface.
//
// A Controller is either Idle (nothing to complete) or Armed (the command
// under the cursor is valid and can be executed). Hosts call Sync after
// every text or cursor change and Complete when the user presses the
// completion key.
//
// # Key Types
//
//   - Surface: the host text buffer and cursor
//   - Controller: the two-state machine holding the current context
//   - Journal: optional sink for applied completions
//
// # Usage
//
//	ctrl := controller.New(catalog, controller.WithLogger(logger))
//	ctrl.OnChange(func(ctx *commands.CommandContext, s controller.Surface) {
//	    hint = commands.Hint(ctx)
//	})
//	ctrl.Sync(surface)
//	if ctrl.Complete(surface) { ... }
package controller
