// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package slash is the Bubble Tea host of the slash command surface: a
// single-line text input, a hint line for the command under the cursor and
// a suggestion list while an identifier is being typed.
//
// Tab applies the armed command, or inserts the selected suggestion when
// nothing is armed. Enter accepts the line and quits; Result returns it.
package slash
