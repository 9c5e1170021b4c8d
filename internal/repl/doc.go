// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package repl is the line editor host of the slash command surface, built
// on peterh/liner. Tab applies the command under the cursor when it is
// ready, or cycles through command names while one is being typed. Enter
// applies a ready command at the end of the line and prints the result.
package repl
