// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands resolves inline slash commands typed into free text.
//
// Given the full text of an input surface and the cursor offset, the package
// locates the command token nearest the cursor, matches it against the
// declared argument grammar of a registered command, extracts typed argument
// values and reports whether the match is complete enough to execute.
//
// # Key Types
//
//   - Catalog: ordered set of commands with their compiled grammars
//   - Command: identifier, description, parameters and Execute hook
//   - ParamSpec: one argument's pattern, optionally with a Converter
//   - RawLocation: what Locate found around the cursor
//   - CommandContext: the resolved command, its match and the text partials
//   - Update: replacement produced by Execute, spliced back by the host
//   - Suggester: fuzzy name suggestions while an identifier is being typed
//
// # Usage
//
// Build a catalog and resolve on every keystroke:
//
//	catalog := commands.NewCatalog()
//	if err := catalog.AddAll(commands.Builtins()...); err != nil {
//	    return err
//	}
//
//	ctx := catalog.Resolve("sum: /add 2 3", 13)
//	if ctx != nil && ctx.Match.IsValid {
//	    if update := ctx.Command.Execute(ctx); update != nil {
//	        text, cursor := update.Apply(ctx) // "sum: 5", 6
//	    }
//	}
//
// Offsets are byte offsets into the UTF-8 text.
package commands
