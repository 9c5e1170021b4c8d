// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the palette and lipgloss styles of the slash input
surface.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. NewTheme selects the termenv color profile; passing noColor
forces termenv.Ascii so hints and suggestions render as plain text:

	theme := styles.NewTheme(cfg.UI.NoColor)
	line := theme.HintStatus(ctx.Match.IsValid).Render(commands.StatusLabel(ctx))

Status messages pair color with an ASCII indicator ([OK], [X], [!], [i])
so state is readable without color.
*/
package styles
