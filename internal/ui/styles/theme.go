// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles of the slash input surface.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// INPUT LINE
	// ==========================================================================

	Prompt      lipgloss.Style
	InputText   lipgloss.Style
	Placeholder lipgloss.Style

	// ==========================================================================
	// HINT LINE
	// ==========================================================================

	HintUsage   lipgloss.Style
	HintDesc    lipgloss.Style
	HintReady   lipgloss.Style
	HintPending lipgloss.Style

	// ==========================================================================
	// SUGGESTIONS
	// ==========================================================================

	Suggestion         lipgloss.Style
	SuggestionSelected lipgloss.Style
	SuggestionDesc     lipgloss.Style

	// ==========================================================================
	// FOOTER
	// ==========================================================================

	Status lipgloss.Style
	Help   lipgloss.Style
	Error  lipgloss.Style
}

// NewTheme creates a theme for the detected terminal. With noColor every
// style renders plain text.
func NewTheme(noColor bool) *Theme {
	profile := termenv.ColorProfile()
	if noColor {
		profile = termenv.Ascii
	}
	return NewThemeWithProfile(profile)
}

// NewThemeWithProfile creates a theme for an explicit color profile and
// makes it the lipgloss default.
func NewThemeWithProfile(profile termenv.Profile) *Theme {
	lipgloss.SetColorProfile(profile)

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Prompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.InputText = lipgloss.NewStyle().Foreground(TextPrimary)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.HintUsage = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.HintDesc = lipgloss.NewStyle().Foreground(TextSecondary)
	t.HintReady = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.HintPending = lipgloss.NewStyle().Foreground(Amber)

	t.Suggestion = lipgloss.NewStyle().Foreground(TextPrimary).PaddingLeft(2)
	t.SuggestionSelected = lipgloss.NewStyle().
		Foreground(Purple).
		Background(SelectionBg).
		Bold(true).
		PaddingLeft(2)
	t.SuggestionDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.Status = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Help = lipgloss.NewStyle().Foreground(TextMuted)
	t.Error = lipgloss.NewStyle().Foreground(Rose).Bold(true)
}

// HintStatus returns the style for a hint whose context is ready or not.
func (t *Theme) HintStatus(ready bool) lipgloss.Style {
	if ready {
		return t.HintReady
	}
	return t.HintPending
}
