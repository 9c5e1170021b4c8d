// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_NoColor(t *testing.T) {
	theme := NewTheme(true)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	if theme.ColorProfile != termenv.Ascii {
		t.Errorf("expected Ascii profile, got %v", theme.ColorProfile)
	}
	if theme.HasTrueColor {
		t.Error("Ascii theme should not report true color")
	}

	// Ascii renders no escape sequences
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Prompt", theme.Prompt},
		{"HintUsage", theme.HintUsage},
		{"HintReady", theme.HintReady},
		{"HintPending", theme.HintPending},
		{"Error", theme.Error},
	}
	for _, s := range styles {
		if got := s.style.Render("x"); got != "x" {
			t.Errorf("%s rendered %q with no color", s.name, got)
		}
	}
}

func TestNewThemeWithProfile_TrueColor(t *testing.T) {
	theme := NewThemeWithProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	if !theme.HasTrueColor {
		t.Error("TrueColor profile should report true color")
	}
	if got := theme.HintReady.Render("ready"); got == "ready" {
		t.Error("HintReady should be styled with a color profile")
	}
}

func TestHintStatus(t *testing.T) {
	theme := NewThemeWithProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	ready := theme.HintStatus(true).Render("Tab to apply")
	pending := theme.HintStatus(false).Render("Tab to apply")
	if ready == pending {
		t.Error("ready and pending hints should render differently")
	}
}
