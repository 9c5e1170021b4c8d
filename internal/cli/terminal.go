// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal decisions for the slashline CLI.
//
// Every decision is made on the command's own streams, so tests that call
// SetIn/SetOut never see a terminal. Interactive hosts draw on stderr, so
// their colours follow stderr; everything else follows stdout.

package cli

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/slashline/internal/config"
)

// isTerminal reports whether a command's reader or writer is a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// interactiveStreams reports whether the user is typing at a terminal and
// reading the result on one.
func interactiveStreams(cmd *cobra.Command) bool {
	return isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())
}

// requireTerminal fails host commands started without a terminal on stdin.
func requireTerminal(cmd *cobra.Command) error {
	if !isTerminal(cmd.InOrStdin()) {
		return &TTYRequiredError{Operation: cmd.Name()}
	}
	return nil
}

// TTYRequiredError is returned when an interactive host has no terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation != "" {
		return "stdin is not a terminal; cannot run " + e.Operation + " interactively"
	}
	return "stdin is not a terminal; interactive input not available"
}

// =============================================================================
// COLOUR AND WIDTH
// =============================================================================

// colorProfile picks the profile for output written to w. ui.no_color and
// NO_COLOR disable colour, FORCE_COLOR enables it without a terminal.
// See https://no-color.org/.
func colorProfile(ui config.UIConfig, w io.Writer) termenv.Profile {
	switch {
	case ui.NoColor, os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case os.Getenv("FORCE_COLOR") != "":
		return termenv.ANSI256
	case !isTerminal(w):
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// Wrapping bounds for rendered listings.
const (
	defaultWidth = 80
	minWidth     = 40
)

// terminalWidth is the width of w, or defaultWidth when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return max(width, minWidth)
}
