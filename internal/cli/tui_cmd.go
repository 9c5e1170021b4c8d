// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/slashline/internal/commands"
	"github.com/jeranaias/slashline/internal/ui/slash"
	"github.com/jeranaias/slashline/internal/ui/styles"
)

// =============================================================================
// TUI COMMAND
// =============================================================================

func (a *app) newTUICommand() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive input with live command hints",
		Long: `Starts a single-line input. While typing, the command under the cursor
is resolved and its hint is shown below the input. Tab applies a ready
command or inserts the selected name suggestion; Enter accepts the line
and prints it to stdout.

The interface is drawn on stderr so the accepted text can be piped:

  msg=$(slashline tui)`,
		Annotations: map[string]string{annotationInteractive: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, value)
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "initial text")
	return cmd
}

func (a *app) runTUI(cmd *cobra.Command, initial string) error {
	if err := requireTerminal(cmd); err != nil {
		return err
	}

	e, err := a.newEngine(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer e.Close()

	theme := styles.NewTheme(a.profile == termenv.Ascii)
	model := slash.New(e.controller, commands.NewSuggester(e.catalog), theme, slash.Options{
		Prompt:         a.cfg.REPL.Prompt,
		Placeholder:    a.cfg.UI.Placeholder,
		HintWidth:      a.cfg.UI.HintWidth,
		Suggestions:    a.cfg.UI.Suggestions,
		CopyOnComplete: a.cfg.UI.CopyOnComplete,
		Value:          initial,
	}, a.logger.Named("tui"))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	var final tea.Model
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		m, err := p.Run()
		final = m
		return err
	})
	if w := a.watcher(e, func(err error) { p.Send(slash.CatalogReloadedMsg{Err: err}) }); w != nil {
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				a.logger.Warn("Command file watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return &CommandError{Command: "tui", Action: "run interface", Err: err}
	}

	m, ok := final.(slash.Model)
	if !ok {
		return nil
	}
	if text, accepted := m.Result(); accepted {
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}
	return nil
}
