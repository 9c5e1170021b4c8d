// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/slashline/internal/config"
	"github.com/jeranaias/slashline/internal/repl"
)

// =============================================================================
// REPL COMMAND
// =============================================================================

func (a *app) newREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Line editor that applies commands on Tab",
		Long: `Starts a line editor with input history. Tab completes command names
and applies a ready command in place. Each entered line is printed with
a ready command at its end applied; the hint of an incomplete command is
shown on stderr.

History is kept in ~/.slashline/history unless repl.history_file is set.`,
		Annotations: map[string]string{annotationInteractive: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTerminal(cmd); err != nil {
				return err
			}

			e, err := a.newEngine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.Close()

			history, err := config.DataPath(a.cfg.REPL.HistoryFile, "history")
			if err != nil {
				a.logger.Warn("History disabled", zap.Error(err))
				history = ""
			}

			session := repl.NewSession(repl.NewCompleter(e.catalog, e.controller), repl.Options{
				Prompt:      a.cfg.REPL.Prompt,
				HistoryFile: history,
				Out:         cmd.OutOrStdout(),
				Err:         cmd.ErrOrStderr(),
				Logger:      a.logger.Named("repl"),
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			g, gctx := errgroup.WithContext(ctx)
			if w := a.watcher(e, nil); w != nil {
				g.Go(func() error {
					if err := w.Run(gctx); err != nil {
						a.logger.Warn("Command file watcher stopped", zap.Error(err))
					}
					return nil
				})
			}
			g.Go(func() error {
				defer cancel()
				return session.Run(gctx)
			})

			runErr := g.Wait()
			if err := session.Close(); err != nil {
				a.logger.Warn("Failed to save history", zap.Error(err))
			}
			if runErr != nil {
				return &CommandError{Command: "repl", Action: "read input", Err: runErr}
			}
			return nil
		},
	}
}
