// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/slashline/internal/storage"
	"github.com/jeranaias/slashline/internal/util"
)

// errJournalDisabled is returned by history commands when journal.enabled is off.
var errJournalDisabled = errors.New("the completion journal is disabled (journal.enabled = false)")

// =============================================================================
// HISTORY COMMAND
// =============================================================================

// HistoryData is the JSON shape of the history command.
type HistoryData struct {
	Path    string                 `json:"path"`
	Total   int                    `json:"total"`
	Entries []storage.Entry        `json:"entries,omitempty"`
	Counts  []storage.CommandCount `json:"counts,omitempty"`
}

func (a *app) newHistoryCommand() *cobra.Command {
	var (
		command string
		limit   int
		stats   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show applied completions",
		Long: `Shows the completion journal: every command applied from the TUI, the
line editor or resolve --apply, newest first. With --stats, shows how
often each command was applied.`,
		Example: `  slashline history
  slashline history --command add --limit 5
  slashline history --stats --json
  slashline history prune --keep 50
  slashline history clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.historyJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			data := HistoryData{Path: j.Path()}
			if data.Total, err = j.Len(cmd.Context()); err != nil {
				return &CommandError{Command: "history", Action: "read journal", Err: err}
			}
			if stats {
				data.Counts, err = j.Counts(cmd.Context())
			} else {
				data.Entries, err = j.Recent(cmd.Context(), command, limit)
			}
			if err != nil {
				return &CommandError{Command: "history", Action: "read journal", Err: err}
			}

			if a.jsonOutput {
				return NewJSONResponse("history", data).Write(cmd.OutOrStdout())
			}
			if stats {
				printCounts(cmd.OutOrStdout(), data.Counts, data.Total)
			} else {
				printEntries(cmd.OutOrStdout(), data.Entries)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "only show completions of this command")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	cmd.Flags().BoolVar(&stats, "stats", false, "show completion counts per command")

	var keep int
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Keep only the newest entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return &ValidationError{Field: "keep", Value: fmt.Sprint(keep), Reason: "must be zero or more"}
			}
			j, err := a.historyJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			removed, err := j.Prune(cmd.Context(), keep)
			if err != nil {
				return &CommandError{Command: "history prune", Action: "prune journal", Err: err}
			}
			if a.jsonOutput {
				return NewJSONResponse("history prune", map[string]any{"path": j.Path(), "removed": removed}).Write(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed %d entries\n", RenderStatus("ok"), removed)
			return nil
		},
	}
	pruneCmd.Flags().IntVar(&keep, "keep", 100, "number of newest entries to keep")

	cmd.AddCommand(pruneCmd, &cobra.Command{
		Use:   "clear",
		Short: "Delete every journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.historyJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.Clear(cmd.Context()); err != nil {
				return &CommandError{Command: "history clear", Action: "clear journal", Err: err}
			}
			if a.jsonOutput {
				return NewJSONResponse("history clear", map[string]string{"path": j.Path()}).Write(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s journal cleared\n", RenderStatus("ok"))
			return nil
		},
	})
	return cmd
}

func (a *app) historyJournal() (*storage.Journal, error) {
	if !a.cfg.Journal.Enabled {
		return nil, &CommandError{Command: "history", Action: "open journal", Err: errJournalDisabled}
	}
	j, err := a.openJournal()
	if err != nil {
		return nil, &CommandError{Command: "history", Action: "open journal", Err: err}
	}
	return j, nil
}

func printEntries(w io.Writer, entries []storage.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No completions recorded."))
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\n",
			DimStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			TitleStyle.Render("/"+e.Command),
			DimStyle.Render("["+e.Controller+"]"))
		fmt.Fprintf(w, "  %s%s\n", RenderLabel("in:", 6), util.TruncateWidth(e.Input, 72))
		fmt.Fprintf(w, "  %s%s\n", RenderLabel("out:", 6), SuccessStyle.Render(util.TruncateWidth(e.Output, 72)))
	}
}

func printCounts(w io.Writer, counts []storage.CommandCount, total int) {
	if len(counts) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No completions recorded."))
		return
	}
	fmt.Fprintln(w, TitleStyle.Render("Completions per command"))
	fmt.Fprintln(w, RenderSeparator(32))
	for _, c := range counts {
		fmt.Fprintf(w, "%s%d\n", RenderLabel("/"+c.Command, 24), c.Count)
	}
	fmt.Fprintln(w, RenderSeparator(32))
	fmt.Fprintf(w, "%s%d\n", RenderLabel("Total", 24), total)
}
