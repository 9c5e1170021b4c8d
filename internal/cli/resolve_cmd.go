// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/slashline/internal/commands"
	"github.com/jeranaias/slashline/internal/controller"
	"github.com/jeranaias/slashline/internal/repl"
	"github.com/jeranaias/slashline/internal/util"
)

// =============================================================================
// RESOLVE COMMAND
// =============================================================================

func (a *app) newResolveCommand() *cobra.Command {
	var (
		cursor int
		apply  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [text]",
		Short: "Resolve the command under a cursor position",
		Long: `Resolves the slash command at a cursor position inside text and prints
the command context: the command, its extracted parameters and whether
it is ready to apply.

The cursor counts characters and defaults to the end of the text. With
--apply a ready command is executed and the rewritten text is printed.

Without a text argument each line of stdin is resolved with the cursor
at the end of the line.`,
		Example: `  slashline resolve "total: /add 2 3"
  slashline resolve --cursor 9 '/repeat 3 "ab" tail'
  slashline resolve --apply --json "/hello bob"
  echo "/upper-all make me loud" | slashline resolve --apply`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.resolveStream(cmd, cmd.InOrStdin(), apply)
			}
			return a.resolveOne(cmd, args[0], cursor, apply)
		},
	}

	cmd.Flags().IntVar(&cursor, "cursor", -1, "cursor position in characters (default: end of text)")
	cmd.Flags().BoolVar(&apply, "apply", false, "apply a ready command and print the result")
	return cmd
}

func (a *app) resolveOne(cmd *cobra.Command, text string, cursor int, apply bool) error {
	if cursor > util.RuneLen(text) {
		return &ValidationError{
			Field:  "cursor",
			Value:  fmt.Sprint(cursor),
			Reason: fmt.Sprintf("past the end of the text (%d characters)", util.RuneLen(text)),
		}
	}
	pos := len(text)
	if cursor >= 0 {
		pos = util.ByteOffset(text, cursor)
	}

	e, err := a.newEngine(cmd.Context(), apply)
	if err != nil {
		return err
	}
	defer e.Close()

	data := resolveData(e.controller, text, pos, apply)
	if a.jsonOutput {
		return NewJSONResponse("resolve", data).Write(cmd.OutOrStdout())
	}
	printResolve(cmd.OutOrStdout(), data)
	return nil
}

// resolveStream resolves every line of r with the cursor at its end.
// Plain output is the line with any ready command applied; --json writes
// one compact ResolveData per line.
func (a *app) resolveStream(cmd *cobra.Command, r io.Reader, apply bool) error {
	e, err := a.newEngine(cmd.Context(), apply)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	completer := repl.NewCompleter(e.catalog, e.controller)
	enc := json.NewEncoder(out)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if a.jsonOutput {
			if err := enc.Encode(resolveData(e.controller, line, len(line), apply)); err != nil {
				return err
			}
			continue
		}

		if !apply {
			fmt.Fprintln(out, line)
			if ctx := e.controller.Sync(controller.NewBuffer(line)); ctx != nil {
				stderrf(cmd, "%s\n", DimStyle.Render(commands.Hint(ctx)))
			}
			continue
		}

		res := completer.Accept(line)
		if res.Hint != "" {
			stderrf(cmd, "%s\n", WarningStyle.Render(res.Hint))
		}
		fmt.Fprintln(out, res.Text)
	}
	if err := scanner.Err(); err != nil {
		return &CommandError{Command: "resolve", Action: "read input", Err: err}
	}
	return nil
}

// resolveData resolves text at the byte offset pos and optionally applies
// the command.
func resolveData(ctrl *controller.Controller, text string, pos int, apply bool) ResolveData {
	buf := controller.NewBuffer(text)
	buf.SetCursor(pos)

	data := ResolveData{
		Input:  text,
		Cursor: util.RuneOffset(text, pos),
	}

	ctx := ctrl.Sync(buf)
	if ctx == nil {
		return data
	}

	data.Resolved = true
	data.Command = ctx.Command.Name
	data.Start = util.RuneOffset(text, ctx.Raw.StartPos)
	data.End = util.RuneOffset(text, ctx.EndPos())
	data.Full = ctx.Match.Full
	data.Valid = ctx.Match.IsValid
	data.Pre = ctx.Partials.Pre
	data.Post = ctx.Partials.Post
	data.Hint = commands.Hint(ctx)
	for _, p := range ctx.Match.Params {
		pd := ParamData{Name: p.Name, Raw: p.Raw, Present: p.Present, Value: p.Value}
		if p.Err != nil {
			pd.Error = p.Err.Error()
		}
		data.Params = append(data.Params, pd)
	}

	if apply && ctrl.State() == controller.Armed && ctrl.Complete(buf) {
		output := buf.Text()
		data.Output = &output
	}
	return data
}

func printResolve(w io.Writer, d ResolveData) {
	if !d.Resolved {
		fmt.Fprintf(w, "%s no command at cursor %d\n", RenderStatus("none"), d.Cursor)
		return
	}

	status := "pending"
	if d.Valid {
		status = "ready"
	}
	fmt.Fprintf(w, "%s %s\n", RenderStatus(status), TitleStyle.Render("/"+d.Command))
	fmt.Fprintf(w, "%s%q\n", RenderLabel("Match:", 12), d.Full)
	fmt.Fprintf(w, "%s%d-%d\n", RenderLabel("Span:", 12), d.Start, d.End)
	for _, p := range d.Params {
		value := DimStyle.Render("(missing)")
		if p.Present {
			value = ValueStyle.Render(fmt.Sprintf("%q", p.Raw))
		}
		if p.Error != "" {
			value += " " + ErrorStyle.Render(p.Error)
		}
		fmt.Fprintf(w, "%s%s\n", RenderLabel(p.Name+":", 12), value)
	}
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Hint:", 12), DimStyle.Render(d.Hint))
	if d.Output != nil {
		fmt.Fprintf(w, "%s%s\n", RenderLabel("Output:", 12), SuccessStyle.Render(*d.Output))
	}
}
