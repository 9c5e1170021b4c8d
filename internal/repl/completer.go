// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repl

import (
	"strings"

	"github.com/jeranaias/slashline/internal/commands"
	"github.com/jeranaias/slashline/internal/controller"
	"github.com/jeranaias/slashline/internal/util"
)

// Completer adapts the controller and suggester to liner's word completer.
type Completer struct {
	catalog    *commands.Catalog
	controller *controller.Controller
	suggester  *commands.Suggester
}

// NewCompleter creates a completer over catalog.
func NewCompleter(catalog *commands.Catalog, ctrl *controller.Controller) *Completer {
	return &Completer{
		catalog:    catalog,
		controller: ctrl,
		suggester:  commands.NewSuggester(catalog),
	}
}

// Complete implements liner.WordCompleter. pos counts runes.
//
// A ready command is applied and returned as a single empty completion so
// liner keeps the rewritten line. Otherwise the command word under the
// cursor is completed from the suggestions.
func (c *Completer) Complete(line string, pos int) (head string, completions []string, tail string) {
	cursor := util.ByteOffset(line, pos)

	buf := controller.NewBuffer(line)
	buf.SetCursor(cursor)
	c.controller.Sync(buf)

	if c.controller.State() == controller.Armed {
		if !c.controller.Complete(buf) {
			return line[:cursor], nil, line[cursor:]
		}
		text, at := buf.Text(), buf.Cursor()
		return text[:at], []string{""}, text[at:]
	}

	start, end, ok := commands.CommandToken(line, cursor)
	if !ok {
		return line[:cursor], nil, line[cursor:]
	}
	tail = line[end:]
	for _, s := range c.suggester.Suggest(line, cursor) {
		word := string(commands.Marker) + s.Name
		if cmd := c.catalog.Find(s.Name); cmd != nil && len(cmd.Params) > 0 && !strings.HasPrefix(tail, " ") {
			word += " "
		}
		completions = append(completions, word)
	}
	return line[:start], completions, tail
}

// Result is the outcome of accepting a line.
type Result struct {
	// Text is the line after any applied command
	Text string

	// Applied names the command that rewrote the line
	Applied string

	// Hint describes a command at the end of the line that is not ready
	Hint string
}

// Accept resolves the command at the end of line and applies it when
// ready.
func (c *Completer) Accept(line string) Result {
	buf := controller.NewBuffer(line)
	ctx := c.controller.Sync(buf)

	switch {
	case ctx == nil:
		return Result{Text: line}
	case c.controller.State() == controller.Armed && c.controller.Complete(buf):
		return Result{Text: buf.Text(), Applied: ctx.Command.Name}
	case !ctx.Match.IsValid:
		return Result{Text: line, Hint: commands.Hint(ctx)}
	default:
		return Result{Text: line}
	}
}
