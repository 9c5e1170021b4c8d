// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/jeranaias/slashline/internal/commands"
)

// =============================================================================
// COMMANDS COMMAND
// =============================================================================

func (a *app) newCommandsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "commands [name]",
		Aliases: []string{"ls"},
		Short:   "List the available slash commands",
		Long: `Lists the commands of the catalog grouped by category: the built-ins
and those of the configured command file. With a name, shows one command
with its parameters and compiled grammar.`,
		Example: `  slashline commands
  slashline commands repeat
  slashline commands --all --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.newEngine(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			var list []*commands.Command
			if len(args) == 1 {
				c := e.catalog.Find(strings.TrimPrefix(args[0], string(commands.Marker)))
				if c == nil {
					return &NotFoundError{Resource: "command", ID: args[0]}
				}
				list = []*commands.Command{c}
			} else if all {
				list = e.catalog.All()
			} else {
				groups := e.catalog.ByCategory()
				categories := make([]string, 0, len(groups))
				for category := range groups {
					categories = append(categories, category)
				}
				sort.Strings(categories)
				for _, category := range categories {
					list = append(list, groups[category]...)
				}
			}

			data := make([]CommandData, 0, len(list))
			for _, c := range list {
				data = append(data, commandData(e.catalog, c))
			}

			if a.jsonOutput {
				return NewJSONResponse("commands", data).Write(cmd.OutOrStdout())
			}

			md := commandsMarkdown(data, len(args) == 1)
			out, err := a.renderMarkdown(md, terminalWidth(cmd.OutOrStdout()))
			if err != nil {
				// Fall back to the raw markdown
				out = md
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include hidden commands")
	return cmd
}

func commandData(catalog *commands.Catalog, c *commands.Command) CommandData {
	d := CommandData{
		Name:        c.Name,
		Usage:       c.Usage(),
		Description: c.Description,
		Category:    c.Category,
		Hidden:      c.Hidden,
	}
	if d.Category == "" {
		d.Category = "General"
	}
	for _, p := range c.Params {
		d.Params = append(d.Params, p.Name())
	}
	if g, err := catalog.Grammar(c.Name); err == nil {
		d.Grammar = g.Pattern()
	}
	return d
}

// commandsMarkdown renders the listing as markdown, one section per category.
func commandsMarkdown(data []CommandData, detail bool) string {
	var sb strings.Builder

	if detail && len(data) == 1 {
		d := data[0]
		fmt.Fprintf(&sb, "# `%s`\n\n", d.Usage)
		if d.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", d.Description)
		}
		fmt.Fprintf(&sb, "- **Category:** %s\n", d.Category)
		if len(d.Params) > 0 {
			fmt.Fprintf(&sb, "- **Parameters:** %s\n", strings.Join(d.Params, ", "))
		}
		if d.Hidden {
			sb.WriteString("- **Hidden:** yes\n")
		}
		if d.Grammar != "" {
			fmt.Fprintf(&sb, "\n```\n%s\n```\n", d.Grammar)
		}
		return sb.String()
	}

	groups := make(map[string][]CommandData)
	for _, d := range data {
		groups[d.Category] = append(groups[d.Category], d)
	}
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	sb.WriteString("# Commands\n")
	for _, category := range categories {
		group := groups[category]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })

		fmt.Fprintf(&sb, "\n## %s\n\n", category)
		for _, d := range group {
			fmt.Fprintf(&sb, "- `%s`", d.Usage)
			if d.Description != "" {
				fmt.Fprintf(&sb, " %s", d.Description)
			}
			if d.Hidden {
				sb.WriteString(" *(hidden)*")
			}
			sb.WriteString("\n")
		}
	}
	if len(data) == 0 {
		sb.WriteString("\nNo commands registered.\n")
	}
	return sb.String()
}

// renderMarkdown renders markdown wrapped at width, without colour when the
// command's profile has none.
func (a *app) renderMarkdown(md string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if a.profile == termenv.Ascii {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
