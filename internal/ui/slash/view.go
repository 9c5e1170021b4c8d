// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package slash

import (
	"strings"

	"github.com/jeranaias/slashline/internal/commands"
	"github.com/jeranaias/slashline/internal/ui/styles"
	"github.com/jeranaias/slashline/internal/util"
)

const defaultWidth = 80

// View renders the input, the hint line, suggestions and the footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if hint := m.renderHint(); hint != "" {
		b.WriteString(hint)
		b.WriteString("\n")
	}

	for i, s := range m.suggestions {
		b.WriteString(m.renderSuggestion(s, i == m.selected))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) hintWidth() int {
	switch {
	case m.opts.HintWidth > 0:
		return m.opts.HintWidth
	case m.width > 0:
		return m.width
	default:
		return defaultWidth
	}
}

// renderHint draws the hint for the resolved command. Hints that do not
// fit are truncated as plain text, then styled as a whole.
func (m Model) renderHint() string {
	if m.ctx == nil {
		return ""
	}
	ready := m.ctx.Match.IsValid
	width := m.hintWidth()

	plain := commands.Hint(m.ctx)
	if util.StringWidth(plain) > width {
		return m.theme.HintStatus(ready).Render(util.TruncateWidth(plain, width))
	}

	cmd := m.ctx.Command
	parts := []string{m.theme.HintUsage.Render(cmd.Usage())}
	if cmd.Description != "" {
		parts = append(parts, m.theme.HintDesc.Render("("+cmd.Description+")"))
	}
	parts = append(parts, m.theme.HintDesc.Render("-"), m.theme.HintStatus(ready).Render(commands.StatusLabel(m.ctx)))
	return strings.Join(parts, " ")
}

func (m Model) renderSuggestion(s commands.Suggestion, selected bool) string {
	line := s.Display
	if selected {
		line = m.theme.SuggestionSelected.Render(line)
	} else {
		line = m.theme.Suggestion.Render(line)
	}
	if s.Description == "" {
		return line
	}
	room := m.hintWidth() - util.StringWidth(s.Display) - 4
	if room <= 0 {
		return line
	}
	return line + "  " + m.theme.SuggestionDesc.Render(util.TruncateWidth(s.Description, room))
}

func (m Model) renderFooter() string {
	if m.status != "" {
		if m.statusErr {
			return styles.RenderError(m.status)
		}
		return m.theme.Status.Render(m.status)
	}
	return m.help.View(m.keys)
}
