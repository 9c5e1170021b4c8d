// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package slash

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/slashline/internal/commands"
	"github.com/jeranaias/slashline/internal/controller"
	"github.com/jeranaias/slashline/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the slash input.
type Options struct {
	// Prompt shown before the input
	Prompt string

	// Placeholder shown while the input is empty
	Placeholder string

	// HintWidth caps the hint line (0 = terminal width)
	HintWidth int

	// Suggestions caps the suggestion list (0 hides it)
	Suggestions int

	// CopyOnComplete copies the text to the clipboard after each completion
	CopyOnComplete bool

	// Clipboard writes text to the clipboard. Nil uses the system clipboard.
	Clipboard func(text string) error

	// Value is the initial text
	Value string
}

// =============================================================================
// MESSAGES
// =============================================================================

// CatalogReloadedMsg tells the model the catalog changed underneath it.
type CatalogReloadedMsg struct {
	Err error
}

// copiedMsg reports the result of a clipboard write.
type copiedMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the slash input.
type Model struct {
	input      textinput.Model
	controller *controller.Controller
	suggester  *commands.Suggester
	theme      *styles.Theme
	keys       KeyMap
	help       help.Model
	opts       Options
	logger     *zap.Logger

	// Last resolved context; may be invalid (incomplete arguments)
	ctx *commands.CommandContext

	suggestions []commands.Suggestion
	selected    int

	status    string
	statusErr bool

	width     int
	submitted bool
	quitting  bool
}

// New creates the model. The controller decides what Tab applies; the
// suggester fills the list while no command is resolved.
func New(ctrl *controller.Controller, suggester *commands.Suggester, theme *styles.Theme, opts Options, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if theme == nil {
		theme = styles.NewTheme(false)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = opts.Prompt
	ti.Placeholder = opts.Placeholder
	ti.PromptStyle = theme.Prompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.Placeholder
	ti.Focus()
	if opts.Value != "" {
		ti.SetValue(opts.Value)
		ti.CursorEnd()
	}

	m := Model{
		input:      ti,
		controller: ctrl,
		suggester:  suggester,
		theme:      theme,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		opts:       opts,
		logger:     logger,
	}
	m.sync()
	return m
}

// Result returns the accepted text, or false when the user quit.
func (m Model) Result() (string, bool) {
	return m.input.Value(), m.submitted
}

// Value returns the current text.
func (m Model) Value() string {
	return m.input.Value()
}

// Context returns the last resolved command context.
func (m Model) Context() *commands.CommandContext {
	return m.ctx
}

// Suggestions returns the visible suggestions.
func (m Model) Suggestions() []commands.Suggestion {
	return m.suggestions
}

func (m *Model) surface() inputSurface {
	return inputSurface{input: &m.input}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - len(m.opts.Prompt) - 1; w > 0 {
			m.input.Width = w
		}
		return m, nil

	case CatalogReloadedMsg:
		if msg.Err != nil {
			m.setStatus("catalog reload failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("catalog reloaded", false)
		}
		m.sync()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("Clipboard write failed", zap.Error(msg.err))
			m.setStatus("copy failed: "+msg.err.Error(), true)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Accept):
			m.submitted = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Complete):
			return m, m.complete()

		case key.Matches(msg, m.keys.Next) && len(m.suggestions) > 0:
			m.selected = (m.selected + 1) % len(m.suggestions)
			return m, nil

		case key.Matches(msg, m.keys.Prev) && len(m.suggestions) > 0:
			m.selected--
			if m.selected < 0 {
				m.selected = len(m.suggestions) - 1
			}
			return m, nil
		}
	}

	prevValue, prevPos := m.input.Value(), m.input.Position()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != prevValue || m.input.Position() != prevPos {
		m.status = ""
		m.sync()
	}
	return m, cmd
}

// complete applies the armed command, or inserts the selected suggestion.
func (m *Model) complete() tea.Cmd {
	s := m.surface()

	if m.controller.State() == controller.Armed {
		name := m.controller.Current().Command.Name
		if !m.controller.Complete(s) {
			m.setStatus("/"+name+" has nothing to apply", false)
			return nil
		}
		m.sync()
		m.setStatus("applied /"+name, false)
		return m.copyCmd()
	}

	if len(m.suggestions) == 0 {
		return nil
	}
	name := m.suggestions[m.selected].Name
	text, cursor, ok := m.suggester.Insert(s.Text(), s.Cursor(), name)
	if !ok {
		return nil
	}
	s.SetText(text)
	s.SetCursor(cursor)
	m.sync()
	return nil
}

func (m *Model) copyCmd() tea.Cmd {
	if !m.opts.CopyOnComplete {
		return nil
	}
	text, write := m.input.Value(), m.opts.Clipboard
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

// sync re-resolves the command under the cursor.
func (m *Model) sync() {
	m.ctx = m.controller.Sync(m.surface())
	m.refreshSuggestions()
}

func (m *Model) refreshSuggestions() {
	var next []commands.Suggestion
	if m.ctx == nil && m.suggester != nil && m.opts.Suggestions > 0 {
		s := m.surface()
		next = m.suggester.Suggest(s.Text(), s.Cursor())
		if len(next) > m.opts.Suggestions {
			next = next[:m.opts.Suggestions]
		}
	}
	if !sameNames(m.suggestions, next) {
		m.selected = 0
	}
	m.suggestions = next
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}

func sameNames(a, b []commands.Suggestion) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
