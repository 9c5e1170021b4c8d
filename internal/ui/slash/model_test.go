// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package slash

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/slashline/internal/commands"
	"github.com/jeranaias/slashline/internal/controller"
	"github.com/jeranaias/slashline/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type memJournal struct {
	entries []controller.Completion
}

func (j *memJournal) Record(_ context.Context, c controller.Completion) error {
	j.entries = append(j.entries, c)
	return nil
}

func newTestModel(t *testing.T, opts Options, ctrlOpts ...controller.Option) Model {
	t.Helper()
	catalog := commands.NewCatalog()
	require.NoError(t, catalog.AddAll(commands.Builtins()...))

	if opts.Suggestions == 0 {
		opts.Suggestions = 5
	}
	theme := styles.NewThemeWithProfile(termenv.Ascii)
	return New(controller.New(catalog, ctrlOpts...), commands.NewSuggester(catalog), theme, opts, nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update should return a slash.Model")
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(t *testing.T, m Model, kt tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: kt})
}

// =============================================================================
// RESOLUTION
// =============================================================================

func TestModel_TypingResolves(t *testing.T) {
	m := newTestModel(t, Options{})

	m = typeText(t, m, "/add 2")
	require.NotNil(t, m.Context())
	assert.False(t, m.Context().Match.IsValid)
	assert.Contains(t, m.View(), commands.NotReadyLabel)

	m = typeText(t, m, " 3")
	require.NotNil(t, m.Context())
	assert.True(t, m.Context().Match.IsValid)
	assert.Contains(t, m.View(), "/add [a] [b] (Add two numbers together) - Tab to apply")
}

func TestModel_CursorMovementResyncs(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeText(t, m, "/add 2 3 and more")
	assert.Nil(t, m.Context(), "cursor is past the command")

	for range " and more" {
		m, _ = press(t, m, tea.KeyLeft)
	}
	require.NotNil(t, m.Context())
	assert.Equal(t, "add", m.Context().Command.Name)
}

// =============================================================================
// COMPLETION
// =============================================================================

func TestModel_TabAppliesArmedCommand(t *testing.T) {
	journal := &memJournal{}
	m := newTestModel(t, Options{}, controller.WithJournal(journal))

	m = typeText(t, m, "total: /add 2 3")
	m, cmd := press(t, m, tea.KeyTab)
	assert.Nil(t, cmd, "no clipboard copy unless enabled")

	assert.Equal(t, "total: 5", m.Value())
	assert.Contains(t, m.View(), "applied /add")
	require.Len(t, journal.entries, 1)
	assert.Equal(t, "add", journal.entries[0].Command)
}

func TestModel_TabIgnoresIncompleteCommand(t *testing.T) {
	m := newTestModel(t, Options{})

	m = typeText(t, m, "/add 2")
	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, "/add 2", m.Value())
}

func TestModel_TabOnPreviewOnly(t *testing.T) {
	m := newTestModel(t, Options{})

	m = typeText(t, m, "/shout")
	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, "/shout", m.Value())
	assert.Contains(t, m.View(), "/shout has nothing to apply")
}

func TestModel_TabInsertsSuggestion(t *testing.T) {
	m := newTestModel(t, Options{})

	m = typeText(t, m, "hey /ad")
	require.NotEmpty(t, m.Suggestions())
	assert.Equal(t, "add", m.Suggestions()[0].Name)

	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, "hey /add ", m.Value())
	require.NotNil(t, m.Context(), "the inserted command resolves")
	assert.Equal(t, "add", m.Context().Command.Name)
}

func TestModel_SelectSuggestion(t *testing.T) {
	m := newTestModel(t, Options{})

	m = typeText(t, m, "/")
	require.GreaterOrEqual(t, len(m.Suggestions()), 2)
	second := m.Suggestions()[1].Name

	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyTab)
	assert.True(t, strings.HasPrefix(m.Value(), "/"+second))

	// Up wraps around
	m = newTestModel(t, Options{})
	m = typeText(t, m, "/")
	last := m.Suggestions()[len(m.Suggestions())-1].Name
	m, _ = press(t, m, tea.KeyUp)
	m, _ = press(t, m, tea.KeyTab)
	assert.True(t, strings.HasPrefix(m.Value(), "/"+last))
}

func TestModel_SuggestionLimit(t *testing.T) {
	m := newTestModel(t, Options{Suggestions: 2})

	m = typeText(t, m, "/")
	assert.Len(t, m.Suggestions(), 2)
}

func TestModel_MultiByteOffsets(t *testing.T) {
	m := newTestModel(t, Options{})

	m = typeText(t, m, "café /add 1 2 über")
	for range " über" {
		m, _ = press(t, m, tea.KeyLeft)
	}
	require.NotNil(t, m.Context())
	assert.True(t, m.Context().Match.IsValid)

	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, "café 3 über", m.Value())
}

// =============================================================================
// CLIPBOARD
// =============================================================================

func TestModel_CopyOnComplete(t *testing.T) {
	var copied string
	m := newTestModel(t, Options{
		CopyOnComplete: true,
		Clipboard: func(text string) error {
			copied = text
			return nil
		},
	})

	m = typeText(t, m, "/hello bob")
	m, cmd := press(t, m, tea.KeyTab)
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, "Hello, bob!", copied)
	m, _ = update(t, m, msg)
	assert.NotContains(t, m.View(), "copy failed")
}

func TestModel_CopyFailureShown(t *testing.T) {
	m := newTestModel(t, Options{
		CopyOnComplete: true,
		Clipboard:      func(string) error { return errors.New("no clipboard") },
	})

	m = typeText(t, m, "/add 1 1")
	m, cmd := press(t, m, tea.KeyTab)
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "copy failed: no clipboard")
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestModel_AcceptAndQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeText(t, m, "done")

	accepted, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	text, ok := accepted.Result()
	assert.True(t, ok)
	assert.Equal(t, "done", text)
	assert.Empty(t, accepted.View())

	quit, cmd := press(t, m, tea.KeyEsc)
	require.NotNil(t, cmd)
	_, ok = quit.Result()
	assert.False(t, ok)
}

func TestModel_CatalogReloaded(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = update(t, m, CatalogReloadedMsg{})
	assert.Contains(t, m.View(), "catalog reloaded")

	m, _ = update(t, m, CatalogReloadedMsg{Err: errors.New("bad yaml")})
	assert.Contains(t, m.View(), "catalog reload failed: bad yaml")
}

func TestModel_InitialValue(t *testing.T) {
	m := newTestModel(t, Options{Value: "/add 4 5"})
	require.NotNil(t, m.Context())
	assert.True(t, m.Context().Match.IsValid)
}

// =============================================================================
// VIEW
// =============================================================================

func TestView_HintTruncated(t *testing.T) {
	m := newTestModel(t, Options{HintWidth: 20})
	m = typeText(t, m, "/add 1 2")

	lines := strings.Split(m.View(), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.LessOrEqual(t, len([]rune(lines[1])), 20)
	assert.True(t, strings.HasSuffix(lines[1], "..."))
}

func TestView_WindowSize(t *testing.T) {
	m := newTestModel(t, Options{Prompt: "> "})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 27, m.input.Width)
	assert.Equal(t, 30, m.hintWidth())
}

func TestView_SuggestionsShowDescriptions(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeText(t, m, "/rep")

	view := m.View()
	assert.Contains(t, view, "/repeat [count] [phrase]")
	assert.Contains(t, view, "Repeat a phrase n times")
}
