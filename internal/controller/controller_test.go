// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jeranaias/slashline/internal/commands"
)

type memJournal struct {
	entries []Completion
	err     error
}

func (j *memJournal) Record(_ context.Context, c Completion) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, c)
	return nil
}

func newTestController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	catalog := commands.NewCatalog()
	require.NoError(t, catalog.AddAll(commands.Builtins()...))
	return New(catalog, opts...)
}

func TestController_Transitions(t *testing.T) {
	c := newTestController(t)
	buf := NewBuffer("")

	steps := []struct {
		text  string
		want  State
		valid bool
	}{
		{"/ad", Idle, false},
		{"/add", Idle, false},
		{"/add 2", Idle, false},
		{"/add 2 3", Armed, true},
		{"/add 2 3 and more", Idle, false},
		{"/add 2 3", Armed, true},
		{"", Idle, false},
	}

	for _, step := range steps {
		buf.SetText(step.text)
		buf.SetCursor(len(step.text))
		c.Sync(buf)
		assert.Equal(t, step.want, c.State(), "text %q", step.text)
		assert.Equal(t, step.valid, c.Current() != nil, "text %q", step.text)
	}
}

func TestController_NotifiesEverySync(t *testing.T) {
	c := newTestController(t)

	var seen []*commands.CommandContext
	c.OnChange(func(ctx *commands.CommandContext, s Surface) {
		seen = append(seen, ctx)
	})

	c.Sync(NewBuffer("plain"))
	c.Sync(NewBuffer("/add 1"))
	c.Sync(NewBuffer("/add 1 2"))

	require.Len(t, seen, 3)
	assert.Nil(t, seen[0])
	require.NotNil(t, seen[1])
	assert.False(t, seen[1].Match.IsValid)
	require.NotNil(t, seen[2])
	assert.True(t, seen[2].Match.IsValid)
}

func TestController_Complete(t *testing.T) {
	journal := &memJournal{}
	c := newTestController(t, WithJournal(journal))

	buf := NewBuffer("total: /add 2 3 ok")
	buf.SetCursor(len("total: /add 2 3"))
	c.Sync(buf)
	require.Equal(t, Armed, c.State())

	require.True(t, c.Complete(buf))
	assert.Equal(t, "total: 5 ok", buf.Text())
	assert.Equal(t, len("total: 5"), buf.Cursor())
	assert.Equal(t, Idle, c.State())

	require.Len(t, journal.entries, 1)
	entry := journal.entries[0]
	assert.Equal(t, "add", entry.Command)
	assert.Equal(t, "total: /add 2 3 ok", entry.Input)
	assert.Equal(t, "total: 5 ok", entry.Output)
	assert.Equal(t, "5", entry.Replacement)
	assert.Equal(t, c.ID(), entry.Controller)
	assert.NotEmpty(t, entry.ID)
}

func TestController_CompleteRequiresArmed(t *testing.T) {
	c := newTestController(t)

	buf := NewBuffer("/add 2")
	c.Sync(buf)
	assert.False(t, c.Complete(buf))
	assert.Equal(t, "/add 2", buf.Text())

	// Never synced
	fresh := newTestController(t)
	assert.False(t, fresh.Complete(NewBuffer("/add 1 2")))
}

func TestController_PreviewOnlyCommand(t *testing.T) {
	c := newTestController(t)

	buf := NewBuffer("/shout")
	c.Sync(buf)
	require.Equal(t, Armed, c.State())

	assert.False(t, c.Complete(buf))
	assert.Equal(t, "/shout", buf.Text())
	assert.Equal(t, 6, buf.Cursor())
}

func TestController_Reset(t *testing.T) {
	c := newTestController(t)
	c.Sync(NewBuffer("/add 1 2"))
	require.Equal(t, Armed, c.State())

	c.Reset()
	assert.Equal(t, Idle, c.State())
	assert.Nil(t, c.Current())
}

func TestController_JournalFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := newTestController(t,
		WithLogger(zap.New(core)),
		WithJournal(&memJournal{err: errors.New("disk full")}))

	buf := NewBuffer("/hello amy")
	c.Sync(buf)
	require.True(t, c.Complete(buf))
	assert.Equal(t, "Hello, amy!", buf.Text())

	entries := logs.FilterMessage("Failed to record completion").All()
	require.Len(t, entries, 1)
	assert.Equal(t, c.ID(), entries[0].ContextMap()["controller"])
}

func TestBuffer_ClampsCursor(t *testing.T) {
	buf := NewBuffer("abc")
	assert.Equal(t, 3, buf.Cursor())

	buf.SetCursor(-4)
	assert.Equal(t, 0, buf.Cursor())
	buf.SetCursor(10)
	assert.Equal(t, 3, buf.Cursor())

	buf.SetText("a")
	assert.Equal(t, 1, buf.Cursor())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "armed", Armed.String())
}
