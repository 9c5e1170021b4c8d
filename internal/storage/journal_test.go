// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	require.NoError(t, j.Record(ctx, Entry{Command: "add", Input: "/add 1 2", Output: "3", Replacement: "3"}))
	require.NoError(t, j.Record(ctx, Entry{Command: "hello", Input: "/hello bo", Output: "Hello, bo!", Replacement: "Hello, bo!"}))

	entries, err := j.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, "hello", entries[0].Command)
	assert.Equal(t, "add", entries[1].Command)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())
	assert.Equal(t, "/add 1 2", entries[1].Input)
}

func TestJournal_RecentByCommand(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	for _, cmd := range []string{"add", "repeat", "add", "ADD"} {
		require.NoError(t, j.Record(ctx, Entry{Command: cmd}))
	}

	entries, err := j.Recent(ctx, "add", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = j.Recent(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestJournal_PreservesTimestamp(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	at := time.Date(2025, 3, 4, 5, 6, 7, 8, time.UTC)
	require.NoError(t, j.Record(ctx, Entry{ID: "fixed", Command: "shout", CreatedAt: at}))

	entries, err := j.Recent(ctx, "shout", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed", entries[0].ID)
	assert.True(t, at.Equal(entries[0].CreatedAt))
}

func TestJournal_MaxEntriesPrunes(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	j.MaxEntries = 3

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, Entry{Command: "add", Output: string(rune('a' + i))}))
	}

	n, err := j.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := j.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, "e", entries[0].Output)
	assert.Equal(t, "c", entries[2].Output)
}

func TestJournal_Counts(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	for _, cmd := range []string{"repeat", "add", "add", "hello", "add", "repeat"} {
		require.NoError(t, j.Record(ctx, Entry{Command: cmd}))
	}

	counts, err := j.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CommandCount{
		{Command: "add", Count: 3},
		{Command: "repeat", Count: 2},
		{Command: "hello", Count: 1},
	}, counts)
}

func TestJournal_PruneAndClear(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, j.Record(ctx, Entry{Command: "add"}))
	}

	removed, err := j.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	require.NoError(t, j.Clear(ctx))
	n, err := j.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestJournal_InvalidEntry(t *testing.T) {
	j := openTestJournal(t)
	err := j.Record(context.Background(), Entry{Command: "  "})
	assert.True(t, errors.Is(err, ErrInvalidEntry))
}

func TestJournal_Closed(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	err = j.Record(context.Background(), Entry{Command: "add"})
	assert.True(t, errors.Is(err, ErrClosed))
	_, err = j.Recent(context.Background(), "", 1)
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestJournal_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, Entry{Command: "upper-all"}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	n, err := j.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, path, j.Path())
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
