// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalogfile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/slashline/internal/commands"
)

// startWatcher runs a watcher for path and returns a channel of reload
// results and a stop function that waits for Run to return.
func startWatcher(t *testing.T, path string, reload ReloadFunc) (<-chan error, func()) {
	t.Helper()

	results := make(chan error, 16)
	w := NewWatcher(path, reload,
		WithDebounce(20*time.Millisecond),
		WithMinInterval(time.Millisecond),
		OnReload(func(err error) {
			select {
			case results <- err:
			default:
			}
		}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	return results, func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

// writeUntilReloaded rewrites the file until the watcher reports a reload.
// The first write can race the watcher registering the directory.
func writeUntilReloaded(t *testing.T, path, data string, results <-chan error) error {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		writeFile(t, path, data)
		select {
		case err := <-results:
			return err
		case <-time.After(150 * time.Millisecond):
		case <-deadline:
			t.Fatal("no reload observed")
			return nil
		}
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "cmds.yaml")
	writeFile(t, path, "commands:\n  - name: first\n")

	catalog := commands.NewCatalog()
	loader := NewLoader(catalog, path, false, nil)
	require.NoError(t, loader.Load(context.Background()))

	results, stop := startWatcher(t, path, loader.Load)
	defer stop()

	err := writeUntilReloaded(t, path, "commands:\n  - name: second\n  - name: third\n", results)
	require.NoError(t, err)

	assert.Nil(t, catalog.Find("first"))
	assert.NotNil(t, catalog.Find("second"))
	assert.Equal(t, 2, catalog.Len())
}

func TestWatcher_BadEditKeepsCommands(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "cmds.yaml")
	writeFile(t, path, "commands:\n  - name: keep\n")

	catalog := commands.NewCatalog()
	loader := NewLoader(catalog, path, false, nil)
	require.NoError(t, loader.Load(context.Background()))

	results, stop := startWatcher(t, path, loader.Load)
	defer stop()

	err := writeUntilReloaded(t, path, "commands: [\n", results)
	assert.Error(t, err)
	assert.NotNil(t, catalog.Find("keep"))
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "cmds.yaml")
	writeFile(t, path, "commands: []\n")

	reloads := 0
	results, stop := startWatcher(t, path, func(context.Context) error {
		reloads++
		return nil
	})

	writeFile(t, filepath.Join(dir, "other.yaml"), "x")
	select {
	case <-results:
		t.Error("reload triggered by an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
	stop()
	assert.Equal(t, 0, reloads)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := NewWatcher(filepath.Join(t.TempDir(), "nope", "cmds.yaml"), func(context.Context) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}
