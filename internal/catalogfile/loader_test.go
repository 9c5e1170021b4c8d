// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalogfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/slashline/internal/commands"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestLoader_BuiltinsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.yaml")
	writeFile(t, path, yamlFile)

	catalog := commands.NewCatalog()
	loader := NewLoader(catalog, path, true, nil)
	require.NoError(t, loader.Load(context.Background()))

	assert.Equal(t, len(commands.Builtins())+2, catalog.Len())
	assert.NotNil(t, catalog.Find("add"))
	assert.NotNil(t, catalog.Find("greet"))
	assert.Equal(t, path, loader.Path())
}

func TestLoader_BuiltinsOnly(t *testing.T) {
	catalog := commands.NewCatalog()
	require.NoError(t, NewLoader(catalog, "", true, nil).Load(context.Background()))
	assert.Equal(t, len(commands.Builtins()), catalog.Len())
}

func TestLoader_ErrorKeepsCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cmds.yaml")
	writeFile(t, path, yamlFile)

	catalog := commands.NewCatalog()
	loader := NewLoader(catalog, path, false, nil)
	require.NoError(t, loader.Load(context.Background()))
	before := catalog.All()

	tests := []struct {
		name string
		data string
	}{
		{"syntax error", "commands: [\n"},
		{"malformed pattern", "commands:\n  - name: bad\n    params:\n      - name: p\n        pattern: \"([0-9]\"\n"},
		{"duplicate command", "commands:\n  - name: a\n  - name: A\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeFile(t, path, tt.data)
			assert.Error(t, loader.Load(context.Background()))
			assert.Equal(t, before, catalog.All())
		})
	}
}

func TestLoader_DuplicateAgainstBuiltinWithShadow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.toml")
	writeFile(t, path, "[[commands]]\nname = \"add\"\ndescription = \"mine\"\n")

	catalog := commands.NewCatalog(commands.WithDuplicatePolicy(commands.DuplicateShadow))
	require.NoError(t, NewLoader(catalog, path, true, nil).Load(context.Background()))

	// Built-ins come first, so they win lookups
	assert.Equal(t, "Add two numbers together", catalog.Find("add").Description)
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewLoader(commands.NewCatalog(), "", true, nil).Load(ctx))
}
