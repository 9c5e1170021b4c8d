// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalogfile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/slashline/internal/commands"
)

// Loader fills a catalog from a command file, optionally on top of the
// built-in commands.
type Loader struct {
	catalog  *commands.Catalog
	path     string
	builtins bool
	logger   *zap.Logger
}

// NewLoader creates a loader for path. An empty path loads only the
// built-ins.
func NewLoader(catalog *commands.Catalog, path string, builtins bool, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		catalog:  catalog,
		path:     path,
		builtins: builtins,
		logger:   logger,
	}
}

// Path returns the command file path.
func (l *Loader) Path() string { return l.path }

// Load reads the file and replaces the catalog content. On error the
// catalog is left as it was.
func (l *Loader) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var cmds []*commands.Command
	if l.builtins {
		cmds = append(cmds, commands.Builtins()...)
	}

	if l.path != "" {
		f, err := ReadFile(l.path)
		if err != nil {
			return err
		}
		custom, err := Build(f, l.logger)
		if err != nil {
			return fmt.Errorf("%s: %w", l.path, err)
		}
		cmds = append(cmds, custom...)
	}

	if err := l.catalog.Replace(cmds); err != nil {
		return fmt.Errorf("failed to load commands: %w", err)
	}

	l.logger.Debug("Catalog loaded",
		zap.String("file", l.path),
		zap.Bool("builtins", l.builtins),
		zap.Int("commands", len(cmds)))
	return nil
}
