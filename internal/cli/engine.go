// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jeranaias/slashline/internal/catalogfile"
	"github.com/jeranaias/slashline/internal/commands"
	"github.com/jeranaias/slashline/internal/config"
	"github.com/jeranaias/slashline/internal/controller"
	"github.com/jeranaias/slashline/internal/storage"
)

// =============================================================================
// ENGINE WIRING
// =============================================================================

// engine is the catalog, loader, controller and journal of one invocation.
type engine struct {
	catalog    *commands.Catalog
	loader     *catalogfile.Loader
	controller *controller.Controller
	journal    *storage.Journal
}

// catalogOptions translates the grammar and catalog sections.
func catalogOptions(cfg *config.Config, logger *zap.Logger) ([]commands.Option, error) {
	policy, err := commands.ParseDuplicatePolicy(cfg.Catalog.Duplicates)
	if err != nil {
		return nil, &ValidationError{Field: "catalog.duplicates", Value: cfg.Catalog.Duplicates, Reason: err.Error()}
	}
	dialect, err := commands.ParseDialect(cfg.Grammar.Dialect)
	if err != nil {
		return nil, &ValidationError{Field: "grammar.dialect", Value: cfg.Grammar.Dialect, Reason: err.Error()}
	}
	return []commands.Option{
		commands.WithLogger(logger.Named("catalog")),
		commands.WithDuplicatePolicy(policy),
		commands.WithGrammarOptions(commands.GrammarOptions{
			Dialect:      dialect,
			IgnoreCase:   cfg.Grammar.IgnoreCase,
			MatchTimeout: cfg.MatchTimeout(),
		}),
	}, nil
}

// newEngine builds and loads the catalog. The journal is opened only when
// record is set and the journal is enabled.
func (a *app) newEngine(ctx context.Context, record bool) (*engine, error) {
	opts, err := catalogOptions(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}

	catalog := commands.NewCatalog(opts...)
	loader := catalogfile.NewLoader(catalog,
		config.ExpandPath(a.cfg.Catalog.File),
		a.cfg.Catalog.Builtins,
		a.logger.Named("catalog"))
	if err := loader.Load(ctx); err != nil {
		return nil, &CommandError{Command: "catalog", Action: "load commands", Err: err}
	}

	e := &engine{catalog: catalog, loader: loader}

	ctrlOpts := []controller.Option{controller.WithLogger(a.logger.Named("controller"))}
	if record && a.cfg.Journal.Enabled {
		j, err := a.openJournal()
		if err != nil {
			// The journal is optional; typing must keep working without it
			a.logger.Warn("Journal unavailable", zap.Error(err))
		} else {
			e.journal = j
			ctrlOpts = append(ctrlOpts, controller.WithJournal(journalSink{j: j}))
		}
	}
	e.controller = controller.New(catalog, ctrlOpts...)
	return e, nil
}

// openJournal opens the completion journal named by the config.
func (a *app) openJournal() (*storage.Journal, error) {
	path, err := config.DataPath(a.cfg.Journal.Path, "journal.db")
	if err != nil {
		return nil, err
	}
	j, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	j.MaxEntries = a.cfg.Journal.MaxEntries
	return j, nil
}

// watcher returns a file watcher reloading the catalog, or nil when there
// is no command file or watching is disabled.
func (a *app) watcher(e *engine, onReload func(error)) *catalogfile.Watcher {
	if !a.cfg.Catalog.Watch || e.loader.Path() == "" {
		return nil
	}
	opts := []catalogfile.WatchOption{
		catalogfile.WithDebounce(a.cfg.ReloadDebounce()),
		catalogfile.WithMinInterval(a.cfg.ReloadMinInterval()),
		catalogfile.WithWatchLogger(a.logger.Named("watcher")),
	}
	if onReload != nil {
		opts = append(opts, catalogfile.OnReload(onReload))
	}
	return catalogfile.NewWatcher(e.loader.Path(), e.loader.Load, opts...)
}

// Close releases the journal.
func (e *engine) Close() error {
	if e.journal == nil {
		return nil
	}
	return e.journal.Close()
}

// =============================================================================
// JOURNAL ADAPTER
// =============================================================================

// journalSink stores controller completions in the SQLite journal.
type journalSink struct {
	j *storage.Journal
}

func (s journalSink) Record(ctx context.Context, c controller.Completion) error {
	if s.j == nil {
		return errors.New("no journal")
	}
	return s.j.Record(ctx, storage.Entry{
		ID:          c.ID,
		Controller:  c.Controller,
		Command:     c.Command,
		Input:       c.Input,
		Output:      c.Output,
		Replacement: c.Replacement,
		CreatedAt:   c.At,
	})
}
