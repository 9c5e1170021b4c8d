// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalogfile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// WATCHER
// =============================================================================

// ReloadFunc reloads the watched file.
type ReloadFunc func(ctx context.Context) error

// Watcher reloads a command file when it changes. Bursts of events are
// debounced, and reloads are rate limited so an editor saving in a loop
// cannot spin the catalog.
type Watcher struct {
	path     string
	reload   ReloadFunc
	debounce time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger

	// onReload is called after every reload attempt
	onReload func(err error)
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long events must settle before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithMinInterval sets the minimum time between reloads. Zero disables the
// limit.
func WithMinInterval(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d <= 0 {
			w.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		w.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(logger *zap.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OnReload registers a callback for reload results.
func OnReload(fn func(err error)) WatchOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, reload ReloadFunc, opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		reload:   reload,
		debounce: 200 * time.Millisecond,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. The parent directory is watched
// rather than the file, since editors often replace files on save.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	w.logger.Debug("Watching command file", zap.String("file", w.path))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.limiter.Wait(ctx); err != nil {
				// Cancelled while waiting for the limiter
				return nil
			}
			err := w.reload(ctx)
			if err != nil {
				w.logger.Warn("Reload failed, keeping previous commands",
					zap.String("file", w.path), zap.Error(err))
			} else {
				w.logger.Info("Command file reloaded", zap.String("file", w.path))
			}
			if w.onReload != nil {
				w.onReload(err)
			}
		}
	}
}
