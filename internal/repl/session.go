// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/slashline/internal/ui/styles"
)

// =============================================================================
// SESSION
// =============================================================================

// Options configures a Session.
type Options struct {
	Prompt      string
	HistoryFile string
	Out         io.Writer
	Err         io.Writer
	Logger      *zap.Logger
}

// Session is an interactive line editor with input history.
type Session struct {
	line        *liner.State
	completer   *Completer
	prompt      string
	historyFile string
	out         io.Writer
	errOut      io.Writer
	logger      *zap.Logger
}

// NewSession takes over the terminal. Close restores it.
func NewSession(completer *Completer, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabCircular)
	line.SetWordCompleter(completer.Complete)

	s := &Session{
		line:        line,
		completer:   completer,
		prompt:      opts.Prompt,
		historyFile: opts.HistoryFile,
		out:         opts.Out,
		errOut:      opts.Err,
		logger:      opts.Logger,
	}
	s.LoadHistory()
	return s
}

// LoadHistory loads input history from the history file.
func (s *Session) LoadHistory() {
	if s.historyFile == "" {
		return
	}
	f, err := os.Open(s.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := s.line.ReadHistory(f); err != nil {
		s.logger.Warn("Failed to read history", zap.String("path", s.historyFile), zap.Error(err))
	}
}

// SaveHistory persists input history with owner-only permissions.
func (s *Session) SaveHistory() error {
	if s.historyFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.historyFile), 0755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	f, err := os.OpenFile(s.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	if _, err := s.line.WriteHistory(f); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Close saves history and restores the terminal.
func (s *Session) Close() error {
	err := s.SaveHistory()
	if cerr := s.line.Close(); err == nil {
		err = cerr
	}
	return err
}

// Run reads lines until EOF, Ctrl+C or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		input, err := s.line.Prompt(s.prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		s.line.AppendHistory(input)
		s.handle(input)
	}
	return nil
}

func (s *Session) handle(input string) {
	res := s.completer.Accept(input)
	if res.Hint != "" {
		fmt.Fprintln(s.errOut, styles.RenderWarning(res.Hint))
	}
	if res.Applied != "" {
		s.logger.Debug("Line completed", zap.String("command", res.Applied))
	}
	fmt.Fprintln(s.out, res.Text)
}
