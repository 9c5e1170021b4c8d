// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/slashline/internal/commands"
)

// =============================================================================
// SURFACE
// =============================================================================

// Surface is the text buffer a controller reads and edits.
// Cursor offsets are byte offsets into Text.
type Surface interface {
	Text() string
	Cursor() int
	SetText(text string)
	SetCursor(pos int)
}

// Buffer is an in-memory Surface.
type Buffer struct {
	text   string
	cursor int
}

// NewBuffer creates a buffer with the cursor at the end of text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, cursor: len(text)}
}

func (b *Buffer) Text() string { return b.text }
func (b *Buffer) Cursor() int  { return b.cursor }

func (b *Buffer) SetText(s string) {
	b.text = s
	if b.cursor > len(s) {
		b.cursor = len(s)
	}
}

func (b *Buffer) SetCursor(pos int) {
	switch {
	case pos < 0:
		pos = 0
	case pos > len(b.text):
		pos = len(b.text)
	}
	b.cursor = pos
}

// =============================================================================
// STATE
// =============================================================================

// State of the controller.
type State int

const (
	Idle  State = iota // no valid command under the cursor
	Armed              // a valid command can be completed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "idle"
}

// =============================================================================
// JOURNAL
// =============================================================================

// Completion describes one applied completion.
type Completion struct {
	ID          string
	Controller  string
	Command     string
	Input       string
	Output      string
	Replacement string
	At          time.Time
}

// Journal records applied completions.
type Journal interface {
	Record(ctx context.Context, c Completion) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// ChangeFunc is notified after every Sync with the current context (nil
// when Idle or when the command under the cursor is incomplete).
type ChangeFunc func(ctx *commands.CommandContext, s Surface)

// Controller holds the single current-context slot for one surface.
// It is not safe for concurrent use; hosts serialize input events.
type Controller struct {
	id      string
	catalog *commands.Catalog
	logger  *zap.Logger
	journal Journal
	notify  ChangeFunc

	state   State
	current *commands.CommandContext
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithJournal records every applied completion to j.
func WithJournal(j Journal) Option {
	return func(c *Controller) {
		c.journal = j
	}
}

// New creates an Idle controller over catalog.
func New(catalog *commands.Catalog, opts ...Option) *Controller {
	c := &Controller{
		id:      uuid.NewString(),
		catalog: catalog,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("controller", c.id))
	return c
}

// ID returns the controller's unique id.
func (c *Controller) ID() string { return c.id }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Current returns the armed context, or nil when Idle.
func (c *Controller) Current() *commands.CommandContext { return c.current }

// OnChange sets the notification callback.
func (c *Controller) OnChange(fn ChangeFunc) { c.notify = fn }

// Sync resolves the command under the surface cursor and updates the
// state. The returned context may be invalid (incomplete arguments); only
// valid contexts arm the controller.
func (c *Controller) Sync(s Surface) *commands.CommandContext {
	ctx := commands.Resolve(s.Text(), s.Cursor(), c.catalog)

	next := Idle
	c.current = nil
	if ctx != nil && ctx.Match.IsValid {
		next = Armed
		c.current = ctx
	}
	if next != c.state {
		fields := []zap.Field{zap.Stringer("state", next), zap.Int("cursor", s.Cursor())}
		if ctx != nil {
			fields = append(fields, zap.String("command", ctx.Command.Name))
		}
		c.logger.Debug("State changed", fields...)
	}
	c.state = next

	if c.notify != nil {
		c.notify(ctx, s)
	}
	return ctx
}

// Complete executes the armed command and splices its replacement into
// the surface. It reports whether the surface was changed.
func (c *Controller) Complete(s Surface) bool {
	if c.state != Armed || c.current == nil {
		return false
	}
	ctx := c.current
	if ctx.Command.Execute == nil {
		return false
	}

	update := ctx.Command.Execute(ctx)
	if update == nil {
		c.logger.Debug("Command declined completion", zap.String("command", ctx.Command.Name))
		return false
	}

	text, cursor := update.Apply(ctx)
	s.SetText(text)
	s.SetCursor(cursor)

	c.logger.Debug("Command completed",
		zap.String("command", ctx.Command.Name),
		zap.Int("cursor", cursor))
	c.record(ctx, update, text)

	c.Sync(s)
	return true
}

// Reset returns to Idle without notifying.
func (c *Controller) Reset() {
	c.state = Idle
	c.current = nil
}

func (c *Controller) record(ctx *commands.CommandContext, update *commands.Update, output string) {
	if c.journal == nil {
		return
	}
	entry := Completion{
		ID:          uuid.NewString(),
		Controller:  c.id,
		Command:     ctx.Command.Name,
		Input:       ctx.Raw.InputText,
		Output:      output,
		Replacement: update.Replacement,
		At:          time.Now().UTC(),
	}
	if err := c.journal.Record(context.Background(), entry); err != nil {
		c.logger.Warn("Failed to record completion", zap.String("command", entry.Command), zap.Error(err))
	}
}
