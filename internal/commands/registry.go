// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// ExecuteFunc computes the replacement for a resolved command.
// Returning nil opts out of completion (e.g. preview-only commands).
type ExecuteFunc func(ctx *CommandContext) *Update

// Command is a slash command that can be resolved inside free text.
type Command struct {
	// Name is the identifier without the marker (e.g. "add").
	// Lookup is case-insensitive.
	Name string

	// Description is shown in hints and listings
	Description string

	// Category for grouping in listings
	Category string

	// Params are the positional arguments, in order
	Params []ParamSpec

	// Execute produces the replacement text
	Execute ExecuteFunc

	// Hidden commands resolve but are not suggested or listed
	Hidden bool
}

// Usage returns the command with its parameter hints, e.g. "/add [a] [b]".
func (c *Command) Usage() string {
	usage := string(Marker) + c.Name
	if hints := ParamHints(c.Params); hints != "" {
		usage += " " + hints
	}
	return usage
}

// foldKey returns the case-folded identity of a command identifier.
// A Caser keeps state, so one is created per call.
func foldKey(name string) string {
	return cases.Fold().String(name)
}

// =============================================================================
// DUPLICATE POLICY
// =============================================================================

// DuplicatePolicy decides what Add does with an identifier that is taken.
type DuplicatePolicy int

const (
	DuplicateReject  DuplicatePolicy = iota // Add returns ErrDuplicateCommand
	DuplicateShadow                         // append; lookups return the first
	DuplicateReplace                        // replace the existing definition
)

// ParseDuplicatePolicy parses a policy name from configuration.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DuplicateReject, nil
	case "shadow":
		return DuplicateShadow, nil
	case "replace":
		return DuplicateReplace, nil
	default:
		return DuplicateReject, fmt.Errorf("unknown duplicate policy %q (want reject, shadow or replace)", s)
	}
}

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateShadow:
		return "shadow"
	case DuplicateReplace:
		return "replace"
	default:
		return "reject"
	}
}

// =============================================================================
// CATALOG
// =============================================================================

type entry struct {
	key     string
	cmd     *Command
	grammar *Grammar
}

// Catalog is an ordered set of commands with their compiled grammars.
// Catalog order decides lookups when duplicates are shadowed.
type Catalog struct {
	mu      sync.RWMutex
	entries []*entry

	policy  DuplicatePolicy
	grammar GrammarOptions
	logger  *zap.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDuplicatePolicy sets how duplicate identifiers are handled.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *Catalog) {
		c.policy = p
	}
}

// WithGrammarOptions sets the options parameter patterns are compiled with.
func WithGrammarOptions(opts GrammarOptions) Option {
	return func(c *Catalog) {
		c.grammar = opts
	}
}

// NewCatalog creates an empty catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// compile validates cmd and builds its catalog entry.
func (c *Catalog) compile(cmd *Command) (*entry, error) {
	if cmd == nil {
		return nil, &RegistrationError{Message: "nil command"}
	}
	if cmd.Name == "" {
		return nil, &RegistrationError{Message: "empty identifier"}
	}
	if !ValidIdentifier(cmd.Name) {
		return nil, &RegistrationError{
			Command: cmd.Name,
			Message: "identifier may only contain letters, digits, '-' and '_'",
		}
	}

	g, err := CompileGrammar(cmd.Params, c.grammar)
	if err != nil {
		var regErr *RegistrationError
		if errors.As(err, &regErr) {
			regErr.Command = cmd.Name
			return nil, regErr
		}
		return nil, err
	}

	return &entry{key: foldKey(cmd.Name), cmd: cmd, grammar: g}, nil
}

// insert places e according to the duplicate policy. Caller holds the lock.
func insert(entries []*entry, e *entry, policy DuplicatePolicy) ([]*entry, error) {
	for i, existing := range entries {
		if existing.key != e.key {
			continue
		}
		switch policy {
		case DuplicateShadow:
			return append(entries, e), nil
		case DuplicateReplace:
			entries[i] = e
			return entries, nil
		default:
			return entries, &RegistrationError{
				Command: e.cmd.Name,
				Message: "identifier is taken",
				Err:     ErrDuplicateCommand,
			}
		}
	}
	return append(entries, e), nil
}

// Add compiles the command's grammar and registers it.
// Malformed parameter patterns are reported here, never at match time.
func (c *Catalog) Add(cmd *Command) error {
	e, err := c.compile(cmd)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := insert(c.entries, e, c.policy)
	if err != nil {
		return err
	}
	c.entries = entries

	c.logger.Debug("Command registered",
		zap.String("command", cmd.Name),
		zap.Int("params", len(cmd.Params)),
		zap.String("grammar", e.grammar.Pattern()))
	return nil
}

// AddAll registers each command, stopping at the first error.
func (c *Catalog) AddAll(cmds ...*Command) error {
	for _, cmd := range cmds {
		if err := c.Add(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Replace swaps the whole catalog content. Either every command is
// registered or the catalog is left untouched.
func (c *Catalog) Replace(cmds []*Command) error {
	var entries []*entry
	for _, cmd := range cmds {
		e, err := c.compile(cmd)
		if err != nil {
			return err
		}
		if entries, err = insert(entries, e, c.policy); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Debug("Catalog replaced", zap.Int("commands", len(entries)))
	return nil
}

// Remove unregisters every command with the given identifier.
// Returns false if none was registered.
func (c *Catalog) Remove(name string) bool {
	key := foldKey(strings.TrimPrefix(name, string(Marker)))

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.entries[:0]
	removed := false
	for _, e := range c.entries {
		if e.key == key {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	// Clear the tail so removed commands can be collected
	for i := len(kept); i < len(c.entries); i++ {
		c.entries[i] = nil
	}
	c.entries = kept
	return removed
}

// lookup returns the first entry for name.
func (c *Catalog) lookup(name string) *entry {
	key := foldKey(strings.TrimPrefix(name, string(Marker)))

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e.key == key {
			return e
		}
	}
	return nil
}

// Find returns the first command named name, ignoring case, or nil.
func (c *Catalog) Find(name string) *Command {
	if e := c.lookup(name); e != nil {
		return e.cmd
	}
	return nil
}

// Grammar returns the compiled grammar of the named command.
func (c *Catalog) Grammar(name string) (*Grammar, error) {
	e := c.lookup(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return e.grammar, nil
}

// All returns the registered commands in catalog order.
func (c *Catalog) All() []*Command {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cmds := make([]*Command, len(c.entries))
	for i, e := range c.entries {
		cmds[i] = e.cmd
	}
	return cmds
}

// Len returns the number of registered commands.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ByCategory returns visible commands grouped by category, each group
// sorted by name.
func (c *Catalog) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range c.All() {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	for _, group := range result {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Name < group[j].Name
		})
	}
	return result
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve returns the command context for the cursor position, or nil when
// no command is in scope, the identifier is unknown, or the cursor has moved
// past the command.
func (c *Catalog) Resolve(text string, cursorPos int) *CommandContext {
	raw, ok := Locate(text, cursorPos)
	if !ok {
		return nil
	}

	e := c.lookup(raw.ID)
	if e == nil {
		c.logger.Debug("Unknown command", zap.String("command", raw.ID), zap.Int("cursor", cursorPos))
		return nil
	}

	ctx, err := e.grammar.Match(e.cmd, raw)
	if err != nil {
		c.logger.Warn("Grammar match failed", zap.String("command", e.cmd.Name), zap.Error(err))
		return nil
	}
	if ctx != nil {
		c.logger.Debug("Command resolved",
			zap.String("command", e.cmd.Name),
			zap.Int("start", raw.StartPos),
			zap.Int("cursor", cursorPos),
			zap.Bool("valid", ctx.Match.IsValid))
	}
	return ctx
}

// Resolve resolves text against catalog. A nil catalog resolves nothing.
func Resolve(text string, cursorPos int, catalog *Catalog) *CommandContext {
	if catalog == nil {
		return nil
	}
	return catalog.Resolve(text, cursorPos)
}
