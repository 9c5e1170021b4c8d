// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
)

// =============================================================================
// MATCH TYPES
// =============================================================================

// ParamMatch is the extracted value of one declared parameter.
type ParamMatch struct {
	// Name of the parameter
	Name string

	// Raw is the matched substring ("" when the parameter did not match)
	Raw string

	// Present is true when the parameter matched a non-empty substring
	Present bool

	// Value is Raw, or the converted value when the param has a Converter.
	// Nil when the parameter is absent or conversion failed.
	Value any

	// Err is the conversion error, if any
	Err error
}

// CommandMatch is the result of applying a command's grammar.
type CommandMatch struct {
	// Full is the matched span, marker and identifier included
	Full string

	// Params holds one entry per declared parameter, in order.
	// Nil for commands without parameters.
	Params []ParamMatch

	// IsValid is true when every declared parameter matched
	IsValid bool
}

// StringPartials are the text before and after a matched command.
type StringPartials struct {
	Pre  string
	Post string
}

// =============================================================================
// COMMAND CONTEXT
// =============================================================================

// CommandContext is a resolved command occurrence. It is recomputed on
// every text or cursor change and never outlives the next one.
//
// Partials.Pre + Match.Full + Partials.Post always equals Raw.InputText.
type CommandContext struct {
	Command  *Command
	Match    CommandMatch
	Raw      RawLocation
	Partials StringPartials
}

// EndPos returns the offset just past the matched span.
func (c *CommandContext) EndPos() int {
	return c.Raw.StartPos + len(c.Match.Full)
}

// Param returns the match of the named parameter.
func (c *CommandContext) Param(name string) (ParamMatch, bool) {
	for _, p := range c.Match.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamMatch{}, false
}

// Value returns the value of the named parameter, or nil.
func (c *CommandContext) Value(name string) any {
	p, _ := c.Param(name)
	return p.Value
}

// Int returns the named parameter as an int. Strings are parsed; anything
// else yields 0.
func (c *CommandContext) Int(name string) int {
	switch v := c.Value(name).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// String returns the named parameter formatted as a string.
func (c *CommandContext) String(name string) string {
	switch v := c.Value(name).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Values returns the parameter values keyed by name.
func (c *CommandContext) Values() map[string]any {
	values := make(map[string]any, len(c.Match.Params))
	for _, p := range c.Match.Params {
		values[p.Name] = p.Value
	}
	return values
}

// Replace is shorthand for an Update that keeps the context's partials.
func (c *CommandContext) Replace(replacement string) *Update {
	return &Update{Replacement: replacement}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update is what a command's Execute returns: the text that replaces the
// command occurrence. Pre and Post override the context partials when set.
type Update struct {
	Replacement string
	Pre         *string
	Post        *string
}

// Apply splices the update into the context's text. It returns the new
// text and the cursor offset just after the replacement.
func (u *Update) Apply(ctx *CommandContext) (string, int) {
	pre, post := ctx.Partials.Pre, ctx.Partials.Post
	if u.Pre != nil {
		pre = *u.Pre
	}
	if u.Post != nil {
		post = *u.Post
	}
	return pre + u.Replacement + post, len(pre) + len(u.Replacement)
}
