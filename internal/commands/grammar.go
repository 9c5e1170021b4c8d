// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// =============================================================================
// GRAMMAR OPTIONS
// =============================================================================

// Dialect selects the regexp syntax parameter patterns are written in.
type Dialect int

const (
	DialectDefault Dialect = iota // regexp2 (.NET-style) syntax
	DialectRE2                    // RE2-compatible syntax
)

// ParseDialect parses a dialect name from configuration.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "dotnet":
		return DialectDefault, nil
	case "re2":
		return DialectRE2, nil
	default:
		return DialectDefault, fmt.Errorf("unknown grammar dialect %q (want default or re2)", s)
	}
}

// GrammarOptions controls how parameter patterns are compiled.
type GrammarOptions struct {
	Dialect Dialect

	// IgnoreCase makes every parameter pattern case-insensitive
	IgnoreCase bool

	// MatchTimeout bounds a single match (0 = no limit)
	MatchTimeout time.Duration
}

func (o GrammarOptions) regexpOptions() regexp2.RegexOptions {
	// Only the per-parameter named groups capture; groups written inside
	// a pattern never shift parameter positions.
	opts := regexp2.RegexOptions(regexp2.ExplicitCapture)
	if o.Dialect == DialectRE2 {
		opts |= regexp2.RE2
	}
	if o.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	return opts
}

// =============================================================================
// GRAMMAR
// =============================================================================

// Grammar is the compiled matcher for one command's parameter list.
// It is built once when the command is added to a Catalog.
type Grammar struct {
	pattern string
	re      *regexp2.Regexp
	params  []ParamSpec
}

// groupName names the capture group of the i-th parameter.
func groupName(i int) string {
	return "p" + strconv.Itoa(i)
}

// BuildParamPattern joins the parameter patterns into one anchored-free
// pattern. Each pattern is an optional group; the first one tolerates a
// space before and after it, middle ones a space after, the last one none.
func BuildParamPattern(params []ParamSpec) string {
	var b strings.Builder
	last := len(params) - 1
	for i, p := range params {
		group := "(?<" + groupName(i) + ">" + p.Pattern() + ")?"
		switch {
		case i == 0:
			b.WriteString(" ?" + group + " ?")
		case i == last:
			b.WriteString(group)
		default:
			b.WriteString(group + " ?")
		}
	}
	return b.String()
}

// CompileGrammar validates every parameter pattern and compiles the
// combined parameter grammar.
func CompileGrammar(params []ParamSpec, opts GrammarOptions) (*Grammar, error) {
	ropts := opts.regexpOptions()
	for i, p := range params {
		if p == nil {
			return nil, &RegistrationError{Param: strconv.Itoa(i), Message: "nil parameter"}
		}
		if _, err := regexp2.Compile(p.Pattern(), ropts); err != nil {
			return nil, &RegistrationError{
				Param:   p.Name(),
				Pattern: p.Pattern(),
				Message: "malformed pattern",
				Err:     err,
			}
		}
	}

	pattern := "^" + BuildParamPattern(params)
	re, err := regexp2.Compile(pattern, ropts)
	if err != nil {
		return nil, &RegistrationError{Pattern: pattern, Message: "malformed grammar", Err: err}
	}
	if opts.MatchTimeout > 0 {
		re.MatchTimeout = opts.MatchTimeout
	}

	return &Grammar{
		pattern: pattern,
		re:      re,
		params:  append([]ParamSpec(nil), params...),
	}, nil
}

// Pattern returns the compiled parameter pattern.
func (g *Grammar) Pattern() string {
	return g.pattern
}

// Match applies the grammar to the text at raw.StartPos.
//
// Returns nil when the text at the start offset is not "/<cmd.Name>", when
// the grammar does not match, or when the cursor lies beyond the matched
// span. The only error is a match timeout.
func (g *Grammar) Match(cmd *Command, raw RawLocation) (*CommandContext, error) {
	text := raw.InputText
	headEnd := raw.StartPos + 1 + len(cmd.Name)
	if raw.StartPos < 0 || headEnd > len(text) || text[raw.StartPos] != Marker {
		return nil, nil
	}
	head := text[raw.StartPos:headEnd]
	if !strings.EqualFold(head[1:], cmd.Name) {
		return nil, nil
	}
	// "/add" must not match the start of "/address"
	if headEnd < len(text) && isIdentByte(text[headEnd]) {
		return nil, nil
	}

	tail := text[headEnd:]
	m, err := g.re.FindStringMatch(tail)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", cmd.Name, err)
	}
	if m == nil {
		return nil, nil
	}

	// regexp2 reports rune positions and decodes invalid bytes to U+FFFD,
	// so spans are cut from the original bytes.
	offsets := runeOffsets(tail)
	span := func(index, length int) string {
		return tail[offsets[index]:offsets[index+length]]
	}

	match := CommandMatch{
		Full:    head + span(m.Index, m.Length),
		IsValid: true,
	}
	if len(g.params) > 0 {
		match.Params = make([]ParamMatch, len(g.params))
		for i, p := range g.params {
			pm := ParamMatch{Name: p.Name()}
			if grp := m.GroupByName(groupName(i)); grp != nil && len(grp.Captures) > 0 {
				pm.Raw = span(grp.Index, grp.Length)
			}
			pm.Present = pm.Raw != ""
			if pm.Present {
				pm.Value = pm.Raw
				if conv, ok := p.(Converter); ok {
					pm.Value, pm.Err = conv.Convert(pm.Raw)
				}
			}
			if !pm.Present || pm.Err != nil {
				match.IsValid = false
			}
			match.Params[i] = pm
		}
	}

	endPos := raw.StartPos + len(match.Full)
	if raw.CursorPos > endPos {
		// The cursor has moved past everything this command consumed
		return nil, nil
	}

	return &CommandContext{
		Command: cmd,
		Match:   match,
		Raw:     raw,
		Partials: StringPartials{
			Pre:  text[:raw.StartPos],
			Post: text[endPos:],
		},
	}, nil
}

// runeOffsets returns the byte offset of every rune of s as decoded by
// []rune(s), plus len(s).
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
