// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// PARAMETER PATTERNS
// =============================================================================

// Common argument patterns.
const (
	// NumberPattern matches digits only
	NumberPattern = `[0-9]+`

	// WordPattern matches a bare word (no quotes, spaces or markers)
	WordPattern = `[^" /]*`

	// QuotedPattern matches double-quoted text without markers
	QuotedPattern = `"[^/"]*"`

	// SentencePattern matches the rest of the line
	SentencePattern = `.*`
)

// =============================================================================
// PARAM SPEC
// =============================================================================

// ParamSpec declares one positional argument of a command.
type ParamSpec interface {
	// Name keys the argument in the match (e.g. "count")
	Name() string

	// Pattern is the regexp fragment one argument occupies
	Pattern() string
}

// Converter is implemented by params that turn the raw substring into a
// typed value. Convert must be a pure function of raw.
type Converter interface {
	Convert(raw string) (any, error)
}

type rawParam struct {
	name    string
	pattern string
}

func (p rawParam) Name() string    { return p.name }
func (p rawParam) Pattern() string { return p.pattern }

type convertedParam struct {
	rawParam
	convert func(string) (any, error)
}

func (p convertedParam) Convert(raw string) (any, error) {
	return p.convert(raw)
}

// Param returns a spec whose value is the raw matched substring.
func Param(name, pattern string) ParamSpec {
	return rawParam{name: name, pattern: pattern}
}

// ParamFunc returns a spec whose value is produced by fn.
func ParamFunc(name, pattern string, fn func(raw string) (any, error)) ParamSpec {
	if fn == nil {
		return Param(name, pattern)
	}
	return convertedParam{rawParam: rawParam{name: name, pattern: pattern}, convert: fn}
}

// Number matches digits and converts them to an int.
func Number(name string) ParamSpec {
	return ParamFunc(name, NumberPattern, func(raw string) (any, error) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return n, nil
	})
}

// Word matches a bare word.
func Word(name string) ParamSpec {
	return Param(name, WordPattern)
}

// Quoted matches double-quoted text; the value has the quotes removed.
func Quoted(name string) ParamSpec {
	return ParamFunc(name, QuotedPattern, func(raw string) (any, error) {
		return strings.ReplaceAll(raw, `"`, ""), nil
	})
}

// Sentence matches everything up to the end of the line.
func Sentence(name string) ParamSpec {
	return Param(name, SentencePattern)
}

// Param kinds accepted by ParamOfKind.
const (
	KindNumber   = "number"
	KindWord     = "word"
	KindQuoted   = "quoted"
	KindSentence = "sentence"
)

// ParamOfKind builds a spec from a kind name, as used in catalog files.
func ParamOfKind(kind, name string) (ParamSpec, error) {
	switch strings.ToLower(kind) {
	case KindNumber:
		return Number(name), nil
	case KindWord, "":
		return Word(name), nil
	case KindQuoted:
		return Quoted(name), nil
	case KindSentence:
		return Sentence(name), nil
	default:
		return nil, fmt.Errorf("unknown param kind %q (want number, word, quoted or sentence)", kind)
	}
}

// ParamHints renders human readable placeholders, e.g. "[a] [b]".
func ParamHints(params []ParamSpec) string {
	hints := make([]string, 0, len(params))
	for _, p := range params {
		if p == nil {
			continue
		}
		hints = append(hints, "["+p.Name()+"]")
	}
	return strings.Join(hints, " ")
}
