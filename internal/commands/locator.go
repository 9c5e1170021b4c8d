// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"regexp"
	"strings"
)

// Marker is the character that starts a command token.
const Marker = '/'

// =============================================================================
// RAW LOCATION
// =============================================================================

// RawLocation describes the command token found around the cursor, before
// any catalog lookup has confirmed that it names a real command.
type RawLocation struct {
	// ID is the identifier without the marker (e.g. "add")
	ID string

	// StartPos is the offset of the marker in InputText
	StartPos int

	// CursorPos is the cursor offset the location was computed for
	CursorPos int

	// InputText is the full text that was searched
	InputText string
}

// =============================================================================
// LOCATOR
// =============================================================================

var (
	// marker followed by identifier characters, ending at the cursor
	trailingTokenRe = regexp.MustCompile(`/[a-zA-Z0-9_-]*$`)

	// identifier characters starting at the cursor
	leadingIdentRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+`)

	// a fully typed command: marker, identifier, one space
	declaredCommandRe = regexp.MustCompile(`/[a-zA-Z0-9_-]* `)
)

// Locate finds the command token the cursor is in, or the closest fully
// declared command before it.
//
// The first pass handles a cursor inside or right after a command word
// ("/ad|d"). When the cursor is not on a command word, the last
// "/name " before the cursor is used so the argument grammar can still be
// evaluated while the user types arguments.
//
// Returns false when no command is in scope or cursorPos is outside the text.
func Locate(text string, cursorPos int) (RawLocation, bool) {
	if cursorPos < 0 || cursorPos > len(text) {
		return RawLocation{}, false
	}

	if start, end, ok := tokenAt(text, cursorPos); ok {
		return RawLocation{
			ID:        normalizeToken(text[start:end]),
			StartPos:  start,
			CursorPos: cursorPos,
			InputText: text,
		}, true
	}

	pre := text[:cursorPos]
	declared := declaredCommandRe.FindAllStringIndex(pre, -1)
	if len(declared) == 0 {
		return RawLocation{}, false
	}

	// Only the most recent declaration is in focus
	last := declared[len(declared)-1]
	return RawLocation{
		ID:        normalizeToken(pre[last[0]:last[1]]),
		StartPos:  last[0],
		CursorPos: cursorPos,
		InputText: text,
	}, true
}

// CommandToken returns the span of the marker-led command word under the
// cursor, marker included.
func CommandToken(text string, cursorPos int) (start, end int, ok bool) {
	if cursorPos < 0 || cursorPos > len(text) {
		return 0, 0, false
	}
	return tokenAt(text, cursorPos)
}

// tokenAt returns the span of the marker-led token under the cursor.
// The span covers the marker and every identifier character on both sides
// of the cursor.
func tokenAt(text string, cursorPos int) (start, end int, ok bool) {
	pre := text[:cursorPos]
	post := text[cursorPos:]

	loc := trailingTokenRe.FindStringIndex(pre)
	if loc == nil {
		return 0, 0, false
	}

	end = cursorPos
	if m := leadingIdentRe.FindString(post); m != "" {
		end += len(m)
	}
	return loc[0], end, true
}

// normalizeToken strips the marker and the trailing separator from a token.
func normalizeToken(token string) string {
	token = strings.TrimPrefix(token, string(Marker))
	return strings.TrimSuffix(token, " ")
}

// isIdentByte reports whether b may appear in a command identifier.
func isIdentByte(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '-' || b == '_'
}

// ValidIdentifier reports whether name can be found by Locate.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return false
		}
	}
	return true
}
