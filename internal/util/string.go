// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Resolution works on byte offsets while widgets report rune
// positions and terminals lay out by display width. These helpers convert
// between the three without splitting multi-byte characters.

// TruncateWidth truncates a string to a maximum display width, appending
// "..." when it is cut. Wide characters (CJK, emoji) count as 2 columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// StringWidth returns the display width of a string.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneLen returns the number of runes (characters) in a string.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ByteOffset converts a rune position in s to a byte offset.
// Positions past the end clamp to len(s).
func ByteOffset(s string, runePos int) int {
	if runePos <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runePos {
			return i
		}
		n++
	}
	return len(s)
}

// RuneOffset converts a byte offset in s to a rune position. An offset
// inside a multi-byte character counts that character as not yet reached.
func RuneOffset(s string, byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff > len(s) {
		byteOff = len(s)
	}
	n := 0
	for i := range s {
		if i >= byteOff {
			break
		}
		n++
	}
	// A partial character at byteOff is not counted
	if byteOff < len(s) && !utf8.RuneStart(s[byteOff]) {
		n--
	}
	return n
}
