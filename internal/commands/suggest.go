// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// =============================================================================
// SUGGESTER
// =============================================================================

// Suggestion is a command name proposed for the identifier being typed.
type Suggestion struct {
	// Name of the command, without the marker
	Name string

	// Display text (e.g. "/add [a] [b]")
	Display string

	// Description shown alongside
	Description string

	// Score for ranking (higher = better match)
	Score int
}

// Suggester proposes command names while an identifier is being typed.
type Suggester struct {
	catalog *Catalog

	// Limit caps the number of suggestions (0 = unlimited)
	Limit int
}

// NewSuggester creates a suggester over catalog.
func NewSuggester(catalog *Catalog) *Suggester {
	return &Suggester{
		catalog: catalog,
		Limit:   8,
	}
}

// Suggest returns ranked command names for the marker-led token under the
// cursor. Returns nil when the cursor is not on a command word.
func (s *Suggester) Suggest(text string, cursorPos int) []Suggestion {
	if s.catalog == nil || cursorPos < 0 || cursorPos > len(text) {
		return nil
	}
	start, _, ok := tokenAt(text, cursorPos)
	if !ok {
		return nil
	}
	partial := text[start+1 : cursorPos]

	var visible []*Command
	for _, cmd := range s.catalog.All() {
		if !cmd.Hidden {
			visible = append(visible, cmd)
		}
	}

	var suggestions []Suggestion
	if partial == "" {
		for _, cmd := range visible {
			suggestions = append(suggestions, newSuggestion(cmd, 100))
		}
	} else {
		names := make([]string, len(visible))
		for i, cmd := range visible {
			names[i] = strings.ToLower(cmd.Name)
		}
		for _, m := range fuzzy.Find(strings.ToLower(partial), names) {
			score := calculateScore(m.Str, partial) + m.Score
			suggestions = append(suggestions, newSuggestion(visible[m.Index], score))
		}
	}

	sortSuggestions(suggestions)
	if s.Limit > 0 && len(suggestions) > s.Limit {
		suggestions = suggestions[:s.Limit]
	}
	return suggestions
}

// Complete replaces the identifier under the cursor with the best
// suggestion. A space is appended for commands that take parameters.
// Returns the new text and cursor, or false when there is nothing to insert.
func (s *Suggester) Complete(text string, cursorPos int) (string, int, bool) {
	suggestions := s.Suggest(text, cursorPos)
	if len(suggestions) == 0 {
		return text, cursorPos, false
	}
	return s.Insert(text, cursorPos, suggestions[0].Name)
}

// Insert replaces the identifier under the cursor with name, which must be
// a registered command.
func (s *Suggester) Insert(text string, cursorPos int, name string) (string, int, bool) {
	if s.catalog == nil || cursorPos < 0 || cursorPos > len(text) {
		return text, cursorPos, false
	}
	cmd := s.catalog.Find(name)
	if cmd == nil {
		return text, cursorPos, false
	}
	start, end, ok := tokenAt(text, cursorPos)
	if !ok {
		return text, cursorPos, false
	}

	insert := string(Marker) + cmd.Name
	rest := text[end:]
	cursor := start + len(insert)
	if len(cmd.Params) > 0 {
		if !strings.HasPrefix(rest, " ") {
			insert += " "
		}
		// Land after the separator, ready for the first argument
		cursor++
	}
	return text[:start] + insert + rest, cursor, true
}

func newSuggestion(cmd *Command, score int) Suggestion {
	return Suggestion{
		Name:        cmd.Name,
		Display:     cmd.Usage(),
		Description: cmd.Description,
		Score:       score,
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// calculateScore calculates a match score for suggestion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100

	// Exact match
	if value == partial {
		return score + 100
	}

	// Prefix match bonus
	if strings.HasPrefix(value, partial) {
		score += 50
		// Bonus for shorter names
		score += 20 - len(value)
	}

	// Length penalty
	score -= len(value) / 2

	return score
}

// sortSuggestions sorts by score (descending), then alphabetically.
func sortSuggestions(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Name < suggestions[j].Name
	})
}
