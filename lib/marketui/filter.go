// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"
)

// FilterModel narrows the active tab's rows client-side. The tab
// chooses the base set (projects, ideas, proposals); the filter
// narrows it without round-tripping to the server.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus (the
	// user pressed / to start typing).
	Active bool
}

// ScoredRow pairs a row with its fuzzy match score and the matched
// title positions for highlighting.
type ScoredRow struct {
	Row       Row
	Score     int
	Positions []int
}

// MatchesRow returns true if the row matches the current filter under
// plain case-insensitive substring semantics. An empty filter matches
// everything. Title, status, and tags are all searchable.
func (filter *FilterModel) MatchesRow(row Row) bool {
	if filter.Input == "" {
		return true
	}

	query := strings.ToLower(filter.Input)

	if strings.Contains(strings.ToLower(row.Title()), query) {
		return true
	}
	if strings.Contains(strings.ToLower(row.Status()), query) {
		return true
	}
	for _, tag := range row.Tags() {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Apply filters rows with substring matching, preserving order.
func (filter *FilterModel) Apply(rows []Row) []Row {
	if filter.Input == "" {
		return rows
	}
	var result []Row
	for _, row := range rows {
		if filter.MatchesRow(row) {
			result = append(result, row)
		}
	}
	return result
}

// ApplyFuzzy scores rows against the filter text with the fzf
// algorithm and returns matches ordered by descending score. Rows
// whose title does not fuzzy-match but whose status or tags substring-
// match are kept with zero score, after all scored matches. An empty
// filter returns every row unscored in the original order.
func (filter *FilterModel) ApplyFuzzy(rows []Row) []ScoredRow {
	if filter.Input == "" {
		result := make([]ScoredRow, len(rows))
		for index, row := range rows {
			result[index] = ScoredRow{Row: row}
		}
		return result
	}

	pattern := []rune(filter.Input)
	slab := util.MakeSlab(100*1024, 2048)

	var matched []ScoredRow
	var fallback []ScoredRow
	for _, row := range rows {
		outcome := fuzzyMatch(row.Title(), pattern, slab)
		if outcome.Score > 0 {
			matched = append(matched, ScoredRow{Row: row, Score: outcome.Score, Positions: outcome.Positions})
			continue
		}
		if filter.MatchesRow(row) {
			fallback = append(fallback, ScoredRow{Row: row})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	return append(matched, fallback...)
}

// HandleRune processes a character typed while the filter is active.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text dimmed.
// When inactive and empty, the bar is hidden.
func (filter *FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width)

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor)
	}

	dimStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width)
	return dimStyle.Render(" filter: " + filter.Input)
}
