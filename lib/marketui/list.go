// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atelier-foundation/atelier/marketplace"
)

// Column widths for the list table. The title column fills remaining
// space; status and amount are fixed.
const (
	columnWidthStatus = 13 // longest status "under_review" + space
	columnWidthAmount = 11 // "$999999.99 "

	// minTitleWidth keeps rows legible on absurdly narrow terminals.
	minTitleWidth = 10
)

// Row is one list entry. Exactly one of Project, Idea, Proposal is
// set, matching the tab the row belongs to.
type Row struct {
	Project  *marketplace.Project
	Idea     *marketplace.Idea
	Proposal *marketplace.Proposal
}

// ID returns the underlying entity's ID.
func (row Row) ID() int64 {
	switch {
	case row.Project != nil:
		return row.Project.ID
	case row.Idea != nil:
		return row.Idea.ID
	case row.Proposal != nil:
		return row.Proposal.ID
	}
	return 0
}

// Title returns the display title. Proposals have no title of their
// own; they show the timeline or cover letter lead.
func (row Row) Title() string {
	switch {
	case row.Project != nil:
		return row.Project.Title
	case row.Idea != nil:
		return row.Idea.Title
	case row.Proposal != nil:
		if row.Proposal.ProposedTimeline != "" {
			return fmt.Sprintf("project #%d — %s", row.Proposal.ProjectID, row.Proposal.ProposedTimeline)
		}
		return fmt.Sprintf("project #%d", row.Proposal.ProjectID)
	}
	return ""
}

// Status returns the entity's status string.
func (row Row) Status() string {
	switch {
	case row.Project != nil:
		return string(row.Project.Status)
	case row.Idea != nil:
		return string(row.Idea.Status)
	case row.Proposal != nil:
		return string(row.Proposal.Status)
	}
	return ""
}

// Amount returns the money column value, or nil when the entity has
// none.
func (row Row) Amount() *float64 {
	switch {
	case row.Project != nil:
		return row.Project.Budget
	case row.Proposal != nil:
		return row.Proposal.ProposedPrice
	}
	return nil
}

// Tags returns the idea's tags; empty for other entities.
func (row Row) Tags() []string {
	if row.Idea != nil {
		return row.Idea.Tags
	}
	return nil
}

// statusColor resolves the theme color for this row's status.
func (row Row) statusColor(theme Theme) lipgloss.Color {
	switch {
	case row.Project != nil:
		return theme.ProjectStatusColor(row.Project.Status)
	case row.Idea != nil:
		return theme.IdeaStatusColor(row.Idea.Status)
	case row.Proposal != nil:
		return theme.ProposalStatusColor(row.Proposal.Status)
	}
	return theme.FaintText
}

// ListRenderer handles the table-style rendering of rows within a
// given width.
type ListRenderer struct {
	theme Theme
	width int
}

// NewListRenderer creates a ListRenderer for the given width.
func NewListRenderer(theme Theme, width int) ListRenderer {
	return ListRenderer{theme: theme, width: width}
}

// RenderRow renders a single row. The selected flag controls
// highlight styling. matchPositions contains rune indices in the
// title that matched the current fuzzy filter; those characters get
// the match highlight background.
//
// Row layout: status + amount + title [tags]
//
//	new          $1500.00   Build landing page [web, design]
//	in_progress             Rework billing pipeline
func (renderer ListRenderer) RenderRow(row Row, selected bool, matchPositions []int) string {
	titleWidth := renderer.width - 1 - columnWidthStatus - columnWidthAmount
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}

	titleText := row.Title()
	tagsText := ""
	if tags := row.Tags(); len(tags) > 0 {
		tagsText = " [" + strings.Join(tags, ", ") + "]"
	}

	combined := titleText + tagsText
	if lipgloss.Width(combined) > titleWidth {
		// Prefer showing the title over the tags.
		if lipgloss.Width(titleText) >= titleWidth-1 {
			combined = ansi.Truncate(titleText, titleWidth-1, "") + "…"
		} else {
			combined = titleText + ansi.Truncate(tagsText, titleWidth-lipgloss.Width(titleText)-1, "") + "…"
		}
	}

	amountText := ""
	if amount := row.Amount(); amount != nil {
		amountText = fmt.Sprintf("$%.2f", *amount)
	}

	if selected {
		return renderer.renderSelectedRow(row, combined, amountText, matchPositions)
	}
	return renderer.renderNormalRow(row, combined, amountText, matchPositions)
}

func (renderer ListRenderer) renderNormalRow(row Row, titleTags, amountText string, matchPositions []int) string {
	statusStyle := lipgloss.NewStyle().
		Width(columnWidthStatus).
		Foreground(row.statusColor(renderer.theme))
	amountStyle := lipgloss.NewStyle().
		Width(columnWidthAmount).
		Foreground(renderer.theme.AmountForeground)
	titleStyle := lipgloss.NewStyle().
		Foreground(renderer.theme.NormalText)

	var titleRendered string
	if len(matchPositions) > 0 {
		highlightStyle := lipgloss.NewStyle().
			Foreground(renderer.theme.NormalText).
			Background(renderer.theme.MatchHighlightBackground)
		titleRendered = highlightTitle(titleTags, row.Title(), matchPositions, titleStyle, highlightStyle)
	} else {
		titleRendered = titleStyle.Render(titleTags)
	}

	line := " " +
		statusStyle.Render(row.Status()) +
		amountStyle.Render(amountText) +
		titleRendered

	return lipgloss.NewStyle().Width(renderer.width).MaxWidth(renderer.width).Render(line)
}

func (renderer ListRenderer) renderSelectedRow(row Row, titleTags, amountText string, matchPositions []int) string {
	baseStyle := lipgloss.NewStyle().
		Background(renderer.theme.SelectedBackground).
		Foreground(renderer.theme.SelectedForeground)

	var titleRendered string
	if len(matchPositions) > 0 {
		// The selection background makes a tint invisible; bold plus
		// underline keeps matches visible on the highlighted row.
		highlightStyle := baseStyle.Bold(true).Underline(true)
		titleRendered = highlightTitle(titleTags, row.Title(), matchPositions, baseStyle, highlightStyle)
	} else {
		titleRendered = baseStyle.Render(titleTags)
	}

	line := " " +
		baseStyle.Width(columnWidthStatus).Render(row.Status()) +
		baseStyle.Width(columnWidthAmount).Render(amountText) +
		titleRendered

	return baseStyle.Width(renderer.width).MaxWidth(renderer.width).Render(line)
}

// highlightTitle renders a title+tags string with character-level
// highlighting at the given rune positions. Positions index into the
// original title (before tags were appended); the tags suffix is
// never highlighted. Consecutive same-style runs are batched into a
// single Render call to keep ANSI output compact.
func highlightTitle(titleTags, originalTitle string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(titleTags)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	titleLength := len([]rune(originalTitle))
	combinedRunes := []rune(titleTags)

	var result strings.Builder
	runStart := 0
	isHighlighted := runStart < titleLength && positionSet[0]

	for index := 1; index <= len(combinedRunes); index++ {
		currentHighlighted := index < titleLength && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(combinedRunes) {
			chunk := string(combinedRunes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}

	return result.String()
}
