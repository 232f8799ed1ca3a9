// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-foundation/atelier/marketplace"
)

// Theme defines the color palette for the dashboard. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Entity status colors.
	StatusNew        lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusCompleted  lipgloss.Color
	StatusCancelled  lipgloss.Color
	StatusPending    lipgloss.Color
	StatusAccepted   lipgloss.Color
	StatusRejected   lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Filter match highlighting.
	MatchHighlightBackground lipgloss.Color

	// Money amounts (budgets, proposed prices).
	AmountForeground lipgloss.Color
}

// ProjectStatusColor returns the color for a project status.
func (theme Theme) ProjectStatusColor(status marketplace.ProjectStatus) lipgloss.Color {
	switch status {
	case marketplace.ProjectNew:
		return theme.StatusNew
	case marketplace.ProjectInProgress:
		return theme.StatusInProgress
	case marketplace.ProjectCompleted:
		return theme.StatusCompleted
	case marketplace.ProjectCancelled:
		return theme.StatusCancelled
	default:
		return theme.FaintText
	}
}

// IdeaStatusColor returns the color for an idea status.
func (theme Theme) IdeaStatusColor(status marketplace.IdeaStatus) lipgloss.Color {
	switch status {
	case marketplace.IdeaUnderReview:
		return theme.StatusPending
	case marketplace.IdeaInProject:
		return theme.StatusInProgress
	case marketplace.IdeaRejected:
		return theme.StatusRejected
	default:
		return theme.FaintText
	}
}

// ProposalStatusColor returns the color for a proposal status.
func (theme Theme) ProposalStatusColor(status marketplace.ProposalStatus) lipgloss.Color {
	switch status {
	case marketplace.ProposalPending:
		return theme.StatusPending
	case marketplace.ProposalAccepted:
		return theme.StatusAccepted
	case marketplace.ProposalRejected:
		return theme.StatusRejected
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusNew:        lipgloss.Color("114"), // green: open for bids
	StatusInProgress: lipgloss.Color("220"), // yellow/amber
	StatusCompleted:  lipgloss.Color("245"), // gray
	StatusCancelled:  lipgloss.Color("196"), // red
	StatusPending:    lipgloss.Color("220"), // amber: awaiting a decision
	StatusAccepted:   lipgloss.Color("114"), // green
	StatusRejected:   lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	MatchHighlightBackground: lipgloss.Color("58"), // dark amber

	AmountForeground: lipgloss.Color("75"), // blue
}
