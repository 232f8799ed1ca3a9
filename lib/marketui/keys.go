// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the dashboard TUI.
type KeyMap struct {
	// Navigation.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Tab switching.
	TabProjects  key.Binding
	TabIdeas     key.Binding
	TabProposals key.Binding

	// Filter.
	FilterActivate key.Binding
	FilterClear    key.Binding

	// Actions (shown in the footer only when policy permits).
	NewIdea key.Binding
	Propose key.Binding
	Accept  key.Binding
	Reject  key.Binding

	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	TabProjects: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "projects"),
	),
	TabIdeas: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "ideas"),
	),
	TabProposals: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "my proposals"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	NewIdea: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new idea"),
	),
	Propose: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "propose"),
	),
	Accept: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "accept"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
