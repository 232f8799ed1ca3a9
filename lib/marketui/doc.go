// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package marketui is the terminal dashboard for the Atelier
// marketplace. It renders three tabbed lists (projects, ideas, the
// acting user's proposals) with a detail pane, fuzzy filtering, and a
// footer of actions gated by the policy package — a key appears only
// when the current identity may take the action on the selected
// entity.
//
// The model follows the bubbletea architecture: all data arrives as
// messages from async commands, and the view is a pure function of
// model state. Results that arrive after the user quits are dropped.
package marketui
