// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"testing"

	"github.com/atelier-foundation/atelier/marketplace"
)

func sampleRows() []Row {
	budget := 1500.0
	return []Row{
		{Project: &marketplace.Project{ID: 1, Title: "Build landing page", Status: marketplace.ProjectNew, Budget: &budget}},
		{Project: &marketplace.Project{ID: 2, Title: "Rework billing pipeline", Status: marketplace.ProjectInProgress}},
		{Idea: &marketplace.Idea{ID: 3, Title: "Dark mode everywhere", Status: marketplace.IdeaUnderReview, Tags: []string{"design", "frontend"}}},
	}
}

func TestFilterEmptyMatchesEverything(t *testing.T) {
	filter := FilterModel{}
	rows := sampleRows()

	filtered := filter.Apply(rows)
	if len(filtered) != len(rows) {
		t.Fatalf("empty filter kept %d of %d rows", len(filtered), len(rows))
	}

	scored := filter.ApplyFuzzy(rows)
	if len(scored) != len(rows) {
		t.Fatalf("empty fuzzy filter kept %d of %d rows", len(scored), len(rows))
	}
	for index, entry := range scored {
		if entry.Score != 0 || entry.Positions != nil {
			t.Errorf("row %d: empty filter must not score, got %+v", index, entry)
		}
		if entry.Row.ID() != rows[index].ID() {
			t.Errorf("row %d: empty filter must preserve order", index)
		}
	}
}

func TestFilterMatchesTitleStatusAndTags(t *testing.T) {
	rows := sampleRows()

	cases := []struct {
		name  string
		input string
		want  []int64
	}{
		{"title", "billing", []int64{2}},
		{"status", "in_progress", []int64{2}},
		{"tag", "frontend", []int64{3}},
		{"case insensitive", "BUILD", []int64{1}},
		{"no match", "kubernetes", nil},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			filter := FilterModel{Input: testCase.input}
			filtered := filter.Apply(rows)
			if len(filtered) != len(testCase.want) {
				t.Fatalf("got %d rows, want %d", len(filtered), len(testCase.want))
			}
			for index, row := range filtered {
				if row.ID() != testCase.want[index] {
					t.Errorf("row %d: got ID %d, want %d", index, row.ID(), testCase.want[index])
				}
			}
		})
	}
}

func TestFuzzyFilterOrdersByScore(t *testing.T) {
	rows := []Row{
		{Project: &marketplace.Project{ID: 1, Title: "bottle infill level", Status: marketplace.ProjectNew}},
		{Project: &marketplace.Project{ID: 2, Title: "billing dashboard", Status: marketplace.ProjectNew}},
	}
	filter := FilterModel{Input: "bill"}

	scored := filter.ApplyFuzzy(rows)
	if len(scored) != 2 {
		t.Fatalf("expected both rows to match, got %d", len(scored))
	}
	// The contiguous "bill" in "billing dashboard" outscores the
	// scattered one.
	if scored[0].Row.ID() != 2 {
		t.Errorf("expected ID 2 first, got %d", scored[0].Row.ID())
	}
	if scored[0].Score <= scored[1].Score {
		t.Errorf("expected descending scores: %d then %d", scored[0].Score, scored[1].Score)
	}
	if len(scored[0].Positions) == 0 {
		t.Error("expected match positions for highlighting")
	}
}

func TestFuzzyFilterKeepsSubstringFallbacks(t *testing.T) {
	rows := sampleRows()
	// "in_progress" does not fuzzy-match any title, but the second
	// row's status substring-matches; it must survive with zero score.
	filter := FilterModel{Input: "in_progress"}

	scored := filter.ApplyFuzzy(rows)
	if len(scored) != 1 {
		t.Fatalf("expected 1 fallback row, got %d", len(scored))
	}
	if scored[0].Row.ID() != 2 || scored[0].Score != 0 {
		t.Errorf("got ID %d score %d, want ID 2 score 0", scored[0].Row.ID(), scored[0].Score)
	}
}

func TestFilterInputEditing(t *testing.T) {
	filter := FilterModel{Active: true}

	for _, character := range "abc" {
		filter.HandleRune(character)
	}
	if filter.Input != "abc" {
		t.Fatalf("got input %q, want %q", filter.Input, "abc")
	}

	if !filter.HandleBackspace() {
		t.Error("backspace on non-empty input should report a change")
	}
	if filter.Input != "ab" {
		t.Errorf("got input %q after backspace, want %q", filter.Input, "ab")
	}

	filter.Input = ""
	if filter.HandleBackspace() {
		t.Error("backspace on empty input should report no change")
	}

	filter.Input = "xyz"
	filter.Clear()
	if filter.Input != "" || filter.Active {
		t.Errorf("clear left state %+v", filter)
	}
}

func TestFilterViewStates(t *testing.T) {
	theme := DefaultTheme

	hidden := FilterModel{}
	if view := hidden.View(theme, 80); view != "" {
		t.Errorf("inactive empty filter should render nothing, got %q", view)
	}

	active := FilterModel{Active: true, Input: "web"}
	if view := active.View(theme, 80); view == "" {
		t.Error("active filter should render the input bar")
	}

	inactive := FilterModel{Input: "web"}
	if view := inactive.View(theme, 80); view == "" {
		t.Error("inactive filter with text should stay visible")
	}
}
