// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/atelier-foundation/atelier/marketplace"
)

// fakeSource serves canned data and records decisions.
type fakeSource struct {
	mu        sync.Mutex
	projects  []marketplace.Project
	ideas     []marketplace.Idea
	mine      []marketplace.Proposal
	incoming  map[int64][]marketplace.Proposal
	stats     *marketplace.DashboardStats
	decisions []int64
}

func (f *fakeSource) Projects(context.Context, marketplace.ProjectFilter) ([]marketplace.Project, error) {
	return f.projects, nil
}

func (f *fakeSource) Ideas(context.Context, marketplace.IdeaFilter) ([]marketplace.Idea, error) {
	return f.ideas, nil
}

func (f *fakeSource) MyProposals(context.Context) ([]marketplace.Proposal, error) {
	return f.mine, nil
}

func (f *fakeSource) ProjectProposals(_ context.Context, projectID int64) ([]marketplace.Proposal, error) {
	return f.incoming[projectID], nil
}

func (f *fakeSource) DashboardStats(context.Context) (*marketplace.DashboardStats, error) {
	return f.stats, nil
}

func (f *fakeSource) DecideProposal(_ context.Context, proposalID int64, verdict marketplace.Verdict) (*marketplace.Proposal, *marketplace.Project, error) {
	f.mu.Lock()
	f.decisions = append(f.decisions, proposalID)
	f.mu.Unlock()
	return &marketplace.Proposal{ID: proposalID, Status: marketplace.ProposalStatus(verdict)}, nil, nil
}

func testSource() *fakeSource {
	budget := 1500.0
	return &fakeSource{
		projects: []marketplace.Project{
			{ID: 1, Title: "Build landing page", Status: marketplace.ProjectNew, EmployerID: 3, Budget: &budget},
			{ID: 2, Title: "Rework billing", Status: marketplace.ProjectInProgress, EmployerID: 3},
		},
		ideas: []marketplace.Idea{
			{ID: 10, Title: "Dark mode", Status: marketplace.IdeaUnderReview, CreatorID: 1},
		},
		mine: []marketplace.Proposal{
			{ID: 20, ProjectID: 1, ExecutorID: 2, Status: marketplace.ProposalPending},
		},
		incoming: map[int64][]marketplace.Proposal{
			1: {{ID: 30, ProjectID: 1, ExecutorID: 2, Status: marketplace.ProposalPending}},
		},
		stats: &marketplace.DashboardStats{ProjectsCount: 2, ProposalsCount: 1},
	}
}

func userWithRole(role marketplace.Role, id int64) *marketplace.User {
	return &marketplace.User{ID: id, FullName: "Test User", Role: role}
}

// readyModel builds a model, sizes it, and injects loaded data the way
// the async commands would deliver it.
func readyModel(t *testing.T, source *fakeSource, user *marketplace.User) Model {
	t.Helper()
	model := New(source, user)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	model = updated.(Model)

	updated, _ = model.Update(projectsLoadedMsg{generation: 0, projects: source.projects})
	model = updated.(Model)
	updated, _ = model.Update(ideasLoadedMsg{generation: 0, ideas: source.ideas})
	model = updated.(Model)
	updated, _ = model.Update(proposalsLoadedMsg{generation: 0, proposals: source.mine})
	model = updated.(Model)
	updated, _ = model.Update(statsLoadedMsg{generation: 0, stats: source.stats})
	return updated.(Model)
}

func keyPress(model Model, keys string) Model {
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return updated.(Model)
}

func TestModelLoadsAndRenders(t *testing.T) {
	model := readyModel(t, testSource(), userWithRole(marketplace.RoleExecutor, 2))

	view := ansi.Strip(model.View())
	for _, want := range []string{"Build landing page", "Rework billing", "projects:2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStaleGenerationDropped(t *testing.T) {
	model := readyModel(t, testSource(), userWithRole(marketplace.RoleExecutor, 2))

	// Refresh bumps the generation; a message from the old generation
	// must not overwrite the data.
	updated, _ := model.reloadAll()
	model = updated.(Model)

	updated, _ = model.Update(projectsLoadedMsg{generation: 0, projects: nil})
	model = updated.(Model)
	if len(model.projects) != 2 {
		t.Errorf("stale load overwrote projects: %d rows", len(model.projects))
	}
}

func TestMessagesAfterQuitDiscarded(t *testing.T) {
	model := readyModel(t, testSource(), userWithRole(marketplace.RoleExecutor, 2))

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	model = updated.(Model)
	if !model.quitting {
		t.Fatal("q should quit")
	}

	updated, _ = model.Update(projectsLoadedMsg{generation: 0, projects: nil})
	model = updated.(Model)
	if len(model.projects) != 2 {
		t.Error("post-quit message mutated the model")
	}
}

func TestCursorNavigationClamps(t *testing.T) {
	model := readyModel(t, testSource(), userWithRole(marketplace.RoleExecutor, 2))

	model = keyPress(model, "k")
	if model.cursor != 0 {
		t.Errorf("cursor moved above top: %d", model.cursor)
	}
	model = keyPress(model, "j")
	if model.cursor != 1 {
		t.Errorf("cursor after j: %d", model.cursor)
	}
	model = keyPress(model, "j")
	if model.cursor != 1 {
		t.Errorf("cursor moved past bottom: %d", model.cursor)
	}
	model = keyPress(model, "g")
	if model.cursor != 0 {
		t.Errorf("cursor after g: %d", model.cursor)
	}
}

func TestTabSwitchingResetsFilter(t *testing.T) {
	model := readyModel(t, testSource(), userWithRole(marketplace.RoleExecutor, 2))

	model = keyPress(model, "/")
	model = keyPress(model, "landing")
	if len(model.visible) != 1 {
		t.Fatalf("filter should narrow to 1 row, got %d", len(model.visible))
	}

	model = keyPress(model, "2")
	if model.activeTab != TabIdeas {
		t.Fatalf("active tab: %v", model.activeTab)
	}
	if model.filter.Input != "" {
		t.Error("tab switch should clear the filter")
	}
	if len(model.visible) != 1 || model.visible[0].Row.Idea == nil {
		t.Errorf("ideas tab rows: %+v", model.visible)
	}
}

func TestFooterGatesActionsByPolicy(t *testing.T) {
	source := testSource()

	t.Run("executor sees propose on a new project", func(t *testing.T) {
		model := readyModel(t, source, userWithRole(marketplace.RoleExecutor, 2))
		actions := strings.Join(model.availableActions(), " ")
		if !strings.Contains(actions, "propose") {
			t.Errorf("actions %q missing propose", actions)
		}
	})

	t.Run("propose disappears when the project is in progress", func(t *testing.T) {
		model := readyModel(t, source, userWithRole(marketplace.RoleExecutor, 2))
		model = keyPress(model, "j") // select the in_progress project
		actions := strings.Join(model.availableActions(), " ")
		if strings.Contains(actions, "propose") {
			t.Errorf("actions %q should not offer propose", actions)
		}
	})

	t.Run("employer sees proposals entry, not propose", func(t *testing.T) {
		model := readyModel(t, source, userWithRole(marketplace.RoleEmployer, 3))
		actions := strings.Join(model.availableActions(), " ")
		if strings.Contains(actions, "propose") {
			t.Errorf("employer must not see propose: %q", actions)
		}
		if !strings.Contains(actions, "proposals") {
			t.Errorf("owner should see the proposals entry: %q", actions)
		}
	})

	t.Run("idea creator sees new idea on the ideas tab", func(t *testing.T) {
		model := readyModel(t, source, userWithRole(marketplace.RoleIdeaCreator, 1))
		model = keyPress(model, "2")
		actions := strings.Join(model.availableActions(), " ")
		if !strings.Contains(actions, "new idea") {
			t.Errorf("actions %q missing new idea", actions)
		}
	})

	t.Run("executor sees no decision keys on own proposals", func(t *testing.T) {
		model := readyModel(t, source, userWithRole(marketplace.RoleExecutor, 2))
		model = keyPress(model, "3")
		updated, _ := model.Update(proposalsLoadedMsg{generation: 0, proposals: source.mine})
		model = updated.(Model)
		actions := strings.Join(model.availableActions(), " ")
		if strings.Contains(actions, "accept") {
			t.Errorf("executor must not decide: %q", actions)
		}
	})
}

func TestEmployerDecidesIncomingProposal(t *testing.T) {
	source := testSource()
	model := readyModel(t, source, userWithRole(marketplace.RoleEmployer, 3))

	// Enter the first project's proposals.
	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if command == nil {
		t.Fatal("entering a project should start a load")
	}
	if model.activeTab != TabProposals || model.focusedProject == nil {
		t.Fatalf("tab=%v focused=%v", model.activeTab, model.focusedProject)
	}

	updated, _ = model.Update(proposalsLoadedMsg{generation: 0, proposals: source.incoming[1]})
	model = updated.(Model)

	actions := strings.Join(model.availableActions(), " ")
	if !strings.Contains(actions, "accept") || !strings.Contains(actions, "reject") {
		t.Fatalf("owner of a pending proposal should see decision keys: %q", actions)
	}

	updated, command = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	model = updated.(Model)
	if command == nil {
		t.Fatal("accept should issue a command")
	}
	message := command()
	done, ok := message.(decisionDoneMsg)
	if !ok {
		t.Fatalf("got %T, want decisionDoneMsg", message)
	}
	if done.err != nil {
		t.Fatalf("decision error: %v", done.err)
	}
	if len(source.decisions) != 1 || source.decisions[0] != 30 {
		t.Errorf("decided proposals: %v", source.decisions)
	}
}

func TestStrangerCannotDecide(t *testing.T) {
	source := testSource()
	model := readyModel(t, source, userWithRole(marketplace.RoleExecutor, 2))

	// Force the proposals view onto someone else's project; the gate
	// must stay shut even if the data is present.
	model.focusedProject = &source.projects[0]
	model.activeTab = TabProposals
	model.proposals = source.incoming[1]
	model.refreshVisible()

	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	model = updated.(Model)
	if command != nil {
		t.Fatal("non-owner accept should be a no-op")
	}
	if len(source.decisions) != 0 {
		t.Errorf("decisions recorded for non-owner: %v", source.decisions)
	}
}
