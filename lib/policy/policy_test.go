// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"testing"

	"github.com/atelier-foundation/atelier/marketplace"
)

var (
	creator  = &marketplace.User{ID: 1, Role: marketplace.RoleIdeaCreator}
	executor = &marketplace.User{ID: 2, Role: marketplace.RoleExecutor}
	employer = &marketplace.User{ID: 3, Role: marketplace.RoleEmployer}
	admin    = &marketplace.User{ID: 4, Role: marketplace.RoleAdmin}
	stranger = &marketplace.User{ID: 9, Role: marketplace.RoleEmployer}
)

func projectWith(status marketplace.ProjectStatus, executorID *int64) *marketplace.Project {
	return &marketplace.Project{ID: 10, Status: status, EmployerID: employer.ID, ExecutorID: executorID}
}

func TestCanCreateIdea(t *testing.T) {
	cases := []struct {
		user *marketplace.User
		want bool
	}{
		{creator, true},
		{executor, false},
		{employer, false},
		{admin, false},
		{nil, false},
	}
	for _, testCase := range cases {
		if got := CanCreateIdea(testCase.user); got != testCase.want {
			t.Errorf("CanCreateIdea(%+v) = %v, want %v", testCase.user, got, testCase.want)
		}
	}
}

func TestCanUpdateIdea(t *testing.T) {
	idea := &marketplace.Idea{ID: 5, CreatorID: creator.ID}
	cases := []struct {
		name string
		user *marketplace.User
		want bool
	}{
		{"creator owns it", creator, true},
		{"admin", admin, true},
		{"other role", executor, false},
		{"nil user", nil, false},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := CanUpdateIdea(testCase.user, idea); got != testCase.want {
				t.Errorf("got %v, want %v", got, testCase.want)
			}
		})
	}
	if CanUpdateIdea(creator, nil) {
		t.Error("nil idea must be denied")
	}
}

func TestCanCreateProject(t *testing.T) {
	for user, want := range map[*marketplace.User]bool{
		employer: true,
		admin:    true,
		creator:  false,
		executor: false,
	} {
		if got := CanCreateProject(user); got != want {
			t.Errorf("CanCreateProject(role %s) = %v, want %v", user.Role, got, want)
		}
	}
}

func TestCanProposeFollowsProjectStatus(t *testing.T) {
	// The gate is open only while the project accepts bids; it flips
	// closed the moment the status leaves new.
	cases := []struct {
		status marketplace.ProjectStatus
		want   bool
	}{
		{marketplace.ProjectNew, true},
		{marketplace.ProjectInProgress, false},
		{marketplace.ProjectCompleted, false},
		{marketplace.ProjectCancelled, false},
	}
	for _, testCase := range cases {
		t.Run(string(testCase.status), func(t *testing.T) {
			project := projectWith(testCase.status, nil)
			if got := CanPropose(executor, project); got != testCase.want {
				t.Errorf("executor on %s project: got %v, want %v", testCase.status, got, testCase.want)
			}
			// Non-executors never propose, whatever the status.
			for _, user := range []*marketplace.User{creator, employer, admin} {
				if CanPropose(user, project) {
					t.Errorf("role %s allowed to propose", user.Role)
				}
			}
		})
	}
}

func TestCanViewProposals(t *testing.T) {
	project := projectWith(marketplace.ProjectNew, nil)
	cases := []struct {
		name string
		user *marketplace.User
		want bool
	}{
		{"owning employer", employer, true},
		{"admin", admin, true},
		{"other employer", stranger, false},
		{"executor", executor, false},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := CanViewProposals(testCase.user, project); got != testCase.want {
				t.Errorf("got %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestCanDecideProposal(t *testing.T) {
	project := projectWith(marketplace.ProjectNew, nil)
	pending := &marketplace.Proposal{ID: 7, ProjectID: project.ID, Status: marketplace.ProposalPending}
	accepted := &marketplace.Proposal{ID: 8, ProjectID: project.ID, Status: marketplace.ProposalAccepted}

	if !CanDecideProposal(employer, project, pending) {
		t.Error("owning employer denied on pending proposal")
	}
	if !CanDecideProposal(admin, project, pending) {
		t.Error("admin denied on pending proposal")
	}
	if CanDecideProposal(stranger, project, pending) {
		t.Error("non-owning employer allowed")
	}
	if CanDecideProposal(employer, project, accepted) {
		t.Error("decided proposal must be terminal")
	}
	if CanDecideProposal(employer, project, nil) {
		t.Error("nil proposal allowed")
	}
}

func TestCanAccessFiles(t *testing.T) {
	assigned := executor.ID
	project := projectWith(marketplace.ProjectInProgress, &assigned)

	cases := []struct {
		name string
		user *marketplace.User
		want bool
	}{
		{"employer", employer, true},
		{"assigned executor", executor, true},
		{"admin", admin, true},
		{"stranger", stranger, false},
		{"creator", creator, false},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := CanAccessFiles(testCase.user, project); got != testCase.want {
				t.Errorf("got %v, want %v", got, testCase.want)
			}
		})
	}

	unassigned := projectWith(marketplace.ProjectNew, nil)
	if CanAccessFiles(executor, unassigned) {
		t.Error("executor allowed before assignment")
	}
}

func TestCanMessageAndRate(t *testing.T) {
	assigned := executor.ID
	project := projectWith(marketplace.ProjectInProgress, &assigned)

	// Only the two project participants converse; admins stay out.
	if !CanMessage(employer, project) || !CanMessage(executor, project) {
		t.Error("participant denied")
	}
	if CanMessage(admin, project) {
		t.Error("admin allowed to message")
	}
	if CanMessage(stranger, project) {
		t.Error("stranger allowed to message")
	}

	if CanRate(employer, project) != CanMessage(employer, project) {
		t.Error("rating gate diverged from messaging gate")
	}
	if CanRate(admin, project) {
		t.Error("admin allowed to rate")
	}
}
