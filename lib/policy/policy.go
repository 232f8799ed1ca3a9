// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package policy decides which marketplace actions the acting user may
// take against an entity snapshot. Predicates are pure functions of
// the inputs — no stored state, no caching — so the same snapshot
// always yields the same answer and callers re-evaluate after every
// re-fetch.
//
// These gates drive the UI only. The server re-checks every rule on
// every request; a stale snapshot here costs at worst a rejected call,
// never an unauthorized one.
package policy

import (
	"github.com/atelier-foundation/atelier/marketplace"
)

// CanCreateIdea reports whether the user may submit a new idea.
func CanCreateIdea(user *marketplace.User) bool {
	return user != nil && user.Role == marketplace.RoleIdeaCreator
}

// CanUpdateIdea reports whether the user may edit an existing idea:
// its creator, or an admin.
func CanUpdateIdea(user *marketplace.User, idea *marketplace.Idea) bool {
	if user == nil || idea == nil {
		return false
	}
	return user.Role == marketplace.RoleAdmin || user.ID == idea.CreatorID
}

// CanCreateProject reports whether the user may create a project.
func CanCreateProject(user *marketplace.User) bool {
	if user == nil {
		return false
	}
	return user.Role == marketplace.RoleEmployer || user.Role == marketplace.RoleAdmin
}

// CanPropose reports whether the user may bid on the project. Only
// executors may propose, and only while the project is still open for
// bids (status new). Once an executor is chosen the gate closes.
func CanPropose(user *marketplace.User, project *marketplace.Project) bool {
	if user == nil || project == nil {
		return false
	}
	return user.Role == marketplace.RoleExecutor && project.Status == marketplace.ProjectNew
}

// CanViewProposals reports whether the user may list the project's
// proposals: the owning employer, or an admin.
func CanViewProposals(user *marketplace.User, project *marketplace.Project) bool {
	if user == nil || project == nil {
		return false
	}
	return user.Role == marketplace.RoleAdmin || user.ID == project.EmployerID
}

// CanDecideProposal reports whether the user may accept or reject the
// proposal. Requires ownership of the parent project (or admin) and a
// proposal still pending — accepted and rejected are terminal.
func CanDecideProposal(user *marketplace.User, project *marketplace.Project, proposal *marketplace.Proposal) bool {
	if proposal == nil || proposal.Status != marketplace.ProposalPending {
		return false
	}
	return CanViewProposals(user, project)
}

// CanAccessFiles reports whether the user may upload to or list the
// project's files: the employer, the assigned executor, or an admin.
func CanAccessFiles(user *marketplace.User, project *marketplace.Project) bool {
	if user == nil || project == nil {
		return false
	}
	if user.Role == marketplace.RoleAdmin || user.ID == project.EmployerID {
		return true
	}
	return project.ExecutorID != nil && user.ID == *project.ExecutorID
}

// CanMessage reports whether the user may post in the project's
// conversation. Only the two participants — the employer and the
// assigned executor — may message; admins read through other surfaces
// but do not join the conversation.
func CanMessage(user *marketplace.User, project *marketplace.Project) bool {
	if user == nil || project == nil {
		return false
	}
	if user.ID == project.EmployerID {
		return true
	}
	return project.ExecutorID != nil && user.ID == *project.ExecutorID
}

// CanRate reports whether the user may rate a participant of the
// project. Same participant rule as messaging; the per-project
// one-rating limit is enforced server-side.
func CanRate(user *marketplace.User, project *marketplace.Project) bool {
	return CanMessage(user, project)
}
