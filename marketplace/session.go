// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/atelier-foundation/atelier/lib/secret"
)

// Session is an authenticated marketplace session. It wraps a Client
// with an access token; every call attaches the bearer credential
// through the client's request chokepoint. Sessions are lightweight.
//
// The token lives in protected memory (lib/secret). Call Close when
// the session is no longer needed.
type Session struct {
	client      *Client
	accessToken *secret.Buffer
}

// AccessToken returns the token as a heap string. Use only at
// boundaries that need one (persisting the stored session); prefer
// passing the Session itself.
func (s *Session) AccessToken() string {
	return s.accessToken.String()
}

// Close releases the token memory. Idempotent.
func (s *Session) Close() error {
	if s.accessToken != nil {
		return s.accessToken.Close()
	}
	return nil
}

// Me fetches the acting user's profile. This validates the token —
// bootstrap uses it to discover whether a stored session is stale.
func (s *Session) Me(ctx context.Context) (*User, error) {
	return s.getUser(ctx, "/users/me", "fetch profile")
}

// UpdateProfile applies a partial update to the acting user's
// profile and returns the updated copy.
func (s *Session) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	body, err := s.client.doRequest(ctx, http.MethodPut, "/users/me", s.accessToken, update)
	if err != nil {
		return nil, fmt.Errorf("marketplace: update profile failed: %w", err)
	}
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse profile response: %w", err)
	}
	return &user, nil
}

// CreateIdea submits a new idea. Permitted for idea creators; the
// server enforces the role.
func (s *Session) CreateIdea(ctx context.Context, draft IdeaDraft) (*Idea, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "/ideas", s.accessToken, draft)
	if err != nil {
		return nil, fmt.Errorf("marketplace: create idea failed: %w", err)
	}
	var idea Idea
	if err := json.Unmarshal(body, &idea); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse idea response: %w", err)
	}
	return &idea, nil
}

// Ideas lists ideas matching the filter.
func (s *Session) Ideas(ctx context.Context, filter IdeaFilter) ([]Idea, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.CreatorID != 0 {
		query.Set("creator_id", strconv.FormatInt(filter.CreatorID, 10))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	setPagination(query, filter.Skip, filter.Limit)

	body, err := s.client.doRequest(ctx, http.MethodGet, "/ideas", s.accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list ideas failed: %w", err)
	}
	var ideas []Idea
	if err := json.Unmarshal(body, &ideas); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse ideas response: %w", err)
	}
	return ideas, nil
}

// Idea fetches a single idea by ID.
func (s *Session) Idea(ctx context.Context, ideaID int64) (*Idea, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, ideaPath(ideaID), s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: fetch idea %d failed: %w", ideaID, err)
	}
	var idea Idea
	if err := json.Unmarshal(body, &idea); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse idea response: %w", err)
	}
	return &idea, nil
}

// UpdateIdea applies a partial update to an idea. Permitted for the
// idea's creator and admins; the server enforces ownership.
func (s *Session) UpdateIdea(ctx context.Context, ideaID int64, update IdeaUpdate) (*Idea, error) {
	body, err := s.client.doRequest(ctx, http.MethodPut, ideaPath(ideaID), s.accessToken, update)
	if err != nil {
		return nil, fmt.Errorf("marketplace: update idea %d failed: %w", ideaID, err)
	}
	var idea Idea
	if err := json.Unmarshal(body, &idea); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse idea response: %w", err)
	}
	return &idea, nil
}

// CreateProject creates a project. When the draft carries an IdeaID
// the server seeds the project from the idea, moves the idea to
// in_project, and is idempotent per idea — creating twice returns
// the existing project.
func (s *Session) CreateProject(ctx context.Context, draft ProjectDraft) (*Project, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "/projects", s.accessToken, draft)
	if err != nil {
		return nil, fmt.Errorf("marketplace: create project failed: %w", err)
	}
	var project Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse project response: %w", err)
	}
	return &project, nil
}

// Projects lists projects matching the filter.
func (s *Session) Projects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.EmployerID != 0 {
		query.Set("employer_id", strconv.FormatInt(filter.EmployerID, 10))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	setPagination(query, filter.Skip, filter.Limit)

	body, err := s.client.doRequest(ctx, http.MethodGet, "/projects", s.accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list projects failed: %w", err)
	}
	var projects []Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse projects response: %w", err)
	}
	return projects, nil
}

// Project fetches a single project by ID.
func (s *Session) Project(ctx context.Context, projectID int64) (*Project, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, projectPath(projectID), s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: fetch project %d failed: %w", projectID, err)
	}
	var project Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse project response: %w", err)
	}
	return &project, nil
}

// CreateProposal submits a bid against a project. The server only
// accepts proposals for projects in status new and rejects a second
// proposal from the same executor with a 400 detail.
func (s *Session) CreateProposal(ctx context.Context, draft ProposalDraft) (*Proposal, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "/proposals", s.accessToken, draft)
	if err != nil {
		return nil, fmt.Errorf("marketplace: create proposal failed: %w", err)
	}
	var proposal Proposal
	if err := json.Unmarshal(body, &proposal); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse proposal response: %w", err)
	}
	return &proposal, nil
}

// ProjectProposals lists proposals on a project. The server restricts
// this to the project's employer and admins; other callers get a 403
// and should simply not render the section.
func (s *Session) ProjectProposals(ctx context.Context, projectID int64) ([]Proposal, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, projectPath(projectID)+"/proposals", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list proposals for project %d failed: %w", projectID, err)
	}
	var proposals []Proposal
	if err := json.Unmarshal(body, &proposals); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse proposals response: %w", err)
	}
	return proposals, nil
}

// MyProposals lists proposals authored by the acting user, newest
// first.
func (s *Session) MyProposals(ctx context.Context) ([]Proposal, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/proposals/me", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list own proposals failed: %w", err)
	}
	var proposals []Proposal
	if err := json.Unmarshal(body, &proposals); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse proposals response: %w", err)
	}
	return proposals, nil
}

// DecideProposal accepts or rejects a pending proposal, then
// re-fetches the parent project so the caller observes the derived
// state (on accept, the server assigns the executor and moves the
// project to in_progress). The transition and the re-fetch are
// strictly sequenced: exactly one PUT, then on success exactly one
// GET. There is no retry.
func (s *Session) DecideProposal(ctx context.Context, proposalID int64, verdict Verdict) (*Proposal, *Project, error) {
	if verdict != VerdictAccept && verdict != VerdictReject {
		return nil, nil, fmt.Errorf("marketplace: invalid proposal verdict %q", verdict)
	}

	update := struct {
		Status ProposalStatus `json:"status"`
	}{Status: ProposalStatus(verdict)}

	body, err := s.client.doRequest(ctx, http.MethodPut, "/proposals/"+strconv.FormatInt(proposalID, 10), s.accessToken, update)
	if err != nil {
		return nil, nil, fmt.Errorf("marketplace: decide proposal %d failed: %w", proposalID, err)
	}

	var proposal Proposal
	if err := json.Unmarshal(body, &proposal); err != nil {
		return nil, nil, fmt.Errorf("marketplace: failed to parse proposal response: %w", err)
	}

	project, err := s.Project(ctx, proposal.ProjectID)
	if err != nil {
		// The decision succeeded; only the re-fetch failed. Hand back
		// the proposal so the caller is not blind to the outcome.
		return &proposal, nil, fmt.Errorf("marketplace: proposal %d decided but project re-fetch failed: %w", proposalID, err)
	}

	s.client.logger.Info("proposal decided",
		"proposal_id", proposal.ID,
		"project_id", project.ID,
		"status", proposal.Status,
	)
	return &proposal, project, nil
}

// ProjectFiles lists files attached to a project. Restricted
// server-side to the employer, the assigned executor, and admins.
func (s *Session) ProjectFiles(ctx context.Context, projectID int64) ([]FileUpload, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, projectPath(projectID)+"/files", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list files for project %d failed: %w", projectID, err)
	}
	var files []FileUpload
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse files response: %w", err)
	}
	return files, nil
}

// SendMessage posts a message in a project conversation.
func (s *Session) SendMessage(ctx context.Context, draft MessageDraft) (*Message, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "/messages", s.accessToken, draft)
	if err != nil {
		return nil, fmt.Errorf("marketplace: send message failed: %w", err)
	}
	var message Message
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse message response: %w", err)
	}
	return &message, nil
}

// ProjectMessages lists the messages of a project conversation.
func (s *Session) ProjectMessages(ctx context.Context, projectID int64) ([]Message, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, projectPath(projectID)+"/messages", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list messages for project %d failed: %w", projectID, err)
	}
	var messages []Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse messages response: %w", err)
	}
	return messages, nil
}

// RateUser submits a rating for a project participant. The server
// allows one rating per rater per project; a duplicate returns a 400
// with a detail message.
func (s *Session) RateUser(ctx context.Context, draft RatingDraft) (*Rating, error) {
	if draft.Rating < 1 || draft.Rating > 5 {
		return nil, fmt.Errorf("marketplace: rating must be between 1 and 5, got %d", draft.Rating)
	}
	body, err := s.client.doRequest(ctx, http.MethodPost, "/ratings", s.accessToken, draft)
	if err != nil {
		return nil, fmt.Errorf("marketplace: create rating failed: %w", err)
	}
	var rating Rating
	if err := json.Unmarshal(body, &rating); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse rating response: %w", err)
	}
	return &rating, nil
}

// UserRatings lists ratings received by a user.
func (s *Session) UserRatings(ctx context.Context, userID int64) ([]Rating, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/users/"+strconv.FormatInt(userID, 10)+"/ratings", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list ratings for user %d failed: %w", userID, err)
	}
	var ratings []Rating
	if err := json.Unmarshal(body, &ratings); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse ratings response: %w", err)
	}
	return ratings, nil
}

// DashboardStats fetches the acting user's dashboard counters.
func (s *Session) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/dashboard/stats", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: fetch dashboard stats failed: %w", err)
	}
	var stats DashboardStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse stats response: %w", err)
	}
	return &stats, nil
}

func (s *Session) getUser(ctx context.Context, path, operation string) (*User, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: %s failed: %w", operation, err)
	}
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse user response: %w", err)
	}
	return &user, nil
}

func ideaPath(ideaID int64) string {
	return "/ideas/" + strconv.FormatInt(ideaID, 10)
}

func projectPath(projectID int64) string {
	return "/projects/" + strconv.FormatInt(projectID, 10)
}

func setPagination(query url.Values, skip, limit int) {
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
}
