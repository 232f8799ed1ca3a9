// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"fmt"
	"strings"
	"time"
)

// Role is a marketplace account role. A session's role is fixed for
// its lifetime; changing role means re-authenticating.
type Role string

const (
	RoleIdeaCreator Role = "idea_creator"
	RoleExecutor    Role = "executor"
	RoleEmployer    Role = "employer"
	RoleAdmin       Role = "admin"
)

// IdeaStatus is server-driven; the client only observes it.
type IdeaStatus string

const (
	IdeaUnderReview IdeaStatus = "under_review"
	IdeaInProject   IdeaStatus = "in_project"
	IdeaRejected    IdeaStatus = "rejected"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectNew        ProjectStatus = "new"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// ProposalStatus is the decision state of a proposal. Accepted and
// rejected are terminal — the client offers no further decision calls.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Timestamp wraps time.Time to accept the server's datetime encoding.
// The server serializes naive datetimes without a zone offset
// ("2026-01-02T15:04:05.123456"), which the stock RFC 3339 parser
// rejects.
type Timestamp struct {
	time.Time
}

// timestampLayouts in trial order: full RFC 3339 first, then the
// zone-less variants the server actually emits.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("marketplace: unparseable timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// User is a marketplace account profile.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	Bio          string     `json:"bio,omitempty"`
	Skills       []string   `json:"skills,omitempty"`
	PortfolioURL string     `json:"portfolio_url,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsVerified   bool       `json:"is_verified"`
	CreatedAt    Timestamp  `json:"created_at"`
	UpdatedAt    *Timestamp `json:"updated_at,omitempty"`
}

// Idea is a submission by an idea creator, not yet committed to
// execution. Status transitions are server-driven.
type Idea struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Tags         []string   `json:"tags,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	Status       IdeaStatus `json:"status"`
	CreatorID    int64      `json:"creator_id"`
	ExecutorID   *int64     `json:"executor_id,omitempty"`
	CreatedAt    Timestamp  `json:"created_at"`
	UpdatedAt    *Timestamp `json:"updated_at,omitempty"`
	Creator      *User      `json:"creator,omitempty"`
}

// Project is a funded unit of work owned by an employer, optionally
// seeded from an idea.
type Project struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Budget       *float64      `json:"budget,omitempty"`
	Deadline     *Timestamp    `json:"deadline,omitempty"`
	Requirements string        `json:"requirements,omitempty"`
	Status       ProjectStatus `json:"status"`
	EmployerID   int64         `json:"employer_id"`
	ExecutorID   *int64        `json:"executor_id,omitempty"`
	IdeaID       *int64        `json:"idea_id,omitempty"`
	CreatedAt    Timestamp     `json:"created_at"`
	UpdatedAt    *Timestamp    `json:"updated_at,omitempty"`
	Employer     *User         `json:"employer,omitempty"`
	Executor     *User         `json:"executor,omitempty"`
	Idea         *Idea         `json:"idea,omitempty"`
}

// Proposal is an executor's bid to execute a project.
type Proposal struct {
	ID               int64          `json:"id"`
	ProjectID        int64          `json:"project_id"`
	ExecutorID       int64          `json:"executor_id"`
	ProposedPrice    *float64       `json:"proposed_price,omitempty"`
	ProposedTimeline string         `json:"proposed_timeline,omitempty"`
	CoverLetter      string         `json:"cover_letter,omitempty"`
	Status           ProposalStatus `json:"status"`
	CreatedAt        Timestamp      `json:"created_at"`
	UpdatedAt        *Timestamp     `json:"updated_at,omitempty"`
	Executor         *User          `json:"executor,omitempty"`
}

// FileUpload describes a file attached to a project. The binary
// content is opaque to the client; FileURL points at it.
type FileUpload struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project_id"`
	UploadedBy      int64     `json:"uploaded_by"`
	Filename        string    `json:"filename"`
	FileURL         string    `json:"file_url"`
	FileType        string    `json:"file_type,omitempty"`
	FileSize        *int64    `json:"file_size,omitempty"`
	IsFinalDelivery bool      `json:"is_final_delivery"`
	CreatedAt       Timestamp `json:"created_at"`
	Uploader        *User     `json:"uploader,omitempty"`
}

// Message is a project-scoped message between the employer and the
// assigned executor.
type Message struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  Timestamp `json:"created_at"`
	Sender     *User     `json:"sender,omitempty"`
}

// Rating is a 1-5 review of a project participant.
type Rating struct {
	ID          int64     `json:"id"`
	RaterID     int64     `json:"rater_id"`
	RatedUserID int64     `json:"rated_user_id"`
	ProjectID   int64     `json:"project_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
	Rater       *User     `json:"rater,omitempty"`
}

// DashboardStats are the per-user counters shown on the dashboard.
type DashboardStats struct {
	IdeasCount        int `json:"ideas_count"`
	ProjectsCount     int `json:"projects_count"`
	ProposalsCount    int `json:"proposals_count"`
	CompletedProjects int `json:"completed_projects"`
}

// RegisterRequest creates a new account. Role-specific optional
// fields: Bio, Skills, PortfolioURL. Skills always serializes as a
// list — registration with no skills sends the empty list, never an
// omitted field.
type RegisterRequest struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	FullName     string   `json:"full_name"`
	Role         Role     `json:"role"`
	Bio          string   `json:"bio,omitempty"`
	Skills       []string `json:"skills"`
	PortfolioURL string   `json:"portfolio_url,omitempty"`
}

// ProfileUpdate changes the acting user's profile. Nil fields are
// left untouched by the server.
type ProfileUpdate struct {
	FullName     *string  `json:"full_name,omitempty"`
	Bio          *string  `json:"bio,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	PortfolioURL *string  `json:"portfolio_url,omitempty"`
	AvatarURL    *string  `json:"avatar_url,omitempty"`
}

// IdeaDraft is the creation payload for an idea. Empty optional
// fields are omitted from the request, not sent as "".
type IdeaDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags,omitempty"`
	Requirements string   `json:"requirements,omitempty"`
}

// IdeaUpdate is the partial-update payload for an idea.
type IdeaUpdate struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Requirements *string  `json:"requirements,omitempty"`
}

// ProjectDraft is the creation payload for a project. IdeaID seeds
// the project from an existing idea; the server is idempotent per
// idea and moves the idea to in_project.
type ProjectDraft struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Budget       *float64   `json:"budget,omitempty"`
	Deadline     *Timestamp `json:"deadline,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	IdeaID       *int64     `json:"idea_id,omitempty"`
}

// ProposalDraft is the creation payload for a proposal against a
// project in status new.
type ProposalDraft struct {
	ProjectID        int64    `json:"project_id"`
	ProposedPrice    *float64 `json:"proposed_price,omitempty"`
	ProposedTimeline string   `json:"proposed_timeline,omitempty"`
	CoverLetter      string   `json:"cover_letter,omitempty"`
}

// MessageDraft sends a message within a project conversation.
type MessageDraft struct {
	ProjectID  int64  `json:"project_id"`
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

// RatingDraft rates a project participant. Rating must be 1-5; the
// server allows one rating per rater per project.
type RatingDraft struct {
	RatedUserID int64  `json:"rated_user_id"`
	ProjectID   int64  `json:"project_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
}

// IdeaFilter narrows an idea listing. Zero values mean "no filter".
type IdeaFilter struct {
	Status    IdeaStatus
	CreatorID int64
	Search    string
	Skip      int
	Limit     int
}

// ProjectFilter narrows a project listing. Zero values mean "no filter".
type ProjectFilter struct {
	Status     ProjectStatus
	EmployerID int64
	Search     string
	Skip       int
	Limit      int
}

// Verdict is the decision applied to a pending proposal.
type Verdict string

const (
	VerdictAccept Verdict = "accepted"
	VerdictReject Verdict = "rejected"
)
