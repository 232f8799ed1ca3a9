// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// recordingServer captures every request line ("METHOD /path") in
// arrival order and serves canned JSON per route.
type recordingServer struct {
	*httptest.Server
	calls []string
}

func newRecordingServer(t *testing.T, routes map[string]any) *recordingServer {
	t.Helper()
	recorder := &recordingServer{}
	recorder.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		key := request.Method + " " + request.URL.Path
		recorder.calls = append(recorder.calls, key)
		response, known := routes[key]
		if !known {
			t.Errorf("unexpected request: %s", key)
			writer.WriteHeader(http.StatusNotFound)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(response)
	}))
	t.Cleanup(recorder.Close)
	return recorder
}

func newTestSession(t *testing.T, serverURL string) *Session {
	t.Helper()
	client, err := NewClient(ClientConfig{ServerURL: serverURL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	session, err := client.SessionFromToken("T1")
	if err != nil {
		t.Fatalf("SessionFromToken failed: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func TestSessionAttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("Authorization"); got != "Bearer T1" {
			t.Errorf("Authorization = %q, want Bearer T1", got)
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(User{ID: 1, Role: RoleExecutor})
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)
	user, err := session.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user ID = %d", user.ID)
	}
}

func TestListFilters(t *testing.T) {
	t.Run("idea filter query parameters", func(t *testing.T) {
		var query string
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			query = request.URL.RawQuery
			writer.Header().Set("Content-Type", "application/json")
			writer.Write([]byte("[]"))
		}))
		defer server.Close()

		session := newTestSession(t, server.URL)
		_, err := session.Ideas(context.Background(), IdeaFilter{
			Status:    IdeaUnderReview,
			CreatorID: 7,
			Search:    "cache",
			Skip:      20,
			Limit:     10,
		})
		if err != nil {
			t.Fatalf("Ideas failed: %v", err)
		}
		for _, want := range []string{"status=under_review", "creator_id=7", "search=cache", "skip=20", "limit=10"} {
			if !strings.Contains(query, want) {
				t.Errorf("query %q missing %q", query, want)
			}
		}
	})

	t.Run("zero filter sends no parameters", func(t *testing.T) {
		var query string
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			query = request.URL.RawQuery
			writer.Header().Set("Content-Type", "application/json")
			writer.Write([]byte("[]"))
		}))
		defer server.Close()

		session := newTestSession(t, server.URL)
		if _, err := session.Projects(context.Background(), ProjectFilter{}); err != nil {
			t.Fatalf("Projects failed: %v", err)
		}
		if query != "" {
			t.Errorf("query = %q, want empty", query)
		}
	})
}

func TestDecideProposal(t *testing.T) {
	t.Run("accept is one PUT then one GET", func(t *testing.T) {
		executorID := int64(5)
		server := newRecordingServer(t, map[string]any{
			"PUT /proposals/3": Proposal{ID: 3, ProjectID: 12, ExecutorID: executorID, Status: ProposalAccepted},
			"GET /projects/12": Project{ID: 12, Status: ProjectInProgress, EmployerID: 2, ExecutorID: &executorID},
		})

		session := newTestSession(t, server.URL)
		proposal, project, err := session.DecideProposal(context.Background(), 3, VerdictAccept)
		if err != nil {
			t.Fatalf("DecideProposal failed: %v", err)
		}

		want := []string{"PUT /proposals/3", "GET /projects/12"}
		if len(server.calls) != 2 || server.calls[0] != want[0] || server.calls[1] != want[1] {
			t.Errorf("calls = %v, want %v", server.calls, want)
		}
		if proposal.Status != ProposalAccepted {
			t.Errorf("proposal status = %q", proposal.Status)
		}
		if project.Status != ProjectInProgress {
			t.Errorf("project status = %q", project.Status)
		}
		if project.ExecutorID == nil || *project.ExecutorID != executorID {
			t.Errorf("executor not assigned: %v", project.ExecutorID)
		}
	})

	t.Run("re-fetch failure still returns the decided proposal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			if request.Method == http.MethodPut {
				json.NewEncoder(writer).Encode(Proposal{ID: 3, ProjectID: 12, Status: ProposalRejected})
				return
			}
			writer.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(writer).Encode(map[string]string{"detail": "database unavailable"})
		}))
		defer server.Close()

		session := newTestSession(t, server.URL)
		proposal, project, err := session.DecideProposal(context.Background(), 3, VerdictReject)
		if err == nil {
			t.Fatal("expected re-fetch error")
		}
		if proposal == nil || proposal.Status != ProposalRejected {
			t.Errorf("proposal = %+v, want decided proposal", proposal)
		}
		if project != nil {
			t.Errorf("project = %+v, want nil", project)
		}
	})

	t.Run("invalid verdict is rejected locally", func(t *testing.T) {
		server := newRecordingServer(t, nil)
		session := newTestSession(t, server.URL)
		if _, _, err := session.DecideProposal(context.Background(), 3, Verdict("maybe")); err == nil {
			t.Fatal("expected verdict validation error")
		}
		if len(server.calls) != 0 {
			t.Errorf("server was called: %v", server.calls)
		}
	})
}

func TestCreateProposalDuplicateSurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(writer).Encode(map[string]string{"detail": "You have already submitted a proposal for this project"})
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)
	_, err := session.CreateProposal(context.Background(), ProposalDraft{ProjectID: 12, CoverLetter: "pick me"})
	if err == nil {
		t.Fatal("expected duplicate proposal error")
	}
	if got := ErrorDetail(err, ""); got != "You have already submitted a proposal for this project" {
		t.Errorf("ErrorDetail = %q", got)
	}
}

func TestRateUser(t *testing.T) {
	t.Run("out-of-range rating never reaches the server", func(t *testing.T) {
		server := newRecordingServer(t, nil)
		session := newTestSession(t, server.URL)
		for _, rating := range []int{0, 6, -1} {
			if _, err := session.RateUser(context.Background(), RatingDraft{
				RatedUserID: 1, ProjectID: 2, Rating: rating,
			}); err == nil {
				t.Errorf("rating %d accepted", rating)
			}
		}
		if len(server.calls) != 0 {
			t.Errorf("server was called: %v", server.calls)
		}
	})

	t.Run("duplicate rating surfaces detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(writer).Encode(map[string]string{"detail": "You have already rated this user for this project"})
		}))
		defer server.Close()

		session := newTestSession(t, server.URL)
		_, err := session.RateUser(context.Background(), RatingDraft{RatedUserID: 1, ProjectID: 2, Rating: 5})
		if got := ErrorDetail(err, ""); got != "You have already rated this user for this project" {
			t.Errorf("ErrorDetail = %q", got)
		}
	})
}

func TestDashboardStats(t *testing.T) {
	server := newRecordingServer(t, map[string]any{
		"GET /dashboard/stats": DashboardStats{IdeasCount: 2, ProjectsCount: 4, ProposalsCount: 1, CompletedProjects: 3},
	})
	session := newTestSession(t, server.URL)
	stats, err := session.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	if stats.CompletedProjects != 3 {
		t.Errorf("completed = %d", stats.CompletedProjects)
	}
}
