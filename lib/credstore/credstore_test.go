// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testSession() *StoredSession {
	return &StoredSession{
		UserID:      42,
		Role:        "executor",
		DisplayName: "Ada",
		AccessToken: "T1",
		ServerURL:   "http://localhost:8000",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	if err := SaveTo(testSession(), path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file missing: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if *loaded != *testSession() {
		t.Errorf("round-trip mismatch: %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	_, err := LoadFrom(path)
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestLoadRejectsIncompleteSession(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no token", `{"user_id": 1, "server_url": "http://x"}`},
		{"no server", `{"user_id": 1, "access_token": "T1"}`},
		{"not JSON", `garbage`},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			if err := os.WriteFile(path, []byte(testCase.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil {
				t.Error("expected error")
			}
			if errors.Is(err, ErrNoSession) {
				t.Error("corruption must not look like an absent session")
			}
		})
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := SaveTo(testSession(), path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	if err := ClearAt(path); err != nil {
		t.Fatalf("ClearAt failed: %v", err)
	}
	if _, err := LoadFrom(path); !errors.Is(err, ErrNoSession) {
		t.Errorf("session still loadable after clear: %v", err)
	}

	// Clearing again is a no-op.
	if err := ClearAt(path); err != nil {
		t.Errorf("second ClearAt failed: %v", err)
	}
}

func TestSessionFilePathOverride(t *testing.T) {
	t.Setenv("ATELIER_SESSION_FILE", "/tmp/custom-session.json")
	if got := SessionFilePath(); got != "/tmp/custom-session.json" {
		t.Errorf("SessionFilePath() = %q", got)
	}

	t.Setenv("ATELIER_SESSION_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := SessionFilePath(); got != "/tmp/xdg/atelier/session.json" {
		t.Errorf("SessionFilePath() = %q", got)
	}
}
