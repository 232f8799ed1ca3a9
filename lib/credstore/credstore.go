// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package credstore persists the operator's marketplace session
// between CLI invocations. Stored at the well-known path returned by
// SessionFilePath and loaded automatically by commands that require
// authentication. Analogous to SSH keys — set up once via
// "atelier login", then transparent.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atelier-foundation/atelier/lib/secret"
	"github.com/atelier-foundation/atelier/marketplace"
)

// ErrNoSession reports that no stored session exists at the resolved
// path. Callers distinguish this from corruption or I/O failure so
// they can prompt for login instead of printing a stack of errors.
var ErrNoSession = errors.New("no stored session")

// StoredSession is the on-disk session record. The access token is
// stored alongside enough identity to render a prompt without a
// round-trip; the server remains authoritative for all of it.
type StoredSession struct {
	// UserID is the account's numeric ID.
	UserID int64 `json:"user_id"`

	// Role is the account role at login time. Advisory only — every
	// authorization decision is re-checked server-side.
	Role string `json:"role"`

	// DisplayName is the account's full name, for prompts and the
	// whoami command.
	DisplayName string `json:"display_name"`

	// AccessToken is the bearer token proving the account's identity.
	AccessToken string `json:"access_token"`

	// ServerURL is the API base URL the token was issued by. Kept so a
	// later invocation talks to the same server the login did.
	ServerURL string `json:"server_url"`
}

// User returns the stored identity as a user snapshot for local
// policy gating. Only the ID, name, and role are known locally; the
// server re-checks every decision regardless.
func (s *StoredSession) User() *marketplace.User {
	return &marketplace.User{
		ID:       s.UserID,
		FullName: s.DisplayName,
		Role:     marketplace.Role(s.Role),
	}
}

// SessionFilePath returns the path to the stored session file.
// Checks ATELIER_SESSION_FILE first, then falls back to
// ~/.config/atelier/session.json.
func SessionFilePath() string {
	if envPath := os.Getenv("ATELIER_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "atelier-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "atelier", "session.json")
}

// Load reads the stored session from the well-known path. Returns
// ErrNoSession (wrapped) when the file does not exist.
func Load() (*StoredSession, error) {
	return LoadFrom(SessionFilePath())
}

// LoadFrom reads a stored session from a specific file path.
func LoadFrom(path string) (*StoredSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s — run \"atelier login\" first", ErrNoSession, path)
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var session StoredSession
	if err := json.Unmarshal(data, &session); err != nil {
		secret.Zero(data)
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	secret.Zero(data)

	if session.AccessToken == "" {
		return nil, fmt.Errorf("session file %s has no access_token", path)
	}
	if session.ServerURL == "" {
		return nil, fmt.Errorf("session file %s has no server_url", path)
	}

	return &session, nil
}

// Save writes a stored session to the well-known path. Creates the
// parent directory with mode 0700 if it doesn't exist. The session
// file is written with mode 0600 (owner-only read/write) since it
// contains an access token.
func Save(session *StoredSession) error {
	return SaveTo(session, SessionFilePath())
}

// SaveTo writes a stored session to a specific file path.
func SaveTo(session *StoredSession, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		secret.Zero(data)
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	writeError := os.WriteFile(path, data, 0600)
	secret.Zero(data)
	if writeError != nil {
		return fmt.Errorf("writing session file %s: %w", path, writeError)
	}

	return nil
}

// Clear removes the stored session at the well-known path. Clearing
// when no session exists is a no-op, so logout is idempotent.
func Clear() error {
	return ClearAt(SessionFilePath())
}

// ClearAt removes a stored session at a specific file path.
func ClearAt(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", path, err)
	}
	return nil
}
