// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/atelier-foundation/atelier/lib/config"
	"github.com/atelier-foundation/atelier/lib/credstore"
	"github.com/atelier-foundation/atelier/lib/secret"
	"github.com/atelier-foundation/atelier/marketplace"
)

// LoadConfig reads and validates the CLI configuration. The file path
// comes from ATELIER_CONFIG; an absent file yields defaults.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, Internal("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Internal("invalid config: %w", err)
	}
	return cfg, nil
}

// NewAPIClient creates a marketplace client against serverURL with
// the configured request timeout and the command logger.
func NewAPIClient(cfg *config.Config, serverURL string) (*marketplace.Client, error) {
	if serverURL == "" {
		serverURL = cfg.Server.URL
	}
	client, err := marketplace.NewClient(marketplace.ClientConfig{
		ServerURL:  serverURL,
		HTTPClient: &http.Client{Timeout: cfg.Server.RequestTimeout.Std()},
		Logger:     NewCommandLogger(),
	})
	if err != nil {
		return nil, Internal("create API client: %w", err)
	}
	return client, nil
}

// RequireSession resumes the stored login and returns an
// authenticated API session plus the stored identity. The stored
// session's server URL wins over the config so a login against a
// non-default server keeps working without flags.
//
// The caller owns the session and must Close it.
func RequireSession(cfg *config.Config) (*marketplace.Session, *credstore.StoredSession, error) {
	stored, err := credstore.LoadFrom(sessionPath(cfg))
	if err != nil {
		if errors.Is(err, credstore.ErrNoSession) {
			return nil, nil, Auth("%v", err)
		}
		return nil, nil, Internal("load stored session: %w", err)
	}

	client, err := NewAPIClient(cfg, stored.ServerURL)
	if err != nil {
		return nil, nil, err
	}
	// A rejected token means the stored session is dead; drop it so
	// the next command prompts for login instead of failing the same
	// way again.
	client.OnAuthFailure(func() {
		if err := credstore.ClearAt(sessionPath(cfg)); err != nil {
			NewCommandLogger().Warn("failed to clear stale session", "error", err)
		}
	})

	session, err := client.SessionFromToken(stored.AccessToken)
	if err != nil {
		return nil, nil, Internal("resume session: %w", err)
	}
	return session, stored, nil
}

// sessionPath resolves the session file location: the config's
// Session.File when set, otherwise the credstore default (which
// honors ATELIER_SESSION_FILE and XDG_CONFIG_HOME).
func sessionPath(cfg *config.Config) string {
	if cfg != nil && cfg.Session.File != "" {
		return cfg.Session.File
	}
	return credstore.SessionFilePath()
}

// RequestContext returns a context bounded by the configured request
// timeout.
func RequestContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.Server.RequestTimeout.Std())
}

// ReadPassword obtains a password for login or registration. A
// non-empty passwordFile other than "-" is read from disk; otherwise
// the terminal is prompted with echo disabled.
func ReadPassword(passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" && passwordFile != "-" {
		buffer, err := secret.ReadFromPath(passwordFile)
		if err != nil {
			return nil, Internal("read password file: %w", err)
		}
		return buffer, nil
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return nil, Validation("no terminal for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, Internal("reading password: %w", err)
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, Internal("buffer password: %w", err)
	}
	return buffer, nil
}
