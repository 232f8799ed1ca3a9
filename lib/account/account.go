// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package account owns the client-side authentication lifecycle: it
// is the single writer of session state, persisting credentials
// through the store, validating them against the server, and fanning
// out state changes to observers. Everything else reads identity
// through the Manager and never touches the store directly.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/atelier-foundation/atelier/lib/credstore"
	"github.com/atelier-foundation/atelier/lib/secret"
	"github.com/atelier-foundation/atelier/marketplace"
)

// State is the authentication state of the Manager.
type State int

const (
	// StateUnauthenticated means no usable credential exists.
	StateUnauthenticated State = iota

	// StateAuthenticating means a login or bootstrap is validating a
	// credential. Always transient — every path out of it lands in one
	// of the other three states.
	StateAuthenticating

	// StateAuthenticated means a validated session and profile are
	// available.
	StateAuthenticated

	// StateFailed means the last explicit login attempt was rejected.
	// Distinct from Unauthenticated so a login form can show the
	// failure without treating the user as freshly logged out.
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrAuthInFlight reports that a login or bootstrap is already
// running. The caller should wait for the current attempt to settle
// rather than racing a second credential exchange.
var ErrAuthInFlight = errors.New("authentication already in progress")

// EventKind classifies a Manager event.
type EventKind int

const (
	// EventStateChanged reports a state transition; Event.State holds
	// the new state.
	EventStateChanged EventKind = iota

	// EventNavigateDashboard asks the UI to show the dashboard
	// (successful login).
	EventNavigateDashboard

	// EventNavigateLogin asks the UI to show the login surface
	// (registration completed, or the session expired mid-use).
	EventNavigateLogin

	// EventNavigateHome asks the UI to show the public landing surface
	// (logout).
	EventNavigateHome
)

// Event is a Manager notification delivered to subscribers.
type Event struct {
	Kind  EventKind
	State State
}

// Config configures a Manager.
type Config struct {
	// Client is the unauthenticated API client. Required. The Manager
	// installs the client's auth-failure handler; it must be the only
	// party to do so.
	Client *marketplace.Client

	// Store overrides the session file path. Empty means the
	// well-known path.
	StorePath string

	// Logger receives lifecycle logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Manager is the session state machine. All mutation goes through its
// methods; reads are safe from any goroutine.
type Manager struct {
	client    *marketplace.Client
	storePath string
	logger    *slog.Logger

	mu          sync.Mutex
	state       State
	session     *marketplace.Session
	user        *marketplace.User
	failReason  string
	subscribers []chan Event
}

// NewManager creates a Manager in StateUnauthenticated and installs
// the client's auth-failure handler: any 401 anywhere clears the
// stored credential and drops the in-memory identity before the
// failed call returns to its caller.
func NewManager(config Config) (*Manager, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("account: config requires a Client")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	manager := &Manager{
		client:    config.Client,
		storePath: config.StorePath,
		logger:    logger,
		state:     StateUnauthenticated,
	}
	config.Client.OnAuthFailure(manager.handleAuthFailure)
	return manager, nil
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated profile, or nil.
func (m *Manager) CurrentUser() *marketplace.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Session returns the authenticated API session, or nil. Callers must
// not Close it; the Manager owns its lifetime.
func (m *Manager) Session() *marketplace.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// FailReason returns the server's rejection detail from the last
// failed login, or "".
func (m *Manager) FailReason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failReason
}

// Subscribe registers an event channel. The channel is buffered; a
// subscriber that falls behind loses events rather than blocking the
// Manager.
func (m *Manager) Subscribe() <-chan Event {
	channel := make(chan Event, 16)
	m.mu.Lock()
	m.subscribers = append(m.subscribers, channel)
	m.mu.Unlock()
	return channel
}

// Bootstrap restores a stored session, if any. A missing store leaves
// the Manager Unauthenticated without error. A stored token the
// server rejects is treated as expired: the store is cleared and the
// Manager ends Unauthenticated — bootstrap never parks in
// Authenticating and never returns an auth error for staleness.
func (m *Manager) Bootstrap(ctx context.Context) error {
	stored, err := credstore.LoadFrom(m.resolveStorePath())
	if err != nil {
		if errors.Is(err, credstore.ErrNoSession) {
			m.setState(StateUnauthenticated)
			return nil
		}
		return fmt.Errorf("account: loading stored session: %w", err)
	}

	if err := m.begin(); err != nil {
		return err
	}

	session, err := m.client.SessionFromToken(stored.AccessToken)
	if err != nil {
		m.setState(StateUnauthenticated)
		return fmt.Errorf("account: restoring session: %w", err)
	}

	user, err := session.Me(ctx)
	if err != nil {
		session.Close()
		if marketplace.IsAuthFailure(err) {
			// Stale token. The auth-failure handler has already
			// cleared the store and reset state.
			m.logger.Info("stored session expired, cleared")
			return nil
		}
		m.setState(StateUnauthenticated)
		return fmt.Errorf("account: validating stored session: %w", err)
	}

	m.adopt(session, user)
	m.logger.Info("session restored", "user_id", user.ID, "role", user.Role)
	return nil
}

// Login exchanges credentials for a session, persists it, and loads
// the profile. Overlapping attempts are rejected with ErrAuthInFlight.
// On rejection by the server the Manager lands in StateFailed with the
// server's detail recorded, and the error is returned so the caller
// can re-enable its form.
func (m *Manager) Login(ctx context.Context, email string, password *secret.Buffer) error {
	if err := m.begin(); err != nil {
		return err
	}

	session, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.fail(marketplace.ErrorDetail(err, "login failed"))
		return fmt.Errorf("account: login: %w", err)
	}

	user, err := session.Me(ctx)
	if err != nil {
		session.Close()
		m.fail(marketplace.ErrorDetail(err, "profile fetch failed"))
		return fmt.Errorf("account: fetching profile after login: %w", err)
	}

	stored := &credstore.StoredSession{
		UserID:      user.ID,
		Role:        string(user.Role),
		DisplayName: user.FullName,
		AccessToken: session.AccessToken(),
		ServerURL:   m.client.ServerURL(),
	}
	if err := credstore.SaveTo(stored, m.resolveStorePath()); err != nil {
		// The session works; persistence failing only costs the next
		// invocation a fresh login.
		m.logger.Warn("failed to persist session", "error", err)
	}

	m.adopt(session, user)
	m.emit(Event{Kind: EventNavigateDashboard})
	m.logger.Info("logged in", "user_id", user.ID, "role", user.Role)
	return nil
}

// Register creates an account. Registration does not log in; on
// success the Manager emits NavigateLogin and stays in its current
// state.
func (m *Manager) Register(ctx context.Context, request marketplace.RegisterRequest) (*marketplace.User, error) {
	user, err := m.client.Register(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("account: register: %w", err)
	}
	m.emit(Event{Kind: EventNavigateLogin})
	m.logger.Info("registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Logout drops the session and clears the store. Idempotent: logging
// out while logged out still emits NavigateHome and never errors.
func (m *Manager) Logout() {
	m.mu.Lock()
	session := m.session
	m.session = nil
	m.user = nil
	m.failReason = ""
	changed := m.state != StateUnauthenticated
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if session != nil {
		session.Close()
	}
	if err := credstore.ClearAt(m.resolveStorePath()); err != nil {
		m.logger.Warn("failed to clear stored session", "error", err)
	}
	if changed {
		m.emit(Event{Kind: EventStateChanged, State: StateUnauthenticated})
	}
	m.emit(Event{Kind: EventNavigateHome})
	m.logger.Info("logged out")
}

// handleAuthFailure runs inside the request chokepoint on any 401,
// before the failing call returns. Ordering matters: by the time any
// caller observes the auth error, the stored credential is gone and
// the state is Unauthenticated, so nothing can retry with the stale
// token.
func (m *Manager) handleAuthFailure() {
	m.mu.Lock()
	session := m.session
	m.session = nil
	m.user = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if session != nil {
		session.Close()
	}
	if err := credstore.ClearAt(m.resolveStorePath()); err != nil {
		m.logger.Warn("failed to clear stored session", "error", err)
	}
	m.emit(Event{Kind: EventStateChanged, State: StateUnauthenticated})
	m.emit(Event{Kind: EventNavigateLogin})
	m.logger.Warn("session invalidated by server")
}

// begin moves to Authenticating, rejecting overlap.
func (m *Manager) begin() error {
	m.mu.Lock()
	if m.state == StateAuthenticating {
		m.mu.Unlock()
		return ErrAuthInFlight
	}
	m.state = StateAuthenticating
	m.mu.Unlock()
	m.emit(Event{Kind: EventStateChanged, State: StateAuthenticating})
	return nil
}

func (m *Manager) adopt(session *marketplace.Session, user *marketplace.User) {
	m.mu.Lock()
	m.session = session
	m.user = user
	m.failReason = ""
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.emit(Event{Kind: EventStateChanged, State: StateAuthenticated})
}

func (m *Manager) fail(reason string) {
	m.mu.Lock()
	m.failReason = reason
	m.state = StateFailed
	m.mu.Unlock()
	m.emit(Event{Kind: EventStateChanged, State: StateFailed})
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	changed := m.state != state
	m.state = state
	m.mu.Unlock()
	if changed {
		m.emit(Event{Kind: EventStateChanged, State: state})
	}
}

func (m *Manager) emit(event Event) {
	m.mu.Lock()
	subscribers := make([]chan Event, len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	for _, channel := range subscribers {
		select {
		case channel <- event:
		default:
			// Subscriber is not draining; drop rather than block.
		}
	}
}

func (m *Manager) resolveStorePath() string {
	if m.storePath != "" {
		return m.storePath
	}
	return credstore.SessionFilePath()
}
