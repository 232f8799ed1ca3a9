// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/atelier-foundation/atelier/lib/netutil"
	"github.com/atelier-foundation/atelier/lib/secret"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// ServerURL is the base URL of the marketplace API server
	// (e.g., "http://localhost:8000").
	ServerURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is an unauthenticated marketplace client. It holds the
// server URL and HTTP transport, shared across Sessions, and is the
// single chokepoint every outbound call passes through.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// onAuthFailure runs synchronously when any call returns 401,
	// before the error is handed back to the caller. The session
	// manager installs its invalidation side effect here so no later
	// call in the same tick can race with a stale token.
	onAuthFailure func()
}

// NewClient creates a new unauthenticated marketplace client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.ServerURL == "" {
		return nil, fmt.Errorf("marketplace: ServerURL is required")
	}
	if _, err := url.Parse(config.ServerURL); err != nil {
		return nil, fmt.Errorf("marketplace: invalid ServerURL %q: %w", config.ServerURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.ServerURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// OnAuthFailure installs the handler invoked when any call returns
// 401. The handler runs exactly once per failed call, synchronously,
// before the call's error reaches its caller. Pass nil to remove.
func (c *Client) OnAuthFailure(handler func()) {
	c.onAuthFailure = handler
}

// ServerURL returns the API base URL the client talks to, without a
// trailing slash.
func (c *Client) ServerURL() string {
	return c.baseURL
}

// CloseIdleConnections drops pooled connections in the underlying
// transport. Call after a network disruption so the next request
// opens a fresh connection instead of reusing a poisoned one.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Login exchanges credentials for an access token and returns an
// authenticated Session. The authentication endpoint takes
// form-encoded username/password — not JSON. The password buffer is
// read but not closed; the caller retains ownership.
func (c *Client) Login(ctx context.Context, email string, password *secret.Buffer) (*Session, error) {
	if email == "" {
		return nil, fmt.Errorf("marketplace: email is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("marketplace: password is required for login")
	}

	// Password becomes a heap string only at the serialization
	// boundary; the copy lives for the duration of the call.
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password.String())

	body, err := c.doRequestRaw(ctx, http.MethodPost, "/auth/login", nil,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("marketplace: login failed: %w", err)
	}

	var response struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse login response: %w", err)
	}
	if response.AccessToken == "" {
		return nil, fmt.Errorf("marketplace: login response carries no access token")
	}

	c.logger.Info("logged in to marketplace", "email", email)

	return c.sessionFromToken(response.AccessToken)
}

// Register creates a new account. Registration does not authenticate:
// the caller logs in afterwards. Skills always serializes as a list —
// an account registered without skills sends the empty list rather
// than omitting the field.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*User, error) {
	if request.Email == "" {
		return nil, fmt.Errorf("marketplace: email is required for registration")
	}
	if request.Password == "" {
		return nil, fmt.Errorf("marketplace: password is required for registration")
	}
	switch request.Role {
	case RoleIdeaCreator, RoleExecutor, RoleEmployer:
	default:
		return nil, fmt.Errorf("marketplace: role %q cannot self-register", request.Role)
	}
	if request.Skills == nil {
		request.Skills = []string{}
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/auth/register", nil, request)
	if err != nil {
		return nil, fmt.Errorf("marketplace: registration failed: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse register response: %w", err)
	}

	c.logger.Info("registered marketplace account",
		"user_id", user.ID,
		"role", user.Role,
	)
	return &user, nil
}

// SessionFromToken creates a Session from a stored access token. The
// token is moved into protected memory; it is not validated here —
// the first call fails if it is stale. The caller must Close the
// returned Session.
func (c *Client) SessionFromToken(accessToken string) (*Session, error) {
	return c.sessionFromToken(accessToken)
}

func (c *Client) sessionFromToken(accessToken string) (*Session, error) {
	tokenBuffer, err := secret.NewFromString(accessToken)
	if err != nil {
		return nil, fmt.Errorf("marketplace: protecting access token: %w", err)
	}
	return &Session{client: c, accessToken: tokenBuffer}, nil
}

// doRequest performs a JSON request and returns the response body.
// On 2xx, returns the body. On an error status, returns an *APIError
// decoded from the body. accessToken may be nil for unauthenticated
// endpoints; query may be omitted.
func (c *Client) doRequest(ctx context.Context, method, path string, accessToken *secret.Buffer, requestBody any, query ...url.Values) ([]byte, error) {
	var bodyReader io.Reader
	contentType := ""
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("marketplace: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil && len(query[0]) > 0 {
		requestURL += "?" + query[0].Encode()
	}

	return c.send(ctx, method, requestURL, path, accessToken, contentType, bodyReader)
}

// doRequestRaw performs a request with a caller-supplied body and
// content type (form-encoded login, multipart upload).
func (c *Client) doRequestRaw(ctx context.Context, method, path string, accessToken *secret.Buffer, contentType string, body io.Reader) ([]byte, error) {
	return c.send(ctx, method, c.baseURL+path, path, accessToken, contentType, body)
}

func (c *Client) send(ctx context.Context, method, requestURL, path string, accessToken *secret.Buffer, contentType string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("marketplace: failed to create request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if accessToken != nil {
		request.Header.Set("Authorization", "Bearer "+accessToken.String())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("marketplace: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("marketplace: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	apiErr := parseAPIError(response.StatusCode, responseBody)
	if apiErr == nil {
		// Server returned a non-JSON error body. Fail loud with the
		// raw text so nothing is hidden.
		return nil, fmt.Errorf("marketplace: unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, string(responseBody))
	}

	if apiErr.StatusCode == http.StatusUnauthorized && c.onAuthFailure != nil {
		// Session invalidation runs before the caller observes the
		// error. The error still propagates — callers handle their
		// own rejected call.
		c.logger.Warn("authentication failure, invalidating session",
			"method", method, "path", path)
		c.onAuthFailure()
	}

	return responseBody, apiErr
}
