// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a structured error response from the marketplace
// server. Callers extract it with errors.As:
//
//	var apiErr *marketplace.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusForbidden { ... }
//	}
//
// Prefer the IsAuthFailure / IsPermissionDenied / IsNotFound helpers
// for the common cases.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Detail is the server's human-readable error description. The
	// server sends {"detail": "..."} on every error; validation
	// failures carry a structured detail which is flattened to its
	// JSON text.
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace: server returned %d: %s", e.StatusCode, e.Detail)
}

// errorEnvelope is the wire shape of server errors. Detail is usually
// a string but pydantic validation errors send a list of objects.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

// parseAPIError builds an APIError from a non-2xx response body.
// Returns nil if the body is not the expected JSON envelope.
func parseAPIError(statusCode int, body []byte) *APIError {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	var detail string
	if len(envelope.Detail) > 0 {
		// Plain string detail is the normal case.
		if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
			// Structured detail (validation errors): keep the raw JSON
			// so nothing the server said is lost.
			detail = string(envelope.Detail)
		}
	}

	return &APIError{StatusCode: statusCode, Detail: detail}
}

// IsAuthFailure reports whether err is a 401 from the server — the
// session is invalid or expired. The client has already run its
// auth-failure side effect by the time a caller sees this.
func IsAuthFailure(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsPermissionDenied reports whether err is a 403 — the acting user
// is authenticated but not allowed. Callers typically hide the
// affected section rather than treating this as fatal.
func IsPermissionDenied(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a 404. Detail views treat this as
// "go back to the list", not as an error dialog.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// ErrorDetail returns the server's detail message when err carries
// one, or the fallback otherwise. Use at the point where an error is
// shown to the user.
func ErrorDetail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func hasStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
