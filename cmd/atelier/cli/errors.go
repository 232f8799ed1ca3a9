// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command failures so scripts can branch on
// the exit code instead of parsing error text.
type ErrorCategory string

const (
	// CategoryValidation: bad input — missing arguments, unparseable
	// values. Fix the invocation and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced resource does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: the acting user lacks permission.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict: the operation collides with existing state,
	// such as a duplicate rating.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryAuth: no usable login — not logged in or the stored
	// token was rejected.
	CategoryAuth ErrorCategory = "auth"

	// CategoryInternal: everything else — bugs, I/O failures, server
	// errors.
	CategoryInternal ErrorCategory = "internal"
)

// exit codes per category. 1 is reserved for uncategorized errors.
var categoryExitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryForbidden:  4,
	CategoryConflict:   5,
	CategoryAuth:       6,
	CategoryInternal:   1,
}

// CommandError wraps an error with its category. The main function
// maps the category to the process exit code; errors.Is and errors.As
// see through the wrapper.
type CommandError struct {
	Category ErrorCategory
	Err      error
}

func (e *CommandError) Error() string { return e.Err.Error() }

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the exit code for this error's category.
func (e *CommandError) ExitCode() int {
	if code, ok := categoryExitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a permission error.
func Forbidden(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Auth creates an authentication error.
func Auth(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryAuth, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
