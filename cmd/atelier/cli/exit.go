// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit without an extra error line. A
// command returning ExitError has already written its own output; a
// non-zero exit is a valid outcome for it (for example "delivery
// verify" reporting a digest mismatch), not a failure to report.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the requested exit code. main checks for this
// interface to distinguish a handled non-zero exit from an error that
// needs printing.
func (e *ExitError) ExitCode() int {
	return e.Code
}
