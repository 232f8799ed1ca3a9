// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/atelier-foundation/atelier/lib/credstore"
)

// LogoutCommand returns the "logout" command. Logout is local: it
// removes the stored session file. The server keeps no revocation
// list, so there is nothing to call.
func LogoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "Remove the stored session",
		Description: `Remove the locally stored session.

Idempotent: logging out with no stored session succeeds silently.`,
		Usage: "atelier logout",
		Run: func(args []string) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			if err := credstore.ClearAt(sessionPath(cfg)); err != nil {
				return Internal("remove session: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Logged out")
			return nil
		},
	}
}
