// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/marketplace"
)

type whoamiParams struct {
	JSONOutput
}

// WhoamiCommand returns the "whoami" command: the server's view of
// the logged-in account, which also proves the stored token still
// works.
func WhoamiCommand() *Command {
	var params whoamiParams

	return &Command{
		Name:    "whoami",
		Summary: "Show the logged-in account",
		Usage:   "atelier whoami [flags]",
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("whoami", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			session, _, err := RequireSession(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, cancel := RequestContext(cfg)
			defer cancel()

			user, err := session.Me(ctx)
			if err != nil {
				if marketplace.IsAuthFailure(err) {
					return Auth("stored session rejected — run \"atelier login\"")
				}
				return Internal("fetch profile: %w", err)
			}

			if done, err := params.EmitJSON(user); done {
				return err
			}

			fmt.Printf("%s <%s>\n", user.FullName, user.Email)
			fmt.Printf("  role:     %s\n", user.Role)
			fmt.Printf("  user id:  %d\n", user.ID)
			if user.Bio != "" {
				fmt.Printf("  bio:      %s\n", user.Bio)
			}
			if len(user.Skills) > 0 {
				fmt.Printf("  skills:   %s\n", strings.Join(user.Skills, ", "))
			}
			if user.PortfolioURL != "" {
				fmt.Printf("  portfolio: %s\n", user.PortfolioURL)
			}
			return nil
		},
	}
}
