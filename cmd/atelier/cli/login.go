// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/lib/account"
)

type loginParams struct {
	Server       string `flag:"server" desc:"marketplace server URL (default: from config)"`
	PasswordFile string `flag:"password-file" desc:"path to file containing the password, or - to prompt (default: prompt)"`
}

// LoginCommand returns the "login" command. Login exchanges
// credentials for an access token, verifies it, and saves the session
// to ~/.config/atelier/session.json; later commands resume it
// transparently.
func LoginCommand() *Command {
	var params loginParams

	return &Command{
		Name:    "login",
		Summary: "Authenticate and store the session",
		Description: `Log in to the marketplace and save the session locally.

After login, commands like "atelier idea list" and "atelier dashboard"
use the saved session without further flags. The session file is
stored at ~/.config/atelier/session.json (or $ATELIER_SESSION_FILE, or
$XDG_CONFIG_HOME/atelier/session.json) with mode 0600, since it holds
the access token.

The password comes from --password-file, or an interactive prompt
when the flag is "-" or omitted.`,
		Usage: "atelier login <email> [flags]",
		Examples: []Example{
			{
				Description: "Log in interactively",
				Command:     "atelier login ada@example.com",
			},
			{
				Description: "Log in against a non-default server",
				Command:     "atelier login ada@example.com --server https://market.example.com",
			},
		},
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("login", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return Validation("email is required\n\nUsage: atelier login <email> [flags]")
			}
			email := args[0]
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}

			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			password, err := ReadPassword(params.PasswordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			client, err := NewAPIClient(cfg, params.Server)
			if err != nil {
				return err
			}

			manager, err := account.NewManager(account.Config{
				Client:    client,
				StorePath: sessionPath(cfg),
				Logger:    NewCommandLogger(),
			})
			if err != nil {
				return Internal("create account manager: %w", err)
			}

			ctx, cancel := RequestContext(cfg)
			defer cancel()

			if err := manager.Login(ctx, email, password); err != nil {
				return Auth("login failed: %v", err)
			}

			user := manager.CurrentUser()
			fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", user.FullName, user.Role)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", sessionPath(cfg))
			return nil
		},
	}
}
