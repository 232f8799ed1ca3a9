// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/marketplace"
)

type registerParams struct {
	Server       string   `flag:"server" desc:"marketplace server URL (default: from config)"`
	FullName     string   `flag:"name" desc:"display name (required)"`
	Role         string   `flag:"role" desc:"account role: idea_creator, executor, or employer (required)"`
	Bio          string   `flag:"bio" desc:"profile bio"`
	Skills       []string `flag:"skills" desc:"skills (comma-separated, executor profiles)"`
	PortfolioURL string   `flag:"portfolio" desc:"portfolio URL"`
	PasswordFile string   `flag:"password-file" desc:"path to file containing the password, or - to prompt (default: prompt)"`
}

// RegisterCommand returns the "register" command. Registration does
// not log in; it creates the account and points the user at "atelier
// login". Admin accounts cannot self-register.
func RegisterCommand() *Command {
	var params registerParams

	return &Command{
		Name:    "register",
		Summary: "Create a marketplace account",
		Description: `Create a new marketplace account.

The role fixes what the account can do: idea creators submit ideas,
executors bid on projects, employers fund them. Admin accounts are
provisioned server-side and cannot be self-registered.

Registration does not log you in — run "atelier login" afterwards.`,
		Usage: "atelier register <email> --name <name> --role <role> [flags]",
		Examples: []Example{
			{
				Description: "Register an executor with skills",
				Command:     `atelier register kay@example.com --name "Kay Doe" --role executor --skills go,sql`,
			},
			{
				Description: "Register an employer",
				Command:     `atelier register pat@example.com --name "Pat Lee" --role employer`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("register", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return Validation("email is required\n\nUsage: atelier register <email> [flags]")
			}
			email := args[0]
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}
			if params.FullName == "" {
				return Validation("--name is required")
			}
			if params.Role == "" {
				return Validation("--role is required (idea_creator, executor, or employer)")
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

			ctx, cancel := RequestContext(cfg)
			defer cancel()

			user, err := client.Register(ctx, marketplace.RegisterRequest{
				Email:        email,
				Password:     password.String(),
				FullName:     params.FullName,
				Role:         marketplace.Role(params.Role),
				Bio:          params.Bio,
				Skills:       params.Skills,
				PortfolioURL: params.PortfolioURL,
			})
			if err != nil {
				return Internal("registration failed: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Registered %s (%s, user #%d)\n", user.Email, user.Role, user.ID)
			fmt.Fprintln(os.Stderr, `Run "atelier login" to sign in.`)
			return nil
		},
	}
}
