// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/marketplace"
)

type profileParams struct {
	FullName  string   `flag:"name" desc:"new display name"`
	Bio       string   `flag:"bio" desc:"new bio"`
	Skills    []string `flag:"skills" desc:"replace skills (comma-separated)"`
	Portfolio string   `flag:"portfolio" desc:"new portfolio URL"`
	Avatar    string   `flag:"avatar" desc:"new avatar URL"`
}

// ProfileCommand returns the "profile" command group.
func ProfileCommand() *Command {
	return &Command{
		Name:    "profile",
		Summary: "Manage the logged-in profile",
		Subcommands: []*Command{
			profileUpdateCommand(),
		},
	}
}

// profileUpdateCommand sends a partial update: only the flags the
// user passed go on the wire, so unset fields stay untouched
// server-side.
func profileUpdateCommand() *Command {
	var params profileParams
	var flagSet *pflag.FlagSet

	return &Command{
		Name:    "update",
		Summary: "Update profile fields",
		Usage:   "atelier profile update [flags]",
		Examples: []Example{
			{
				Description: "Change only the bio",
				Command:     `atelier profile update --bio "Distributed systems tinkerer"`,
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = FlagsFromParams("profile update", &params)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			var update marketplace.ProfileUpdate
			changed := false
			if flagSet.Changed("name") {
				update.FullName = &params.FullName
				changed = true
			}
			if flagSet.Changed("bio") {
				update.Bio = &params.Bio
				changed = true
			}
			if flagSet.Changed("skills") {
				update.Skills = params.Skills
				changed = true
			}
			if flagSet.Changed("portfolio") {
				update.PortfolioURL = &params.Portfolio
				changed = true
			}
			if flagSet.Changed("avatar") {
				update.AvatarURL = &params.Avatar
				changed = true
			}
			if !changed {
				return Validation("nothing to update — pass at least one field flag")
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

			user, err := session.UpdateProfile(ctx, update)
			if err != nil {
				return Internal("update profile: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Profile updated for %s\n", user.Email)
			return nil
		},
	}
}
