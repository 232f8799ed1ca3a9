// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package rating implements the "atelier rating" command group.
package rating

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Command returns the "rating" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "rating",
		Summary: "Rate collaborators and view ratings",
		Subcommands: []*cli.Command{
			addCommand(),
			listCommand(),
		},
	}
}

type addParams struct {
	Project int64  `flag:"project" desc:"project the collaboration happened on (required)"`
	User    int64  `flag:"user" desc:"user to rate (required)"`
	Rating  int    `flag:"rating" desc:"rating 1-5 (required)"`
	Comment string `flag:"comment" desc:"optional comment"`
}

func addCommand() *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add",
		Summary: "Rate a collaborator",
		Description: `Rate a project collaborator 1-5.

One rating per rater per project; a second attempt is rejected as a
conflict. Rating is limited to the project's employer and assigned
executor.`,
		Usage: "atelier rating add --project <id> --user <id> --rating <1-5> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("rating add", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Project <= 0 {
				return cli.Validation("--project is required")
			}
			if params.User <= 0 {
				return cli.Validation("--user is required")
			}
			if params.Rating < 1 || params.Rating > 5 {
				return cli.Validation("--rating must be between 1 and 5")
			}

			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			session, _, err := cli.RequireSession(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, cancel := cli.RequestContext(cfg)
			defer cancel()

			rated, err := session.RateUser(ctx, marketplace.RatingDraft{
				ProjectID:   params.Project,
				RatedUserID: params.User,
				Rating:      params.Rating,
				Comment:     params.Comment,
			})
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("project %d or user %d not found", params.Project, params.User)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("rating on project %d is limited to its participants", params.Project)
				}
				detail := marketplace.ErrorDetail(err, err.Error())
				// A repeat rating comes back as a client error with a
				// duplicate detail; surface it as a conflict.
				return cli.Conflict("rate user: %v", detail)
			}

			fmt.Fprintf(os.Stderr, "Rated user #%d with %d/5 (rating #%d)\n",
				rated.RatedUserID, rated.Rating, rated.ID)
			return nil
		},
	}
}

type listParams struct {
	cli.JSONOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List a user's ratings",
		Usage:   "atelier rating list <user-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("rating list", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return cli.Validation("user id is required")
			}
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return cli.Validation("invalid user id %q", args[0])
			}

			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			session, _, err := cli.RequireSession(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, cancel := cli.RequestContext(cfg)
			defer cancel()

			ratings, err := session.UserRatings(ctx, userID)
			if err != nil {
				if marketplace.IsNotFound(err) {
					return cli.NotFound("user %d not found", userID)
				}
				return cli.Internal("list ratings: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(ratings); done {
				return err
			}

			if len(ratings) == 0 {
				fmt.Fprintln(os.Stderr, "No ratings")
				return nil
			}
			total := 0
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PROJECT\tRATING\tCOMMENT")
			for _, rating := range ratings {
				total += rating.Rating
				fmt.Fprintf(tw, "%d\t%d/5\t%s\n", rating.ProjectID, rating.Rating, rating.Comment)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Printf("\naverage: %.1f over %d ratings\n",
				float64(total)/float64(len(ratings)), len(ratings))
			return nil
		},
	}
}
