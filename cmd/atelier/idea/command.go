// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package idea implements the "atelier idea" command group.
package idea

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/lib/policy"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Command returns the "idea" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "idea",
		Summary: "Submit and browse ideas",
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			showCommand(),
			updateCommand(),
		},
	}
}

type createParams struct {
	Description  string `flag:"description,d" desc:"idea description (required)"`
	Tags         string `flag:"tags" desc:"tags (comma-separated)"`
	Requirements string `flag:"requirements" desc:"requirements for execution"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Submit a new idea",
		Description: `Submit a new idea for review.

Only idea creator accounts can submit; the role check runs locally
before any request is sent. New ideas start in status under_review.`,
		Usage: "atelier idea create <title> --description <text> [flags]",
		Examples: []cli.Example{
			{
				Description: "Submit an idea with tags",
				Command:     `atelier idea create "Dark mode" -d "System-wide dark theme" --tags ui,design`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("idea create", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return cli.Validation("title is required\n\nUsage: atelier idea create <title> [flags]")
			}
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s (quote multi-word titles)", args[1])
			}
			title := args[0]
			if params.Description == "" {
				return cli.Validation("--description is required")
			}

			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			session, stored, err := cli.RequireSession(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			if !policy.CanCreateIdea(stored.User()) {
				return cli.Forbidden("only idea creator accounts can submit ideas (you are %s)", stored.Role)
			}

			ctx, cancel := cli.RequestContext(cfg)
			defer cancel()

			created, err := session.CreateIdea(ctx, marketplace.IdeaDraft{
				Title:        title,
				Description:  params.Description,
				Tags:         marketplace.ParseTags(params.Tags),
				Requirements: params.Requirements,
			})
			if err != nil {
				return cli.Internal("create idea: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Created idea #%d (%s)\n", created.ID, created.Status)
			return nil
		},
	}
}

type listParams struct {
	cli.JSONOutput
	Status string `flag:"status" desc:"filter by status (under_review, in_project, rejected)"`
	Mine   bool   `flag:"mine" desc:"only my ideas"`
	Search string `flag:"search" desc:"search titles and descriptions"`
	Limit  int    `flag:"limit" desc:"maximum number of results" default:"50"`
	Skip   int    `flag:"skip" desc:"skip the first N results"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List ideas",
		Usage:   "atelier idea list [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("idea list", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			session, stored, err := cli.RequireSession(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			filter := marketplace.IdeaFilter{
				Status: marketplace.IdeaStatus(params.Status),
				Search: params.Search,
				Skip:   params.Skip,
				Limit:  params.Limit,
			}
			if params.Mine {
				filter.CreatorID = stored.UserID
			}

			ctx, cancel := cli.RequestContext(cfg)
			defer cancel()

			ideas, err := session.Ideas(ctx, filter)
			if err != nil {
				return cli.Internal("list ideas: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(ideas); done {
				return err
			}

			if len(ideas) == 0 {
				fmt.Fprintln(os.Stderr, "No ideas found")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tTAGS")
			for _, idea := range ideas {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					idea.ID, idea.Status, idea.Title, strings.Join(idea.Tags, ","))
			}
			return tw.Flush()
		},
	}
}

type showParams struct {
	cli.JSONOutput
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one idea",
		Usage:   "atelier idea show <id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("idea show", &params)
		},
		Run: func(args []string) error {
			ideaID, err := parseID(args, "idea")
			if err != nil {
				return err
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

			idea, err := session.Idea(ctx, ideaID)
			if err != nil {
				if marketplace.IsNotFound(err) {
					return cli.NotFound("idea %d not found", ideaID)
				}
				return cli.Internal("fetch idea: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(idea); done {
				return err
			}

			fmt.Printf("Idea #%d: %s\n", idea.ID, idea.Title)
			fmt.Printf("  status:   %s\n", idea.Status)
			fmt.Printf("  creator:  #%d\n", idea.CreatorID)
			if len(idea.Tags) > 0 {
				fmt.Printf("  tags:     %s\n", strings.Join(idea.Tags, ", "))
			}
			fmt.Printf("  created:  %s\n", idea.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Printf("\n%s\n", idea.Description)
			if idea.Requirements != "" {
				fmt.Printf("\nRequirements:\n%s\n", idea.Requirements)
			}
			return nil
		},
	}
}

type updateParams struct {
	Title        string `flag:"title" desc:"new title"`
	Description  string `flag:"description,d" desc:"new description"`
	Tags         string `flag:"tags" desc:"replace tags (comma-separated)"`
	Requirements string `flag:"requirements" desc:"new requirements"`
}

func updateCommand() *cli.Command {
	var params updateParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "update",
		Summary: "Update an idea",
		Description: `Update fields of an existing idea.

Only the idea's creator (or an admin) may update it; the server
enforces this, and the same rule gates the action locally.`,
		Usage: "atelier idea update <id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("idea update", &params)
			return flagSet
		},
		Run: func(args []string) error {
			ideaID, err := parseID(args, "idea")
			if err != nil {
				return err
			}

			var update marketplace.IdeaUpdate
			changed := false
			if flagSet.Changed("title") {
				update.Title = &params.Title
				changed = true
			}
			if flagSet.Changed("description") {
				update.Description = &params.Description
				changed = true
			}
			if flagSet.Changed("tags") {
				update.Tags = marketplace.ParseTags(params.Tags)
				changed = true
			}
			if flagSet.Changed("requirements") {
				update.Requirements = &params.Requirements
				changed = true
			}
			if !changed {
				return cli.Validation("nothing to update — pass at least one field flag")
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

			updated, err := session.UpdateIdea(ctx, ideaID, update)
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("idea %d not found", ideaID)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("not your idea: %v", marketplace.ErrorDetail(err, "permission denied"))
				}
				return cli.Internal("update idea: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Updated idea #%d\n", updated.ID)
			return nil
		},
	}
}

// parseID extracts the single positional numeric ID argument.
func parseID(args []string, noun string) (int64, error) {
	if len(args) < 1 {
		return 0, cli.Validation("%s id is required", noun)
	}
	if len(args) > 1 {
		return 0, cli.Validation("unexpected argument: %s", args[1])
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid %s id %q", noun, args[0])
	}
	return id, nil
}
