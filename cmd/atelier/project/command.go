// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package project implements the "atelier project" command group.
package project

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/lib/policy"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Command returns the "project" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "project",
		Summary: "Create and browse projects",
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			showCommand(),
			filesCommand(),
		},
	}
}

type createParams struct {
	Description  string `flag:"description,d" desc:"project description (required)"`
	Budget       string `flag:"budget" desc:"budget in dollars, e.g. 1500.50"`
	Deadline     string `flag:"deadline" desc:"deadline date (YYYY-MM-DD)"`
	Requirements string `flag:"requirements" desc:"execution requirements"`
	IdeaID       int64  `flag:"idea" desc:"seed the project from an existing idea"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a project",
		Description: `Create a new project open for proposals.

Only employer (or admin) accounts can create projects. Passing --idea
seeds the project from an existing idea; the server is idempotent per
idea and moves the idea to in_project.`,
		Usage: "atelier project create <title> --description <text> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create a funded project from an idea",
				Command:     `atelier project create "Dark mode rollout" -d "Implement idea 12" --idea 12 --budget 2500`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("project create", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return cli.Validation("title is required\n\nUsage: atelier project create <title> [flags]")
			}
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s (quote multi-word titles)", args[1])
			}
			title := args[0]
			if params.Description == "" {
				return cli.Validation("--description is required")
			}

			budget, err := marketplace.ParseAmount(params.Budget)
			if err != nil {
				return cli.Validation("invalid --budget: %v", err)
			}

			var deadline *marketplace.Timestamp
			if params.Deadline != "" {
				parsed, err := time.Parse("2006-01-02", params.Deadline)
				if err != nil {
					return cli.Validation("invalid --deadline %q (want YYYY-MM-DD)", params.Deadline)
				}
				deadline = &marketplace.Timestamp{Time: parsed}
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

			if !policy.CanCreateProject(stored.User()) {
				return cli.Forbidden("only employer accounts can create projects (you are %s)", stored.Role)
			}

			ctx, cancel := cli.RequestContext(cfg)
			defer cancel()

			draft := marketplace.ProjectDraft{
				Title:        title,
				Description:  params.Description,
				Budget:       budget,
				Deadline:     deadline,
				Requirements: params.Requirements,
			}
			if params.IdeaID > 0 {
				draft.IdeaID = &params.IdeaID
			}

			created, err := session.CreateProject(ctx, draft)
			if err != nil {
				return cli.Internal("create project: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Created project #%d (%s)\n", created.ID, created.Status)
			return nil
		},
	}
}

type listParams struct {
	cli.JSONOutput
	Status string `flag:"status" desc:"filter by status (new, in_progress, completed, cancelled)"`
	Mine   bool   `flag:"mine" desc:"only projects I own"`
	Search string `flag:"search" desc:"search titles and descriptions"`
	Limit  int    `flag:"limit" desc:"maximum number of results" default:"50"`
	Skip   int    `flag:"skip" desc:"skip the first N results"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List projects",
		Usage:   "atelier project list [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("project list", &params)
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

			filter := marketplace.ProjectFilter{
				Status: marketplace.ProjectStatus(params.Status),
				Search: params.Search,
				Skip:   params.Skip,
				Limit:  params.Limit,
			}
			if params.Mine {
				filter.EmployerID = stored.UserID
			}

			ctx, cancel := cli.RequestContext(cfg)
			defer cancel()

			projects, err := session.Projects(ctx, filter)
			if err != nil {
				return cli.Internal("list projects: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(projects); done {
				return err
			}

			if len(projects) == 0 {
				fmt.Fprintln(os.Stderr, "No projects found")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tBUDGET\tTITLE")
			for _, project := range projects {
				budget := "-"
				if project.Budget != nil {
					budget = fmt.Sprintf("$%.2f", *project.Budget)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					project.ID, project.Status, budget, project.Title)
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
		Summary: "Show one project",
		Usage:   "atelier project show <id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("project show", &params)
		},
		Run: func(args []string) error {
			projectID, err := parseID(args)
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

			project, err := session.Project(ctx, projectID)
			if err != nil {
				if marketplace.IsNotFound(err) {
					return cli.NotFound("project %d not found", projectID)
				}
				return cli.Internal("fetch project: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(project); done {
				return err
			}

			fmt.Printf("Project #%d: %s\n", project.ID, project.Title)
			fmt.Printf("  status:    %s\n", project.Status)
			fmt.Printf("  employer:  #%d\n", project.EmployerID)
			if project.ExecutorID != nil {
				fmt.Printf("  executor:  #%d\n", *project.ExecutorID)
			}
			if project.Budget != nil {
				fmt.Printf("  budget:    $%.2f\n", *project.Budget)
			}
			if project.Deadline != nil {
				fmt.Printf("  deadline:  %s\n", project.Deadline.Format("2006-01-02"))
			}
			if project.IdeaID != nil {
				fmt.Printf("  from idea: #%d\n", *project.IdeaID)
			}
			fmt.Printf("\n%s\n", project.Description)
			if project.Requirements != "" {
				fmt.Printf("\nRequirements:\n%s\n", project.Requirements)
			}
			return nil
		},
	}
}

type filesParams struct {
	cli.JSONOutput
}

func filesCommand() *cli.Command {
	var params filesParams

	return &cli.Command{
		Name:    "files",
		Summary: "List a project's files",
		Description: `List the files attached to a project.

File access is restricted to the employer, the assigned executor, and
admins; the server enforces this.`,
		Usage: "atelier project files <id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("project files", &params)
		},
		Run: func(args []string) error {
			projectID, err := parseID(args)
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

			files, err := session.ProjectFiles(ctx, projectID)
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("project %d not found", projectID)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("no file access to project %d", projectID)
				}
				return cli.Internal("list files: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(files); done {
				return err
			}

			if len(files) == 0 {
				fmt.Fprintln(os.Stderr, "No files")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFILENAME\tSIZE\tFINAL\tUPLOADED")
			for _, file := range files {
				size := "-"
				if file.FileSize != nil {
					size = strconv.FormatInt(*file.FileSize, 10)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n",
					file.ID, file.Filename, size, file.IsFinalDelivery,
					file.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, cli.Validation("project id is required")
	}
	if len(args) > 1 {
		return 0, cli.Validation("unexpected argument: %s", args[1])
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid project id %q", args[0])
	}
	return id, nil
}
