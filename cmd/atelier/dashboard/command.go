// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard implements the "atelier dashboard" and "atelier
// stats" commands.
package dashboard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/lib/marketui"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Command returns the "dashboard" command: the full-screen TUI over
// projects, ideas, and proposals.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Summary: "Interactive marketplace dashboard",
		Description: `Open the interactive dashboard.

Tabs for projects, ideas, and your proposals; / filters the active
tab with fuzzy matching. Action keys appear only when your role and
the selected entity's status permit the action.`,
		Usage: "atelier dashboard",
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
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

			// Fetch the live profile rather than trusting the stored
			// snapshot: the dashboard's action gating keys off the role.
			ctx, cancel := cli.RequestContext(cfg)
			user, err := session.Me(ctx)
			cancel()
			if err != nil {
				if marketplace.IsAuthFailure(err) {
					return cli.Auth("stored session rejected — run \"atelier login\"")
				}
				return cli.Internal("fetch profile: %w", err)
			}

			program := tea.NewProgram(marketui.New(session, user), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return cli.Internal("dashboard: %w", err)
			}
			return nil
		},
	}
}

type statsParams struct {
	cli.JSONOutput
}

// StatsCommand returns the "stats" command: the per-user dashboard
// counters without the TUI.
func StatsCommand() *cli.Command {
	var params statsParams

	return &cli.Command{
		Name:    "stats",
		Summary: "Show dashboard counters",
		Usage:   "atelier stats [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("stats", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
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

			stats, err := session.DashboardStats(ctx)
			if err != nil {
				return cli.Internal("fetch stats: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(stats); done {
				return err
			}

			fmt.Printf("ideas:              %d\n", stats.IdeasCount)
			fmt.Printf("projects:           %d\n", stats.ProjectsCount)
			fmt.Printf("proposals:          %d\n", stats.ProposalsCount)
			fmt.Printf("completed projects: %d\n", stats.CompletedProjects)
			return nil
		},
	}
}
