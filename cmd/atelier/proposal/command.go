// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package proposal implements the "atelier proposal" command group.
package proposal

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/lib/policy"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Command returns the "proposal" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "proposal",
		Summary: "Bid on projects and decide bids",
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			decideCommand("accept", marketplace.VerdictAccept),
			decideCommand("reject", marketplace.VerdictReject),
		},
	}
}

type createParams struct {
	Project     int64  `flag:"project" desc:"project to bid on (required)"`
	Price       string `flag:"price" desc:"proposed price in dollars"`
	Timeline    string `flag:"timeline" desc:"proposed timeline, e.g. \"3 weeks\""`
	CoverLetter string `flag:"cover-letter" desc:"cover letter text"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Propose on a project",
		Description: `Submit a proposal against a project in status new.

Only executor accounts can propose, and only while the project is
still open. Both checks run locally before the request; the server
enforces them again.`,
		Usage: "atelier proposal create --project <id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Bid with a price and timeline",
				Command:     `atelier proposal create --project 12 --price 1800 --timeline "3 weeks"`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("proposal create", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Project <= 0 {
				return cli.Validation("--project is required")
			}

			price, err := marketplace.ParseAmount(params.Price)
			if err != nil {
				return cli.Validation("invalid --price: %v", err)
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

			ctx, cancel := cli.RequestContext(cfg)
			defer cancel()

			// Fetch the project first: the proposal gate depends on its
			// current status, not on role alone.
			project, err := session.Project(ctx, params.Project)
			if err != nil {
				if marketplace.IsNotFound(err) {
					return cli.NotFound("project %d not found", params.Project)
				}
				return cli.Internal("fetch project: %v", marketplace.ErrorDetail(err, err.Error()))
			}
			if !policy.CanPropose(stored.User(), project) {
				if project.Status != marketplace.ProjectNew {
					return cli.Forbidden("project %d is %s — proposals are only accepted while it is new",
						project.ID, project.Status)
				}
				return cli.Forbidden("only executor accounts can propose (you are %s)", stored.Role)
			}

			created, err := session.CreateProposal(ctx, marketplace.ProposalDraft{
				ProjectID:        params.Project,
				ProposedPrice:    price,
				ProposedTimeline: params.Timeline,
				CoverLetter:      params.CoverLetter,
			})
			if err != nil {
				return cli.Internal("create proposal: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Created proposal #%d on project #%d (%s)\n",
				created.ID, created.ProjectID, created.Status)
			return nil
		},
	}
}

type listParams struct {
	cli.JSONOutput
	Project int64 `flag:"project" desc:"list a project's incoming proposals instead of my own"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List proposals",
		Description: `List proposals.

Without flags, lists the proposals you have submitted. With
--project, lists a project's incoming proposals — visible only to the
project's employer and admins.`,
		Usage: "atelier proposal list [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("proposal list", &params)
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

			var proposals []marketplace.Proposal
			if params.Project > 0 {
				proposals, err = session.ProjectProposals(ctx, params.Project)
			} else {
				proposals, err = session.MyProposals(ctx)
			}
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("project %d not found", params.Project)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("only the project's employer can view its proposals")
				}
				return cli.Internal("list proposals: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(proposals); done {
				return err
			}

			if len(proposals) == 0 {
				fmt.Fprintln(os.Stderr, "No proposals")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPROJECT\tSTATUS\tPRICE\tTIMELINE")
			for _, proposal := range proposals {
				price := "-"
				if proposal.ProposedPrice != nil {
					price = fmt.Sprintf("$%.2f", *proposal.ProposedPrice)
				}
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
					proposal.ID, proposal.ProjectID, proposal.Status, price, proposal.ProposedTimeline)
			}
			return tw.Flush()
		},
	}
}

// decideCommand builds "accept" and "reject": the same decision flow
// with a different verdict. Deciding re-fetches the project so the
// caller sees the post-decision state (accept assigns the executor
// and moves the project to in_progress).
func decideCommand(name string, verdict marketplace.Verdict) *cli.Command {
	return &cli.Command{
		Name:    name,
		Summary: fmt.Sprintf("%s a pending proposal", capitalize(name)),
		Usage:   fmt.Sprintf("atelier proposal %s <id>", name),
		Run: func(args []string) error {
			if len(args) < 1 {
				return cli.Validation("proposal id is required")
			}
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}
			proposalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || proposalID <= 0 {
				return cli.Validation("invalid proposal id %q", args[0])
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

			proposal, project, err := session.DecideProposal(ctx, proposalID, verdict)
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("proposal %d not found", proposalID)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("only the project's employer can decide its proposals")
				}
				if proposal != nil {
					// The decision went through; only the project
					// re-fetch failed. Report success with the caveat.
					fmt.Fprintf(os.Stderr, "Proposal #%d %s (project state unavailable: %v)\n",
						proposal.ID, proposal.Status, err)
					return nil
				}
				return cli.Internal("%s proposal: %v", name, marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Proposal #%d %s\n", proposal.ID, proposal.Status)
			if project != nil {
				fmt.Fprintf(os.Stderr, "Project #%d is now %s\n", project.ID, project.Status)
			}
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
