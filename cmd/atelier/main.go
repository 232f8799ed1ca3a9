// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Command atelier is the marketplace CLI: accounts, ideas, projects,
// proposals, deliveries, messaging, ratings, and the interactive
// dashboard.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/cmd/atelier/dashboard"
	"github.com/atelier-foundation/atelier/cmd/atelier/delivery"
	"github.com/atelier-foundation/atelier/cmd/atelier/idea"
	"github.com/atelier-foundation/atelier/cmd/atelier/message"
	"github.com/atelier-foundation/atelier/cmd/atelier/project"
	"github.com/atelier-foundation/atelier/cmd/atelier/proposal"
	"github.com/atelier-foundation/atelier/cmd/atelier/rating"
)

func main() {
	if err := root().Execute(os.Args[1:]); err != nil {
		// Commands that manage their own output return an error with
		// an exit code; don't add a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			if _, silent := err.(*cli.ExitError); !silent {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func root() *cli.Command {
	return &cli.Command{
		Name:    "atelier",
		Summary: "Collaboration marketplace CLI",
		Description: `atelier is the command-line client for the collaboration
marketplace: idea creators submit ideas, employers fund them as
projects, executors bid and deliver.

Authenticate once with "atelier login"; every other command resumes
the stored session transparently.`,
		Subcommands: []*cli.Command{
			cli.LoginCommand(),
			cli.LogoutCommand(),
			cli.RegisterCommand(),
			cli.WhoamiCommand(),
			cli.ProfileCommand(),
			idea.Command(),
			project.Command(),
			proposal.Command(),
			delivery.Command(),
			message.Command(),
			rating.Command(),
			dashboard.StatsCommand(),
			dashboard.Command(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Show the CLI version",
		Usage:   "atelier version",
		Run: func(args []string) error {
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
				fmt.Println("atelier (development build)")
				return nil
			}
			fmt.Printf("atelier %s\n", info.Main.Version)
			return nil
		},
	}
}
