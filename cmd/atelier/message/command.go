// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package message implements the "atelier message" command group.
package message

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Command returns the "message" command group. Messaging is scoped to
// a project and restricted to its employer and assigned executor; an
// unassigned project has no conversation yet.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "message",
		Summary: "Project conversations",
		Subcommands: []*cli.Command{
			sendCommand(),
			listCommand(),
		},
	}
}

type sendParams struct {
	Project int64 `flag:"project" desc:"project the message belongs to (required)"`
	To      int64 `flag:"to" desc:"receiving user id (required)"`
}

func sendCommand() *cli.Command {
	var params sendParams

	return &cli.Command{
		Name:    "send",
		Summary: "Send a project message",
		Usage:   "atelier message send --project <id> --to <user-id> <text>",
		Examples: []cli.Example{
			{
				Description: "Message the assigned executor",
				Command:     `atelier message send --project 12 --to 7 "How is the first milestone going?"`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("message send", &params)
		},
		Run: func(args []string) error {
			if params.Project <= 0 {
				return cli.Validation("--project is required")
			}
			if params.To <= 0 {
				return cli.Validation("--to is required")
			}
			if len(args) < 1 {
				return cli.Validation("message text is required")
			}
			content := strings.Join(args, " ")

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

			sent, err := session.SendMessage(ctx, marketplace.MessageDraft{
				ProjectID:  params.Project,
				ReceiverID: params.To,
				Content:    content,
			})
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("project %d not found", params.Project)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("messaging on project %d is limited to its employer and assigned executor", params.Project)
				}
				return cli.Internal("send message: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Sent message #%d\n", sent.ID)
			return nil
		},
	}
}

type listParams struct {
	cli.JSONOutput
	Project int64 `flag:"project" desc:"project whose conversation to show (required)"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "Show a project's conversation",
		Usage:   "atelier message list --project <id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("message list", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Project <= 0 {
				return cli.Validation("--project is required")
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

			messages, err := session.ProjectMessages(ctx, params.Project)
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("project %d not found", params.Project)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("no conversation access to project %d", params.Project)
				}
				return cli.Internal("list messages: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			if done, err := params.EmitJSON(messages); done {
				return err
			}

			if len(messages) == 0 {
				fmt.Fprintln(os.Stderr, "No messages")
				return nil
			}
			for _, message := range messages {
				sender := fmt.Sprintf("#%d", message.SenderID)
				if message.Sender != nil {
					sender = message.Sender.FullName
				}
				if message.SenderID == stored.UserID {
					sender = "me"
				}
				fmt.Printf("[%s] %s: %s\n",
					message.CreatedAt.Format("2006-01-02 15:04"), sender, message.Content)
			}
			return nil
		},
	}
}
