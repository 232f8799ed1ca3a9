// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package delivery implements the "atelier delivery" command group:
// packing work into deterministic archives, verifying their digests,
// and uploading them to a project.
package delivery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/atelier-foundation/atelier/cmd/atelier/cli"
	"github.com/atelier-foundation/atelier/lib/delivery"
	"github.com/atelier-foundation/atelier/lib/digest"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Command returns the "delivery" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "delivery",
		Summary: "Pack, verify, and upload deliverables",
		Subcommands: []*cli.Command{
			packCommand(),
			unpackCommand(),
			verifyCommand(),
			uploadCommand(),
		},
	}
}

type packParams struct {
	Output string `flag:"output,o" desc:"archive path (default: <dir>.tar.zst)"`
}

func packCommand() *cli.Command {
	var params packParams

	return &cli.Command{
		Name:    "pack",
		Summary: "Pack a directory into a delivery archive",
		Description: `Pack a directory into a compressed delivery archive.

The archive is deterministic: packing the same tree twice produces
byte-identical output, so its digest identifies the content. Symlinks
are rejected — a deliverable must be self-contained.`,
		Usage: "atelier delivery pack <dir> [flags]",
		Examples: []cli.Example{
			{
				Description: "Pack the build output",
				Command:     "atelier delivery pack ./dist -o milestone1.tar.zst",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delivery pack", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return cli.Validation("directory is required")
			}
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}
			root := args[0]

			output := params.Output
			if output == "" {
				output = filepath.Clean(root) + delivery.ArchiveExtension
			}

			if err := delivery.PackFile(root, output); err != nil {
				return cli.Internal("pack %s: %w", root, err)
			}

			archiveDigest, size, err := digestFile(output)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Packed %s (%d bytes)\n", output, size)
			fmt.Printf("%s  %s\n", digest.Format(archiveDigest), output)
			fmt.Fprintf(os.Stderr, "ref: %s\n", digest.FormatRef(archiveDigest))
			return nil
		},
	}
}

func unpackCommand() *cli.Command {
	return &cli.Command{
		Name:    "unpack",
		Summary: "Extract a delivery archive",
		Usage:   "atelier delivery unpack <archive> <dir>",
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.Validation("usage: atelier delivery unpack <archive> <dir>")
			}
			archive, destination := args[0], args[1]

			file, err := os.Open(archive)
			if err != nil {
				return cli.Internal("open archive: %w", err)
			}
			defer file.Close()

			if err := delivery.Unpack(file, destination); err != nil {
				return cli.Internal("unpack %s: %w", archive, err)
			}
			fmt.Fprintf(os.Stderr, "Unpacked into %s\n", destination)
			return nil
		},
	}
}

type verifyParams struct {
	Digest string `flag:"digest" desc:"expected content digest (64 hex chars, required)"`
}

func verifyCommand() *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Verify an archive against a digest",
		Description: `Verify that an archive's content digest matches the expected one.

Prints the result and exits 0 on match, 1 on mismatch. The mismatch
exit is silent on stdout so scripts can branch on the code.`,
		Usage: "atelier delivery verify <archive> --digest <hex>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delivery verify", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: atelier delivery verify <archive> --digest <hex>")
			}
			if params.Digest == "" {
				return cli.Validation("--digest is required")
			}

			expected, err := digest.Parse(params.Digest)
			if err != nil {
				return cli.Validation("invalid --digest: %v", err)
			}

			actual, _, err := digestFile(args[0])
			if err != nil {
				return err
			}

			if actual != expected {
				fmt.Fprintf(os.Stderr, "MISMATCH\n  expected %s\n  actual   %s\n",
					digest.Format(expected), digest.Format(actual))
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintf(os.Stderr, "OK %s\n", digest.FormatRef(actual))
			return nil
		},
	}
}

type uploadParams struct {
	Project int64 `flag:"project" desc:"project to attach the file to (required)"`
	Final   bool  `flag:"final" desc:"mark as the project's final delivery"`
}

func uploadCommand() *cli.Command {
	var params uploadParams

	return &cli.Command{
		Name:    "upload",
		Summary: "Upload a file to a project",
		Description: `Upload a file to a project.

Uploads are limited to the project's employer, its assigned executor,
and admins. Pass --final to mark the file as the project's final
delivery. The file's content digest is printed so the receiving side
can verify it with "atelier delivery verify".`,
		Usage: "atelier delivery upload <file> --project <id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Upload the final delivery archive",
				Command:     "atelier delivery upload milestone1.tar.zst --project 12 --final",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delivery upload", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: atelier delivery upload <file> --project <id>")
			}
			if params.Project <= 0 {
				return cli.Validation("--project is required")
			}
			path := args[0]

			fileDigest, _, err := digestFile(path)
			if err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return cli.Internal("open %s: %w", path, err)
			}
			defer file.Close()

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

			contentType := ""
			if strings.HasSuffix(path, delivery.ArchiveExtension) {
				contentType = "application/zstd"
			}

			uploaded, err := session.UploadFile(ctx, params.Project, marketplace.Upload{
				Filename:      filepath.Base(path),
				ContentType:   contentType,
				Content:       file,
				FinalDelivery: params.Final,
			})
			if err != nil {
				switch {
				case marketplace.IsNotFound(err):
					return cli.NotFound("project %d not found", params.Project)
				case marketplace.IsPermissionDenied(err):
					return cli.Forbidden("no upload access to project %d", params.Project)
				}
				return cli.Internal("upload: %v", marketplace.ErrorDetail(err, err.Error()))
			}

			fmt.Fprintf(os.Stderr, "Uploaded %s as file #%d\n", uploaded.Filename, uploaded.ID)
			fmt.Printf("%s  %s\n", digest.Format(fileDigest), uploaded.Filename)
			return nil
		},
	}
}

// digestFile hashes a file's content, wrapping errors for the CLI.
func digestFile(path string) (digest.Digest, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return digest.Digest{}, 0, cli.Internal("open %s: %w", path, err)
	}
	defer file.Close()

	fileDigest, size, err := digest.HashReader(file)
	if err != nil {
		return digest.Digest{}, 0, cli.Internal("hash %s: %w", path, err)
	}
	return fileDigest, size, nil
}
