// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the atelier CLI.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. The tree is assembled in cmd/atelier/main.go and
// dispatched through [Command.Execute], which handles flag parsing,
// routing, and help output with examples.
//
// Unknown subcommands and flags get a "did you mean" suggestion based
// on Levenshtein edit distance (threshold 3), implemented in
// suggest.go.
//
// The package also carries the pieces every command group shares:
//
//   - [RequireSession] resumes the stored login (written by
//     "atelier login" to ~/.config/atelier/session.json) and returns
//     an authenticated API session.
//   - [Validation], [NotFound], [Forbidden], and friends wrap errors
//     with a category that maps to a distinct process exit code, so
//     scripts can branch on failure kind without parsing text.
//   - [PrintJSON] renders any command result for --json output.
package cli
