// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the structured logger CLI commands pass to
// the API client. Human-readable text when stderr is a terminal, JSON
// when piped or redirected so scripts and CI get parseable lines.
//
// Commands scope it with their own context via With():
//
//	logger := cli.NewCommandLogger().With("command", "proposal/accept")
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelWarn}
	if os.Getenv("ATELIER_DEBUG") != "" {
		options.Level = slog.LevelDebug
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
