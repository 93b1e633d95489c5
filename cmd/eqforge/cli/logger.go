// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates the structured logger for CLI commands: a text
// handler when stderr is a terminal, JSON when piped or redirected.
// Callers scope it with command context via With():
//
//	logger := cli.NewLogger().With("command", "archive/verify")
func NewLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
