// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the eqforge CLI.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a pflag.FlagSet factory, and a Run
// function. The tree is assembled in cmd/eqforge/commands and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples.
//
// Unknown subcommand names are matched against the tree by edit
// distance and the closest name (distance <= 3) is suggested.
package cli
