// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the eqforge command tree.
package commands

import (
	"github.com/eqforge/eqforge/cmd/eqforge/cli"
)

// Root returns the top-level eqforge command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "eqforge",
		Summary: "inspect and rebuild EverQuest PFS archives and WLD documents",
		Description: "eqforge reads and writes the PFS archive container (.s3d/.pfs)\n" +
			"and the WLD fragment documents stored inside it. All codecs are\n" +
			"byte-exact: re-encoding an unmodified file reproduces it bit for bit.",
		Subcommands: []*cli.Command{
			archiveCommand(),
			wldCommand(),
		},
	}
}
