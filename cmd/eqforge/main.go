// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/eqforge/eqforge/cmd/eqforge/commands"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		// Commands that print their own report return an error with an
		// exit code; don't add a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
