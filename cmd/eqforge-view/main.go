// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

// eqforge-view is an interactive terminal browser for WLD documents.
// It renders the fragment list with incremental filtering and a
// decoded detail pane, reading either a loose .wld file or a document
// inside a PFS archive.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eqforge/eqforge/lib/pfs"
	"github.com/eqforge/eqforge/lib/wld"
	"github.com/eqforge/eqforge/lib/wldui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var archivePath string

	flagSet := pflag.NewFlagSet("eqforge-view", pflag.ContinueOnError)
	flagSet.StringVarP(&archivePath, "archive", "a", "", "read the document out of this PFS archive")
	flagSet.BoolP("help", "h", false, "show help")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) != 1 {
		printHelp(flagSet)
		return fmt.Errorf("expected exactly one document path")
	}
	path := args[0]

	var raw []byte
	var err error
	if archivePath != "" {
		data, readErr := os.ReadFile(archivePath)
		if readErr != nil {
			return readErr
		}
		archive, openErr := pfs.Open(data)
		if openErr != nil {
			return fmt.Errorf("open %s: %w", archivePath, openErr)
		}
		raw, err = archive.Extract(path)
		if err != nil {
			return err
		}
	} else {
		raw, err = os.ReadFile(path)
		if err != nil {
			return err
		}
	}

	doc, err := wld.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	model := wldui.NewModel(doc, filepath.Base(path))
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `EQForge document viewer — interactive browser for WLD fragments.

Usage:
  eqforge-view <document.wld> [flags]

Examples:
  # Browse a loose document
  eqforge-view gfaydark.wld

  # Browse a document inside its archive
  eqforge-view gfaydark.wld --archive gfaydark.s3d

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
