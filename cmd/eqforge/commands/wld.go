// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/eqforge/eqforge/cmd/eqforge/cli"
	"github.com/eqforge/eqforge/lib/codec"
	"github.com/eqforge/eqforge/lib/wld"
)

func wldCommand() *cli.Command {
	return &cli.Command{
		Name:    "wld",
		Summary: "inspect WLD fragment documents",
		Subcommands: []*cli.Command{
			wldInfoCommand(),
			wldStringsCommand(),
			wldFragmentsCommand(),
			wldDumpCommand(),
		},
	}
}

// archiveFlag wires the shared --archive flag: when set, the
// positional path names a file inside that archive instead of a loose
// .wld on disk.
func archiveFlag(name string, target *string) func() *pflag.FlagSet {
	return func() *pflag.FlagSet {
		flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
		flags.StringVarP(target, "archive", "a", "", "read the document out of this PFS archive")
		return flags
	}
}

func loadDocument(path, archivePath string) (*wld.Document, error) {
	var raw []byte
	if archivePath != "" {
		archive, _, err := openArchive(archivePath)
		if err != nil {
			return nil, err
		}
		raw, err = archive.Extract(path)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	doc, err := wld.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func wldInfoCommand() *cli.Command {
	var archivePath string
	return &cli.Command{
		Name:    "info",
		Summary: "show document header and fragment type counts",
		Usage:   "eqforge wld info <document> [flags]",
		Flags:   archiveFlag("info", &archivePath),
		Examples: []cli.Example{
			{Description: "Inspect a zone document inside its archive",
				Command: "eqforge wld info gfaydark.wld --archive gfaydark.s3d"},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one document path, got %d", len(args))
			}
			doc, err := loadDocument(args[0], archivePath)
			if err != nil {
				return err
			}

			version := "new"
			if doc.Header.IsOld() {
				version = "old"
			}
			fmt.Printf("version:    0x%08x (%s)\n", doc.Header.Version, version)
			fmt.Printf("fragments:  %d\n", doc.Len())
			fmt.Printf("strings:    %d (%d bytes encoded)\n", doc.Strings().Len(), doc.Header.StringHashSize)
			fmt.Printf("regions:    %d\n", doc.Header.RegionCount)

			counts := map[uint32]int{}
			for _, frag := range doc.Fragments() {
				counts[frag.TypeCode()]++
			}
			codes := make([]uint32, 0, len(counts))
			for code := range counts {
				codes = append(codes, code)
			}
			sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "\nCODE\tTYPE\tCOUNT")
			for _, code := range codes {
				fmt.Fprintf(tw, "0x%02x\t%s\t%d\n", code, wld.TypeName(code), counts[code])
			}
			return tw.Flush()
		},
	}
}

func wldStringsCommand() *cli.Command {
	var archivePath string
	return &cli.Command{
		Name:    "strings",
		Summary: "list the document's string table",
		Usage:   "eqforge wld strings <document> [flags]",
		Flags:   archiveFlag("strings", &archivePath),
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one document path, got %d", len(args))
			}
			doc, err := loadDocument(args[0], archivePath)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "OFFSET\tSTRING")
			for offset, value := range doc.Strings().All() {
				fmt.Fprintf(tw, "%d\t%s\n", offset, value)
			}
			return tw.Flush()
		},
	}
}

func wldFragmentsCommand() *cli.Command {
	var archivePath string
	return &cli.Command{
		Name:    "fragments",
		Summary: "list every fragment with its type and name",
		Usage:   "eqforge wld fragments <document> [flags]",
		Flags:   archiveFlag("fragments", &archivePath),
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one document path, got %d", len(args))
			}
			doc, err := loadDocument(args[0], archivePath)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tCODE\tTYPE\tNAME")
			for i, frag := range doc.Fragments() {
				fmt.Fprintf(tw, "%d\t0x%02x\t%s\t%s\n",
					i+1, frag.TypeCode(), wld.TypeName(frag.TypeCode()), doc.Name(frag))
			}
			return tw.Flush()
		},
	}
}

// dumpDocument is the CBOR shape emitted by "wld dump". Fields map
// directly onto the parsed document; fragment payloads are summarized
// rather than re-encoded.
type dumpDocument struct {
	Version   uint32           `cbor:"version"`
	Strings   map[int32]string `cbor:"strings"`
	Fragments []dumpFragment   `cbor:"fragments"`
}

type dumpFragment struct {
	Index int    `cbor:"index"`
	Code  uint32 `cbor:"code"`
	Type  string `cbor:"type"`
	Name  string `cbor:"name,omitempty"`
	Size  int    `cbor:"size"`
}

func wldDumpCommand() *cli.Command {
	var archivePath string
	return &cli.Command{
		Name:    "dump",
		Summary: "write a deterministic CBOR summary to stdout",
		Usage:   "eqforge wld dump <document> [flags]",
		Description: "Encodes the parsed document's structure (string table plus one\n" +
			"record per fragment) as canonical CBOR. Output for the same input\n" +
			"is byte-identical across runs, so dumps can be diffed or hashed.",
		Flags: archiveFlag("dump", &archivePath),
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one document path, got %d", len(args))
			}
			doc, err := loadDocument(args[0], archivePath)
			if err != nil {
				return err
			}

			dump := dumpDocument{
				Version: doc.Header.Version,
				Strings: map[int32]string{},
			}
			for offset, value := range doc.Strings().All() {
				dump.Strings[offset] = value
			}
			for i, frag := range doc.Fragments() {
				dump.Fragments = append(dump.Fragments, dumpFragment{
					Index: i + 1,
					Code:  frag.TypeCode(),
					Type:  wld.TypeName(frag.TypeCode()),
					Name:  doc.Name(frag),
					Size:  len(wld.Payload(frag)),
				})
			}

			out, err := codec.Marshal(dump)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}
