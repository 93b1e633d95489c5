// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/eqforge/eqforge/cmd/eqforge/cli"
	"github.com/eqforge/eqforge/lib/pfs"
)

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:    "archive",
		Summary: "work with PFS archives (.s3d, .pfs)",
		Subcommands: []*cli.Command{
			archiveListCommand(),
			archiveExtractCommand(),
			archiveCreateCommand(),
			archiveVerifyCommand(),
		},
	}
}

func openArchive(path string) (*pfs.Archive, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	archive, err := pfs.Open(data)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return archive, data, nil
}

func archiveListCommand() *cli.Command {
	var long bool
	return &cli.Command{
		Name:    "list",
		Summary: "list the files in an archive",
		Usage:   "eqforge archive list <archive> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.BoolVarP(&long, "long", "l", false, "include CRC and block offset columns")
			return flags
		},
		Examples: []cli.Example{
			{Description: "List a zone archive", Command: "eqforge archive list gfaydark.s3d"},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one archive path, got %d", len(args))
			}
			archive, _, err := openArchive(args[0])
			if err != nil {
				return err
			}
			files, err := archive.Files()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			if long {
				fmt.Fprintln(tw, "NAME\tSIZE\tCRC\tOFFSET")
				entries := archive.DataEntries()
				for i, file := range files {
					fmt.Fprintf(tw, "%s\t%d\t%08x\t%d\n",
						file.Name, len(file.Data), entries[i].FilenameCRC, entries[i].DataOffset)
				}
			} else {
				fmt.Fprintln(tw, "NAME\tSIZE")
				for _, file := range files {
					fmt.Fprintf(tw, "%s\t%d\n", file.Name, len(file.Data))
				}
			}
			return tw.Flush()
		},
	}
}

func archiveExtractCommand() *cli.Command {
	var outDir string
	return &cli.Command{
		Name:    "extract",
		Summary: "extract files from an archive",
		Usage:   "eqforge archive extract <archive> [name...] [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flags.StringVarP(&outDir, "out", "o", ".", "output directory")
			return flags
		},
		Examples: []cli.Example{
			{Description: "Extract everything", Command: "eqforge archive extract gfaydark.s3d -o out/"},
			{Description: "Extract one file", Command: "eqforge archive extract gfaydark.s3d gfaydark.wld"},
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("expected an archive path")
			}
			archive, _, err := openArchive(args[0])
			if err != nil {
				return err
			}
			logger := cli.NewLogger().With("command", "archive/extract")

			var files []pfs.File
			if len(args) > 1 {
				for _, name := range args[1:] {
					data, err := archive.Extract(name)
					if err != nil {
						return fmt.Errorf("extract %s: %w", name, err)
					}
					files = append(files, pfs.File{Name: name, Data: data})
				}
			} else {
				files, err = archive.Files()
				if err != nil {
					return err
				}
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, file := range files {
				// Archive names are flat; never let one escape outDir.
				target := filepath.Join(outDir, filepath.Base(file.Name))
				if err := os.WriteFile(target, file.Data, 0o644); err != nil {
					return err
				}
				logger.Info("extracted", "name", file.Name, "bytes", len(file.Data))
			}
			return nil
		},
	}
}

// createManifest is the YAML description consumed by "archive create
// --manifest". Paths are relative to the manifest file.
type createManifest struct {
	// FooterTimestamp, when set, appends the "STEVE" trailer stamped
	// with this Unix time.
	FooterTimestamp *uint32 `yaml:"footer_timestamp"`

	Files []struct {
		// Name is the name stored in the archive directory,
		// conventionally lowercase.
		Name string `yaml:"name"`
		// Path is the local file to read. Defaults to Name.
		Path string `yaml:"path"`
	} `yaml:"files"`
}

func archiveCreateCommand() *cli.Command {
	var manifestPath string
	return &cli.Command{
		Name:    "create",
		Summary: "build an archive from local files",
		Usage:   "eqforge archive create <archive> [file...] [flags]",
		Description: "Builds a PFS archive. Inputs come either from positional file\n" +
			"paths (stored under their lowercased base name) or from a YAML\n" +
			"manifest mapping archive names to local paths.",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flags.StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest of files to pack")
			return flags
		},
		Examples: []cli.Example{
			{Description: "Pack loose files", Command: "eqforge archive create out.s3d palette.bmp gfaydark.wld"},
			{Description: "Pack from a manifest", Command: "eqforge archive create out.s3d --manifest pack.yaml"},
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("expected an output archive path")
			}
			outPath := args[0]

			var files []pfs.File
			var opts pfs.BuildOptions
			switch {
			case manifestPath != "":
				if len(args) > 1 {
					return fmt.Errorf("positional files and --manifest are mutually exclusive")
				}
				raw, err := os.ReadFile(manifestPath)
				if err != nil {
					return err
				}
				var manifest createManifest
				if err := yaml.Unmarshal(raw, &manifest); err != nil {
					return fmt.Errorf("parse %s: %w", manifestPath, err)
				}
				baseDir := filepath.Dir(manifestPath)
				for _, entry := range manifest.Files {
					path := entry.Path
					if path == "" {
						path = entry.Name
					}
					if !filepath.IsAbs(path) {
						path = filepath.Join(baseDir, path)
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					files = append(files, pfs.File{Name: strings.ToLower(entry.Name), Data: data})
				}
				if manifest.FooterTimestamp != nil {
					opts.Footer = &pfs.Footer{Marker: pfs.FooterMarker, Timestamp: *manifest.FooterTimestamp}
				}
			case len(args) > 1:
				for _, path := range args[1:] {
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					files = append(files, pfs.File{Name: strings.ToLower(filepath.Base(path)), Data: data})
				}
			default:
				return fmt.Errorf("no input files: pass paths or --manifest")
			}

			archive := pfs.Build(files, opts)
			if err := os.WriteFile(outPath, archive.ToBytes(), 0o644); err != nil {
				return err
			}
			cli.NewLogger().Info("archive written",
				"path", outPath, "files", len(files), "blocks", len(archive.Blocks))
			return nil
		},
	}
}

func archiveVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:    "verify",
		Summary: "check archive integrity and print content digests",
		Usage:   "eqforge archive verify <archive>",
		Description: "Re-encodes the parsed archive and compares it byte for byte with\n" +
			"the input, then decompresses every entry and prints its BLAKE3\n" +
			"digest. Exits 1 when the archive does not round-trip or an entry\n" +
			"fails to decompress.",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one archive path, got %d", len(args))
			}
			archive, data, err := openArchive(args[0])
			if err != nil {
				return err
			}

			failed := false
			if !bytes.Equal(archive.ToBytes(), data) {
				fmt.Fprintln(os.Stderr, "FAIL: re-encoded archive differs from input")
				failed = true
			}

			names, err := archive.Filenames()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			for _, name := range names {
				content, err := archive.Extract(name)
				if err != nil {
					fmt.Fprintf(tw, "%s\tFAIL: %v\n", name, err)
					failed = true
					continue
				}
				digest := blake3.Sum256(content)
				fmt.Fprintf(tw, "%s\t%s\n", name, hex.EncodeToString(digest[:]))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
