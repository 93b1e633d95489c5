// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/eqforge/eqforge/lib/pfs"
)

func TestArchiveCreateExtractRoundTrip(t *testing.T) {
	dir := t.TempDir()
	wldData := bytes.Repeat([]byte{0x02, 0x3d, 0x50, 0x54}, 1000)
	bmpData := []byte("not really a bitmap")
	writeFile(t, filepath.Join(dir, "GFAYDARK.WLD"), wldData)
	writeFile(t, filepath.Join(dir, "palette.bmp"), bmpData)

	archivePath := filepath.Join(dir, "out.s3d")
	err := Root().Execute([]string{"archive", "create", archivePath,
		filepath.Join(dir, "GFAYDARK.WLD"), filepath.Join(dir, "palette.bmp")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Names are stored lowercased.
	raw, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	archive, err := pfs.Open(raw)
	if err != nil {
		t.Fatalf("built archive does not parse: %v", err)
	}
	names, err := archive.Filenames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "gfaydark.wld" {
		t.Fatalf("names = %v", names)
	}

	outDir := filepath.Join(dir, "extracted")
	err = Root().Execute([]string{"archive", "extract", archivePath, "-o", outDir})
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	extracted, err := os.ReadFile(filepath.Join(outDir, "gfaydark.wld"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(extracted, wldData) {
		t.Error("extracted data differs from input")
	}
}

func TestArchiveCreateFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "light.bin"), []byte("light data"))
	writeFile(t, filepath.Join(dir, "pack.yaml"), []byte(
		"footer_timestamp: 1529392438\nfiles:\n  - name: LIGHTS.WLD\n    path: light.bin\n"))

	archivePath := filepath.Join(dir, "out.s3d")
	err := Root().Execute([]string{"archive", "create", archivePath,
		"--manifest", filepath.Join(dir, "pack.yaml")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	raw, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	archive, err := pfs.Open(raw)
	if err != nil {
		t.Fatalf("built archive does not parse: %v", err)
	}
	if archive.Footer == nil || archive.Footer.Timestamp != 1529392438 {
		t.Errorf("footer = %+v", archive.Footer)
	}
	data, err := archive.Extract("lights.wld")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if string(data) != "light data" {
		t.Errorf("extracted %q", data)
	}
}

func TestArchiveVerifyPasses(t *testing.T) {
	dir := t.TempDir()
	archive := pfs.Build([]pfs.File{{Name: "a.bmp", Data: []byte("aaa")}}, pfs.BuildOptions{})
	archivePath := filepath.Join(dir, "ok.s3d")
	writeFile(t, archivePath, archive.ToBytes())

	if err := Root().Execute([]string{"archive", "verify", archivePath}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
