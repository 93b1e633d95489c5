// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/eqforge/eqforge/lib/pfs"
	"github.com/eqforge/eqforge/lib/wld"
)

// minimalWld builds the smallest well-formed document: empty string
// table, no fragments, standard trailer.
func minimalWld() []byte {
	out := make([]byte, 0, 32)
	out = binary.LittleEndian.AppendUint32(out, 0x54503d02)
	out = binary.LittleEndian.AppendUint32(out, wld.VersionOld)
	out = binary.LittleEndian.AppendUint32(out, 0) // fragments
	out = binary.LittleEndian.AppendUint32(out, 0) // regions
	out = binary.LittleEndian.AppendUint32(out, 0) // max object bytes
	out = binary.LittleEndian.AppendUint32(out, 0) // string hash size
	out = binary.LittleEndian.AppendUint32(out, 0) // string count
	return binary.LittleEndian.AppendUint32(out, 0xffffffff)
}

func TestWldInfoFromArchive(t *testing.T) {
	dir := t.TempDir()
	archive := pfs.Build([]pfs.File{{Name: "gfaydark.wld", Data: minimalWld()}}, pfs.BuildOptions{})
	archivePath := filepath.Join(dir, "gfaydark.s3d")
	writeFile(t, archivePath, archive.ToBytes())

	err := Root().Execute([]string{"wld", "info", "gfaydark.wld", "--archive", archivePath})
	if err != nil {
		t.Fatalf("wld info failed: %v", err)
	}
}

func TestWldInfoFromLooseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "objects.wld")
	writeFile(t, path, minimalWld())

	for _, sub := range []string{"info", "strings", "fragments", "dump"} {
		if err := Root().Execute([]string{"wld", sub, path}); err != nil {
			t.Errorf("wld %s failed: %v", sub, err)
		}
	}
}

func TestWldRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.wld")
	writeFile(t, path, []byte("this is not a wld document, not even close"))

	if err := Root().Execute([]string{"wld", "info", path}); err == nil {
		t.Error("expected parse error")
	}
}
