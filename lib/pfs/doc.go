// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package pfs reads and writes PFS archives, the compressed and
// CRC-indexed container format used by the classic EverQuest client
// (".s3d", ".pfs", ".pak"). An archive is a flat collection of named
// files: each file's data is deflated in fixed-size blocks, and a
// trailing index maps a CRC of each filename to the file's block
// region. Filenames themselves live in a directory entry that is
// stored as the last file of the archive.
//
// The package guarantees a byte-exact round trip for well-formed
// archives: Open followed by ToBytes reproduces the input unchanged,
// including the optional trailer. Building a new archive with Build
// produces equivalent content but not necessarily identical compressed
// bytes, since deflate output is not canonical across implementations.
//
// All parsing operates on complete in-memory buffers. Nothing in this
// package performs I/O or retains shared mutable state; a parsed
// Archive is safe for concurrent readers.
package pfs
