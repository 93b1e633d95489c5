// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package wld reads and writes WLD documents, the fragment-graph
// scene and asset format stored inside PFS archives by the classic
// EverQuest client. A document is a header, an obfuscated string
// table, and an ordered sequence of typed, length-delimited fragment
// records. Fragments point at each other by 1-based ordinal index and
// at the string table by byte offset; both reference kinds are
// parsed eagerly but resolved lazily.
//
// Round-trip fidelity is the package contract: for a well-formed
// document, ToBytes(Parse(b)) == b, including the obfuscated string
// table, alignment padding, preserved reference signs, and fragments
// whose type code this package does not recognize (those are carried
// as opaque [Raw] records).
//
// Only a representative subset of the ~50 known fragment layouts is
// decoded into typed records; see the Type* constants. Everything
// else passes through as [Raw]. Parsing is a pure transformation over
// an in-memory buffer; a parsed Document is immutable and safe for
// concurrent readers.
package wld
