// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package pfs

// The index keys filenames with a CRC-32 variant: IEEE polynomial
// 0x04C11DB7, most-significant-bit-first, zero initial value, no
// final inversion, computed over the filename bytes plus the
// terminating NUL. This matches the hash produced by the original
// client tooling; it is not the reflected CRC-32 from hash/crc32, so
// the table is built here.

const crcPolynomial = 0x04c11db7

// directoryCRC is the index key of the filename directory entry. The
// directory has no filename of its own.
const directoryCRC = 0xffffffff

var crcTable = buildCRCTable()

func buildCRCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		crc := uint32(i) << 24
		for range 8 {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// NameHash returns the index key for a filename. Archives store
// filenames lowercased; callers that hash mixed-case names will not
// match entries written by the original tooling.
func NameHash(name string) uint32 {
	var crc uint32
	for i := 0; i <= len(name); i++ {
		// The terminating NUL is part of the hashed bytes.
		var b byte
		if i < len(name) {
			b = name[i]
		}
		crc = crc<<8 ^ crcTable[(crc>>24^uint32(b))&0xff]
	}
	return crc
}
