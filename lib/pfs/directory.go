// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package pfs

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// directory is the filename table stored as the archive's final entry
// (the one keyed directoryCRC). Its position in the sorted index
// associates each filename with an index entry: sorting the index by
// data offset puts the entries in the same order the filenames are
// declared here.
type directory struct {
	filenames []string
}

// parseDirectory decodes the directory payload: u32 count, then count
// strings, each u32-length-prefixed and NUL-terminated.
func parseDirectory(data []byte) (*directory, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: directory payload is %d bytes", ErrTruncated, len(data))
	}
	count := binary.LittleEndian.Uint32(data)
	data = data[4:]

	filenames := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, fmt.Errorf("%w: directory filename %d: missing length prefix", ErrTruncated, i)
		}
		length := binary.LittleEndian.Uint32(data)
		data = data[4:]
		if uint32(len(data)) < length {
			return nil, fmt.Errorf("%w: directory filename %d: %d bytes declared, %d remain",
				ErrTruncated, i, length, len(data))
		}
		filenames = append(filenames, strings.TrimRight(string(data[:length]), "\x00"))
		data = data[length:]
	}
	return &directory{filenames: filenames}, nil
}

// toBytes is the exact inverse of parseDirectory.
func (d *directory) toBytes() []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(d.filenames)))
	for _, name := range d.filenames {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(name)+1))
		out = append(out, name...)
		out = append(out, 0)
	}
	return out
}
