// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import (
	"encoding/binary"
	"fmt"
)

// FilenameEntry is one obfuscated, length-prefixed filename inside a
// [BmInfo]. Length counts the encoded bytes including the NUL
// terminator and any trailing padding NULs; it is preserved so the
// entry re-encodes to its exact original width.
type FilenameEntry struct {
	Length uint16
	Name   string
}

func parseFilenameEntry(r *reader) FilenameEntry {
	length := r.uint16()
	raw := r.take(int(length))
	if r.err != nil {
		return FilenameEntry{}
	}
	name := decodeString(raw)
	for len(name) > 0 && name[len(name)-1] == 0 {
		name = name[:len(name)-1]
	}
	return FilenameEntry{Length: length, Name: name}
}

func (e FilenameEntry) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, e.Length)
	enc := encodeString(e.Name)
	// Fill out to the stored length with obfuscated NULs; the first
	// one is the terminator.
	for i := len(enc); i < int(e.Length); i++ {
		enc = append(enc, stringKey[i%len(stringKey)])
	}
	return append(dst, enc[:e.Length]...)
}

// BmInfo (0x03) binds a name to one or more texture bitmap filenames.
// Multiple entries appear in post-Luclin zones with layered terrain
// detail.
type BmInfo struct {
	Name    StringRef
	Entries []FilenameEntry
}

func (f *BmInfo) TypeCode() uint32 { return TypeBmInfo }

func (f *BmInfo) NameRef() StringRef { return f.Name }

func (f *BmInfo) appendTo(dst []byte) []byte {
	dst = appendStringRef(dst, f.Name)
	// The stored count is one less than the number of entries.
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.Entries)-1))
	for _, entry := range f.Entries {
		dst = entry.appendTo(dst)
	}
	// Original records pad this payload to one byte short of a word
	// boundary; record-level alignment supplies the last byte.
	for len(dst)%4 != 3 {
		dst = append(dst, 0)
	}
	return dst
}

func parseBmInfo(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &BmInfo{Name: r.stringRef()}
	entryCount := int(r.uint32()) + 1
	if r.err == nil && entryCount > r.remaining()/2+1 {
		return nil, fmt.Errorf("entry count %d exceeds payload", entryCount-1)
	}
	for i := 0; i < entryCount; i++ {
		frag.Entries = append(frag.Entries, parseFilenameEntry(r))
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}
