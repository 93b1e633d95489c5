// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import (
	"iter"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// stringKey is the fixed 8-byte XOR key applied to every string table
// byte, cycling positionally regardless of string boundaries. This is
// obfuscation, not security; the key is a format constant.
var stringKey = [8]byte{0x95, 0x3a, 0xc5, 0x2a, 0x95, 0x7a, 0x95, 0x6a}

// decodeString de-obfuscates raw bytes and transcodes them from
// Windows-1252, the 8-bit encoding the client uses for all embedded
// text.
func decodeString(raw []byte) string {
	plain := make([]byte, len(raw))
	for i, b := range raw {
		plain[i] = b ^ stringKey[i%len(stringKey)]
	}
	var builder strings.Builder
	builder.Grow(len(plain))
	for _, b := range plain {
		builder.WriteRune(charmap.Windows1252.DecodeByte(b))
	}
	return builder.String()
}

// encodeString transcodes text to Windows-1252 and obfuscates it.
// Exact inverse of decodeString for any text that decodeString can
// produce.
func encodeString(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			// Unmappable runes cannot appear in round-tripped data;
			// substitute the charmap's replacement for new content.
			b = '?'
		}
		out = append(out, b)
	}
	for i := range out {
		out[i] ^= stringKey[i%len(stringKey)]
	}
	return out
}

// StringRef is a signed offset into a document's string table.
// Lookup uses the absolute value; the sign itself carries no lookup
// meaning but is preserved verbatim on round trip (fragments
// conventionally store their own name as a negative reference).
type StringRef int32

// StringTable is the decoded string pool shared by every fragment in
// one document. Keys are byte offsets of each string's first
// character in the decoded text; offset 0 is conventionally the empty
// string. The table is immutable once built.
type StringTable struct {
	offsets []int32
	values  []string
}

// DecodeStringTable de-obfuscates and decodes a raw string table
// blob. The decoded text is split on NUL; each string is keyed by its
// starting offset in the decoded text.
func DecodeStringTable(raw []byte) *StringTable {
	text := decodeString(raw)
	table := &StringTable{}
	offset := 0
	for {
		end := strings.IndexByte(text[offset:], 0)
		if end < 0 {
			// Text after the last NUL (usually absent) has no
			// terminator and therefore no table entry.
			break
		}
		table.offsets = append(table.offsets, int32(offset))
		table.values = append(table.values, text[offset:offset+end])
		offset += end + 1
		if offset >= len(text) {
			break
		}
	}
	return table
}

// Encode re-joins the table's strings in key order with a NUL after
// each, re-encodes and re-obfuscates them, and zero-pads the result
// to a multiple of 4 bytes. For a table decoded from a 4-byte-aligned
// blob this reproduces the original bytes exactly.
func (t *StringTable) Encode() []byte {
	var text strings.Builder
	for _, value := range t.values {
		text.WriteString(value)
		text.WriteByte(0)
	}
	out := encodeString(text.String())
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}

// Get returns the string starting at the reference's absolute offset.
// The second result is false when no string starts there — references
// may legitimately point between entries or into padding.
func (t *StringTable) Get(ref StringRef) (string, bool) {
	offset := int32(ref)
	if offset < 0 {
		offset = -offset
	}
	i := sort.Search(len(t.offsets), func(i int) bool { return t.offsets[i] >= offset })
	if i < len(t.offsets) && t.offsets[i] == offset {
		return t.values[i], true
	}
	return "", false
}

// Len returns the number of strings in the table.
func (t *StringTable) Len() int {
	return len(t.values)
}

// All iterates the table in offset order.
func (t *StringTable) All() iter.Seq2[int32, string] {
	return func(yield func(int32, string) bool) {
		for i, offset := range t.offsets {
			if !yield(offset, t.values[i]) {
				return
			}
		}
	}
}
