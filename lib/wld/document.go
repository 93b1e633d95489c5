// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	documentMagic = 0x54503d02

	// VersionOld identifies pre-Luclin documents; VersionNew the later
	// revision. The fragment wire format is identical, a few layouts
	// interpret fields differently.
	VersionOld uint32 = 0x00015500
	VersionNew uint32 = 0x1000c800

	headerSize = 28
)

var (
	ErrBadMagic   = errors.New("wld: bad magic")
	ErrBadVersion = errors.New("wld: unsupported version")
	ErrTruncated  = errors.New("wld: truncated document")
)

// Header is the fixed 28-byte document preamble. The counts and sizes
// are recomputed on encode from the document's actual contents; the
// remaining fields round-trip verbatim.
type Header struct {
	Magic          uint32
	Version        uint32
	FragmentCount  uint32
	RegionCount    uint32
	MaxObjectBytes uint32
	StringHashSize uint32
	StringCount    uint32
}

func (h *Header) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.Magic)
	dst = binary.LittleEndian.AppendUint32(dst, h.Version)
	dst = binary.LittleEndian.AppendUint32(dst, h.FragmentCount)
	dst = binary.LittleEndian.AppendUint32(dst, h.RegionCount)
	dst = binary.LittleEndian.AppendUint32(dst, h.MaxObjectBytes)
	dst = binary.LittleEndian.AppendUint32(dst, h.StringHashSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.StringCount)
	return dst
}

// IsOld reports whether the document uses the pre-Luclin version.
func (h *Header) IsOld() bool { return h.Version == VersionOld }

// Document is a parsed WLD file: a header, the shared string table,
// and the ordered fragment sequence. Documents are immutable after
// Parse and safe for concurrent readers.
type Document struct {
	Header    Header
	strings   *StringTable
	fragments []Fragment

	// trailer holds whatever follows the last fragment, normally a
	// single 0xffffffff word. It is preserved verbatim.
	trailer []byte
}

// Parse decodes a complete WLD document. Fragments with unrecognized
// type codes are kept as [Raw]; a recognized fragment whose payload
// does not decode is a [FragmentError].
func Parse(data []byte) (*Document, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d for header", ErrTruncated, len(data), headerSize)
	}
	doc := &Document{
		Header: Header{
			Magic:          binary.LittleEndian.Uint32(data[0:4]),
			Version:        binary.LittleEndian.Uint32(data[4:8]),
			FragmentCount:  binary.LittleEndian.Uint32(data[8:12]),
			RegionCount:    binary.LittleEndian.Uint32(data[12:16]),
			MaxObjectBytes: binary.LittleEndian.Uint32(data[16:20]),
			StringHashSize: binary.LittleEndian.Uint32(data[20:24]),
			StringCount:    binary.LittleEndian.Uint32(data[24:28]),
		},
	}
	if doc.Header.Magic != documentMagic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, doc.Header.Magic)
	}
	if doc.Header.Version != VersionOld && doc.Header.Version != VersionNew {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadVersion, doc.Header.Version)
	}

	off := headerSize
	hashSize := int(doc.Header.StringHashSize)
	if len(data)-off < hashSize {
		return nil, fmt.Errorf("%w: string table needs %d bytes, have %d", ErrTruncated, hashSize, len(data)-off)
	}
	doc.strings = DecodeStringTable(data[off : off+hashSize])
	off += hashSize

	count := int(doc.Header.FragmentCount)
	doc.fragments = make([]Fragment, 0, count)
	for i := 0; i < count; i++ {
		recordOff := off
		if len(data)-off < 8 {
			return nil, fmt.Errorf("%w: fragment %d header at offset %d", ErrTruncated, i, off)
		}
		size := int(binary.LittleEndian.Uint32(data[off : off+4]))
		code := binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8
		if len(data)-off < size {
			return nil, fmt.Errorf("%w: fragment %d payload needs %d bytes, have %d",
				ErrTruncated, i, size, len(data)-off)
		}
		payload := data[off : off+size]
		off += size

		frag, err := parseFragment(code, payload)
		if err != nil {
			return nil, &FragmentError{Index: i, Offset: recordOff, Code: code, Err: err}
		}
		doc.fragments = append(doc.fragments, frag)
	}

	doc.trailer = data[off:]
	return doc, nil
}

func parseFragment(code uint32, payload []byte) (Fragment, error) {
	codec, ok := fragmentCodecs[code]
	if !ok {
		return parseRaw(code, payload), nil
	}
	return codec.parse(payload)
}

// ToBytes serializes the document. For a document produced by Parse
// the result is byte-identical to the input.
func (d *Document) ToBytes() []byte {
	stringBlob := d.strings.Encode()

	header := d.Header
	header.FragmentCount = uint32(len(d.fragments))
	header.StringHashSize = uint32(len(stringBlob))

	out := header.appendTo(nil)
	out = append(out, stringBlob...)
	for _, frag := range d.fragments {
		payload := align4(frag.appendTo(nil))
		out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
		out = binary.LittleEndian.AppendUint32(out, frag.TypeCode())
		out = append(out, payload...)
	}
	if d.trailer != nil {
		out = append(out, d.trailer...)
	} else {
		out = binary.LittleEndian.AppendUint32(out, 0xffffffff)
	}
	return out
}

// Len returns the number of fragments.
func (d *Document) Len() int { return len(d.fragments) }

// At returns the fragment at the given 0-based index, or nil when the
// index is out of range.
func (d *Document) At(i int) Fragment {
	if i < 0 || i >= len(d.fragments) {
		return nil
	}
	return d.fragments[i]
}

// Fragments returns the fragment sequence in document order. The
// returned slice is shared; callers must not modify it.
func (d *Document) Fragments() []Fragment { return d.fragments }

// Strings returns the document's string table.
func (d *Document) Strings() *StringTable { return d.strings }

// GetString resolves a string reference against the string table.
func (d *Document) GetString(ref StringRef) (string, bool) {
	return d.strings.Get(ref)
}

// Name returns the fragment's own name, or "" when the fragment is
// unnamed or its reference does not land on a table entry.
func (d *Document) Name(frag Fragment) string {
	name, _ := d.GetString(frag.NameRef())
	return name
}

// FragmentByName returns the first fragment whose name matches, or
// nil. Names are unique within well-formed documents but the format
// does not enforce it.
func (d *Document) FragmentByName(name string) Fragment {
	if name == "" {
		return nil
	}
	for _, frag := range d.fragments {
		if got, ok := d.GetString(frag.NameRef()); ok && got == name {
			return frag
		}
	}
	return nil
}
