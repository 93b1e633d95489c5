// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import (
	"fmt"
)

// Fragment type codes decoded by this package. Codes outside this set
// are preserved as [Raw].
const (
	TypeBmInfo          uint32 = 0x03
	TypeSimpleSpriteDef uint32 = 0x04
	TypeSimpleSprite    uint32 = 0x05
	TypeTrackDef        uint32 = 0x12
	TypeTrack           uint32 = 0x13
	TypeSphere          uint32 = 0x16
	TypeLightDef        uint32 = 0x1b
	TypeFirst           uint32 = 0x35
)

// Fragment is one typed record in a document. Implementations are
// plain data: parsing fills every field and appendTo reproduces the
// exact payload bytes the fragment was parsed from.
type Fragment interface {
	// TypeCode returns the on-disk fragment type code.
	TypeCode() uint32
	// NameRef returns the fragment's own name reference, usually a
	// negative string table offset. Zero means unnamed.
	NameRef() StringRef
	// appendTo serializes the fragment payload (everything after the
	// size and type code words) onto dst.
	appendTo(dst []byte) []byte
}

// FragRef is a typed reference from one fragment to another. Positive
// values are 1-based indices into the document's fragment sequence;
// zero and negative values reference the target by name through the
// string table. The raw value is preserved verbatim on round trip.
type FragRef[T Fragment] int32

// Resolve follows a reference within doc. It returns false when the
// reference is out of range, names a string with no matching
// fragment, or points at a fragment of a different concrete type.
// Dangling references are common in real documents and are not an
// error.
func Resolve[T Fragment](doc *Document, ref FragRef[T]) (T, bool) {
	var zero T
	if doc == nil {
		return zero, false
	}
	if ref > 0 {
		frag := doc.At(int(ref) - 1)
		if frag == nil {
			return zero, false
		}
		target, ok := frag.(T)
		return target, ok
	}
	name, ok := doc.GetString(StringRef(ref))
	if !ok || name == "" {
		return zero, false
	}
	frag := doc.FragmentByName(name)
	if frag == nil {
		return zero, false
	}
	target, ok := frag.(T)
	return target, ok
}

// Raw is a fragment whose type code has no decoder. Its payload is
// carried untouched so unknown fragments survive a round trip.
type Raw struct {
	Type StringRef // name reference, first word of the payload
	Code uint32
	Data []byte // full payload, including the leading name reference
}

func (f *Raw) TypeCode() uint32 { return f.Code }

func (f *Raw) NameRef() StringRef { return f.Type }

func (f *Raw) appendTo(dst []byte) []byte {
	return append(dst, f.Data...)
}

func parseRaw(code uint32, data []byte) *Raw {
	frag := &Raw{Code: code, Data: data}
	if len(data) >= 4 {
		r := newReader(data)
		frag.Type = r.stringRef()
	}
	return frag
}

// Payload serializes a fragment's payload as it would appear in a
// document record, including alignment padding.
func Payload(frag Fragment) []byte {
	return align4(frag.appendTo(nil))
}

// fragmentCodec ties a type code to its decoder and a stable
// human-readable name for diagnostics and tooling.
type fragmentCodec struct {
	name  string
	parse func(data []byte) (Fragment, error)
}

var fragmentCodecs = map[uint32]fragmentCodec{
	TypeBmInfo:          {"BMINFO", parseBmInfo},
	TypeSimpleSpriteDef: {"SIMPLESPRITEDEF", parseSimpleSpriteDef},
	TypeSimpleSprite:    {"SIMPLESPRITEINST", parseSimpleSprite},
	TypeTrackDef:        {"TRACKDEFINITION", parseTrackDef},
	TypeTrack:           {"TRACKINSTANCE", parseTrack},
	TypeSphere:          {"SPHERE", parseSphere},
	TypeLightDef:        {"LIGHTDEFINITION", parseLightDef},
	TypeFirst:           {"FIRSTFRAGMENT", parseFirst},
}

// TypeName returns the conventional name for a fragment type code, or
// a hex placeholder for codes this package does not decode.
func TypeName(code uint32) string {
	if codec, ok := fragmentCodecs[code]; ok {
		return codec.name
	}
	return fmt.Sprintf("UNKNOWN_0x%02x", code)
}

// FragmentError reports a malformed fragment record with enough
// context to locate it in the source document.
type FragmentError struct {
	Index  int    // 0-based position in the fragment sequence
	Offset int    // byte offset of the record header in the document
	Code   uint32 // on-disk type code
	Err    error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("fragment %d (%s at offset %d): %v",
		e.Index, TypeName(e.Code), e.Offset, e.Err)
}

func (e *FragmentError) Unwrap() error { return e.Err }
