// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildDocument assembles raw document bytes from a string table blob
// and pre-encoded fragment records.
func buildDocument(stringBlob []byte, frags ...Fragment) []byte {
	header := Header{
		Magic:          documentMagic,
		Version:        VersionOld,
		FragmentCount:  uint32(len(frags)),
		StringHashSize: uint32(len(stringBlob)),
		StringCount:    0,
	}
	out := header.appendTo(nil)
	out = append(out, stringBlob...)
	for _, frag := range frags {
		payload := align4(frag.appendTo(nil))
		out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
		out = binary.LittleEndian.AppendUint32(out, frag.TypeCode())
		out = append(out, payload...)
	}
	return binary.LittleEndian.AppendUint32(out, 0xffffffff)
}

func TestParseRejectsBadInput(t *testing.T) {
	doc := buildDocument(tableBlob(""))

	bad := bytes.Clone(doc)
	binary.LittleEndian.PutUint32(bad[0:4], 0xdeadbeef)
	if _, err := Parse(bad); !errors.Is(err, ErrBadMagic) {
		t.Errorf("bad magic: err = %v", err)
	}

	bad = bytes.Clone(doc)
	binary.LittleEndian.PutUint32(bad[4:8], 0x00015501)
	if _, err := Parse(bad); !errors.Is(err, ErrBadVersion) {
		t.Errorf("bad version: err = %v", err)
	}

	if _, err := Parse(doc[:20]); !errors.Is(err, ErrTruncated) {
		t.Errorf("short header: err = %v", err)
	}
	if _, err := Parse(doc[:len(doc)-8]); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated table: err = %v", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	// Offsets: "" = 0, TREE_SPRITE = 1, TREE_BMINFO = 13, BOX = 25.
	blob := tableBlob("", "TREE_SPRITE", "TREE_BMINFO", "BOX")
	sleep := uint32(150)
	raw := buildDocument(blob,
		&First{Name: StringRef(-16777216)},
		&BmInfo{Name: -13, Entries: []FilenameEntry{{Length: 11, Name: "SGRASS.BMP"}}},
		&SimpleSpriteDef{
			Name:  -1,
			Flags: SpriteFlags(spriteAnimated | spriteHasSleep),
			Sleep: &sleep,
			Frames: []FragRef[*BmInfo]{
				FragRef[*BmInfo](2),
			},
		},
		&SimpleSprite{Name: 0, Def: 3, Flags: 0x50},
		&Sphere{Name: -25, Radius: 2.5},
	)

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !bytes.Equal(doc.ToBytes(), raw) {
		t.Error("ToBytes(Parse(b)) != b")
	}
	if doc.Len() != 5 {
		t.Fatalf("document has %d fragments, want 5", doc.Len())
	}

	def, ok := doc.At(2).(*SimpleSpriteDef)
	if !ok {
		t.Fatalf("fragment 2 is %T", doc.At(2))
	}
	if doc.Name(def) != "TREE_SPRITE" {
		t.Errorf("sprite def name = %q", doc.Name(def))
	}
	if def.Sleep == nil || *def.Sleep != 150 {
		t.Errorf("sleep = %v", def.Sleep)
	}

	// Index references resolve 1-based.
	bm, ok := Resolve(doc, def.Frames[0])
	if !ok {
		t.Fatal("frame reference did not resolve")
	}
	if bm.Entries[0].Name != "SGRASS.BMP" {
		t.Errorf("frame filename = %q", bm.Entries[0].Name)
	}

	// The instance points at the def by index too.
	inst := doc.At(3).(*SimpleSprite)
	if got, ok := Resolve(doc, inst.Def); !ok || got != def {
		t.Error("sprite instance did not resolve to its def")
	}

	if frag := doc.FragmentByName("BOX"); frag == nil {
		t.Error("FragmentByName(BOX) = nil")
	} else if frag.(*Sphere).Radius != 2.5 {
		t.Errorf("sphere radius = %v", frag.(*Sphere).Radius)
	}
}

func TestNameReferencesResolve(t *testing.T) {
	blob := tableBlob("", "TREE_SPRITE")
	raw := buildDocument(blob,
		&SimpleSpriteDef{Name: -1, Flags: 0},
		// A negative reference targets the fragment named at the
		// referenced string table offset.
		&SimpleSprite{Name: 0, Def: FragRef[*SimpleSpriteDef](-1), Flags: 0x50},
	)
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	inst := doc.At(1).(*SimpleSprite)
	def, ok := Resolve(doc, inst.Def)
	if !ok {
		t.Fatal("name reference did not resolve")
	}
	if doc.Name(def) != "TREE_SPRITE" {
		t.Errorf("resolved fragment named %q", doc.Name(def))
	}
}

func TestResolveSoftFails(t *testing.T) {
	blob := tableBlob("", "TREE_SPRITE")
	raw := buildDocument(blob,
		&SimpleSpriteDef{Name: -1, Flags: 0},
	)
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Out of range.
	if _, ok := Resolve(doc, FragRef[*SimpleSpriteDef](99)); ok {
		t.Error("out-of-range index resolved")
	}
	// Wrong concrete type.
	if _, ok := Resolve(doc, FragRef[*Sphere](1)); ok {
		t.Error("type-mismatched reference resolved")
	}
	// Name with no fragment.
	if _, ok := Resolve(doc, FragRef[*SimpleSpriteDef](-5)); ok {
		t.Error("unmatched name reference resolved")
	}
	// Zero reference.
	if _, ok := Resolve(doc, FragRef[*SimpleSpriteDef](0)); ok {
		t.Error("zero reference resolved")
	}
}

func TestUnknownFragmentPassesThrough(t *testing.T) {
	// 0x08 (CAMERA) has no decoder; its payload must survive intact.
	payload := []byte{
		0xff, 0xff, 0xff, 0xff,
		0xde, 0xad, 0xbe, 0xef,
		0x01, 0x02, 0x03, 0x04,
	}
	raw := buildDocument(tableBlob(""), &Raw{Type: -1, Code: 0x08, Data: payload})

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	frag, ok := doc.At(0).(*Raw)
	if !ok {
		t.Fatalf("fragment is %T, want *Raw", doc.At(0))
	}
	if frag.Code != 0x08 {
		t.Errorf("code = %#x", frag.Code)
	}
	if !bytes.Equal(frag.Data, payload) {
		t.Error("payload not preserved")
	}
	if !bytes.Equal(doc.ToBytes(), raw) {
		t.Error("unknown fragment does not round-trip")
	}
	if TypeName(0x08) != "UNKNOWN_0x08" {
		t.Errorf("TypeName = %q", TypeName(0x08))
	}
}

func TestMalformedFragmentError(t *testing.T) {
	// A SPHERE record whose payload is too short for its layout fails
	// with positional context.
	bad := buildDocument(tableBlob(""), &Raw{Code: TypeSphere, Data: []byte{0, 0, 0, 0}})

	_, err := Parse(bad)
	var fragErr *FragmentError
	if !errors.As(err, &fragErr) {
		t.Fatalf("err = %v, want *FragmentError", err)
	}
	if fragErr.Index != 0 || fragErr.Code != TypeSphere {
		t.Errorf("error context = %+v", fragErr)
	}
}

func TestTrailerPreserved(t *testing.T) {
	raw := buildDocument(tableBlob(""))
	// Replace the standard trailer with something longer.
	raw = append(raw, 0xab, 0xcd)
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !bytes.Equal(doc.ToBytes(), raw) {
		t.Error("nonstandard trailer not preserved")
	}
}
