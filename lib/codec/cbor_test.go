// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

// sampleRecord mirrors the shape of a dump fragment record.
type sampleRecord struct {
	Index int    `cbor:"index"`
	Code  uint32 `cbor:"code"`
	Type  string `cbor:"type"`
	Name  string `cbor:"name,omitempty"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	original := sampleRecord{
		Index: 3,
		Code:  0x16,
		Type:  "SPHERE",
		Name:  "GFAYDARK_BOUNDS",
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	// Map iteration order must not leak into the encoding.
	value := map[string]any{
		"strings":   map[int32]string{12: "A", 1: "B", 7: "C"},
		"fragments": []int{3, 1, 2},
		"version":   0x15500,
	}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 16; i++ {
		next, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, next) {
			t.Fatal("repeated Marshal produced different bytes")
		}
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]int{"count": 4})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Errorf("decoded as %T, want map[string]any", decoded)
	}
}
