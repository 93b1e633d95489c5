// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader is a little-endian cursor over a fragment payload. Reads
// past the end set a sticky error and return zero values, so a parse
// function can decode a whole record unconditionally and check the
// error once. This mirrors how flag-gated layouts read: the branch
// structure stays linear and the bounds check lives in one place.
type reader struct {
	data []byte
	off  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

// take consumes n bytes, or fails the reader.
func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.err = fmt.Errorf("need %d bytes at offset %d, have %d", n, r.off, len(r.data)-r.off)
		return nil
	}
	out := r.data[r.off : r.off+n]
	r.off += n
	return out
}

func (r *reader) uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) int32() int32 {
	return int32(r.uint32())
}

func (r *reader) uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) int16() int16 {
	return int16(r.uint16())
}

func (r *reader) float32() float32 {
	return math.Float32frombits(r.uint32())
}

func (r *reader) stringRef() StringRef {
	return StringRef(r.int32())
}

// uint32If reads a flag-gated u32: present consumes 4 bytes, absent
// consumes nothing and yields nil. This is the generic shape for
// optional fields gated by a flags bit.
func (r *reader) uint32If(present bool) *uint32 {
	if !present {
		return nil
	}
	v := r.uint32()
	if r.err != nil {
		return nil
	}
	return &v
}

// float32If is uint32If for floats.
func (r *reader) float32If(present bool) *float32 {
	if !present {
		return nil
	}
	v := r.float32()
	if r.err != nil {
		return nil
	}
	return &v
}

// remaining returns the unconsumed byte count.
func (r *reader) remaining() int {
	return len(r.data) - r.off
}

// finish verifies the payload was consumed exactly, tolerating
// trailing zero bytes left by 4-byte alignment padding (fragment
// payloads are padded on write; a few layouts carry up to one extra
// word of it). Anything else is a malformed record.
func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.remaining() > 7 {
		return fmt.Errorf("%d bytes of payload left unconsumed", r.remaining())
	}
	for _, b := range r.data[r.off:] {
		if b != 0 {
			return fmt.Errorf("%d non-padding bytes of payload left unconsumed", r.remaining())
		}
	}
	return nil
}

// appendUint32If appends a flag-gated optional value: nil appends
// nothing, matching the absent-field-serializes-to-zero-bytes rule.
func appendUint32If(dst []byte, v *uint32) []byte {
	if v == nil {
		return dst
	}
	return binary.LittleEndian.AppendUint32(dst, *v)
}

func appendStringRef(dst []byte, ref StringRef) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(int32(ref)))
}

func appendFloat32(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

func appendFloat32If(dst []byte, v *float32) []byte {
	if v == nil {
		return dst
	}
	return appendFloat32(dst, *v)
}

func appendInt16(dst []byte, v int16) []byte {
	return binary.LittleEndian.AppendUint16(dst, uint16(v))
}

// align4 zero-pads data in place to a 4-byte boundary.
func align4(data []byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	return data
}
