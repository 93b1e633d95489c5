// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import "encoding/binary"

// trackFractional marks a [TrackDef] that stores its frames as
// fixed-point fractions instead of the older float layout.
const trackFractional uint32 = 0x08

// FrameTransform is one animation frame of a [TrackDef] in the
// fixed-point layout: signed numerators over a shared denominator,
// with rotation in quarter-turns. A zero denominator means the
// component should be ignored.
type FrameTransform struct {
	RotateDenominator int16
	RotateX           int16
	RotateY           int16
	RotateZ           int16
	ShiftX            int16
	ShiftY            int16
	ShiftZ            int16
	ShiftDenominator  int16
}

func parseFrameTransform(r *reader) FrameTransform {
	return FrameTransform{
		RotateDenominator: r.int16(),
		RotateX:           r.int16(),
		RotateY:           r.int16(),
		RotateZ:           r.int16(),
		ShiftX:            r.int16(),
		ShiftY:            r.int16(),
		ShiftZ:            r.int16(),
		ShiftDenominator:  r.int16(),
	}
}

func (t FrameTransform) appendTo(dst []byte) []byte {
	dst = appendInt16(dst, t.RotateDenominator)
	dst = appendInt16(dst, t.RotateX)
	dst = appendInt16(dst, t.RotateY)
	dst = appendInt16(dst, t.RotateZ)
	dst = appendInt16(dst, t.ShiftX)
	dst = appendInt16(dst, t.ShiftY)
	dst = appendInt16(dst, t.ShiftZ)
	return appendInt16(dst, t.ShiftDenominator)
}

// LegacyFrameTransform is the pre-fractional frame layout: a float
// shift fraction followed by a rotation quaternion. Note the on-disk
// order puts the denominator first and the quaternion w before x.
type LegacyFrameTransform struct {
	ShiftDenominator float32
	ShiftX           float32
	ShiftY           float32
	ShiftZ           float32
	RotateW          float32
	RotateX          float32
	RotateY          float32
	RotateZ          float32
}

func parseLegacyFrameTransform(r *reader) LegacyFrameTransform {
	return LegacyFrameTransform{
		ShiftDenominator: r.float32(),
		ShiftX:           r.float32(),
		ShiftY:           r.float32(),
		ShiftZ:           r.float32(),
		RotateW:          r.float32(),
		RotateX:          r.float32(),
		RotateY:          r.float32(),
		RotateZ:          r.float32(),
	}
}

func (t LegacyFrameTransform) appendTo(dst []byte) []byte {
	dst = appendFloat32(dst, t.ShiftDenominator)
	dst = appendFloat32(dst, t.ShiftX)
	dst = appendFloat32(dst, t.ShiftY)
	dst = appendFloat32(dst, t.ShiftZ)
	dst = appendFloat32(dst, t.RotateW)
	dst = appendFloat32(dst, t.RotateX)
	dst = appendFloat32(dst, t.RotateY)
	return appendFloat32(dst, t.RotateZ)
}

// TrackDef (0x12) holds the per-frame transform of one skeleton piece
// relative to its parent. Exactly one of Transforms and
// LegacyTransforms is non-nil, selected by bit 3 of Flags.
type TrackDef struct {
	Name  StringRef
	Flags uint32

	Transforms       []FrameTransform
	LegacyTransforms []LegacyFrameTransform
}

func (f *TrackDef) TypeCode() uint32 { return TypeTrackDef }

func (f *TrackDef) NameRef() StringRef { return f.Name }

// FrameCount returns the number of animation frames regardless of
// layout.
func (f *TrackDef) FrameCount() int {
	if f.Flags&trackFractional != 0 {
		return len(f.Transforms)
	}
	return len(f.LegacyTransforms)
}

func (f *TrackDef) appendTo(dst []byte) []byte {
	dst = appendStringRef(dst, f.Name)
	dst = binary.LittleEndian.AppendUint32(dst, f.Flags)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(f.FrameCount()))
	for _, t := range f.Transforms {
		dst = t.appendTo(dst)
	}
	for _, t := range f.LegacyTransforms {
		dst = t.appendTo(dst)
	}
	return dst
}

func parseTrackDef(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &TrackDef{Name: r.stringRef()}
	frag.Flags = r.uint32()
	frameCount := r.uint32()
	if frag.Flags&trackFractional != 0 {
		for i := uint32(0); i < frameCount && r.err == nil; i++ {
			frag.Transforms = append(frag.Transforms, parseFrameTransform(r))
		}
	} else {
		for i := uint32(0); i < frameCount && r.err == nil; i++ {
			frag.LegacyTransforms = append(frag.LegacyTransforms, parseLegacyFrameTransform(r))
		}
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}

// Track (0x13) attaches a [TrackDef] to a skeleton and carries its
// playback parameters. Bit 0 of Flags gates Params.
type Track struct {
	Name  StringRef
	Def   FragRef[*TrackDef]
	Flags uint32

	// Params is usually the frame interval in milliseconds.
	Params *uint32
}

func (f *Track) TypeCode() uint32 { return TypeTrack }

func (f *Track) NameRef() StringRef { return f.Name }

func (f *Track) appendTo(dst []byte) []byte {
	dst = appendStringRef(dst, f.Name)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(f.Def)))
	dst = binary.LittleEndian.AppendUint32(dst, f.Flags)
	return appendUint32If(dst, f.Params)
}

func parseTrack(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &Track{
		Name: r.stringRef(),
		Def:  FragRef[*TrackDef](r.int32()),
	}
	frag.Flags = r.uint32()
	frag.Params = r.uint32If(frag.Flags&0x01 != 0)
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}
