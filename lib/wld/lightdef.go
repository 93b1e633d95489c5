// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import "encoding/binary"

// LightFlags gates the optional fields of a [LightDef].
type LightFlags uint32

const (
	lightHasCurrentFrame LightFlags = 0x01
	lightHasSleep        LightFlags = 0x02
	lightHasLevels       LightFlags = 0x04
	lightSkipFrames      LightFlags = 0x08
	lightHasColor        LightFlags = 0x10
)

func (f LightFlags) HasCurrentFrame() bool { return f&lightHasCurrentFrame != 0 }
func (f LightFlags) HasSleep() bool        { return f&lightHasSleep != 0 }
func (f LightFlags) HasLevels() bool       { return f&lightHasLevels != 0 }
func (f LightFlags) SkipFrames() bool      { return f&lightSkipFrames != 0 }
func (f LightFlags) HasColor() bool        { return f&lightHasColor != 0 }

// RGB is a color with components scaled 0 to 1.
type RGB struct {
	R, G, B float32
}

// LightDef (0x1b) is a light source definition. Plain white lights
// carry only intensity levels; colored lights carry one RGB triple
// per frame.
type LightDef struct {
	Name  StringRef
	Flags LightFlags

	// FrameCount sizes LightLevels and Colors when present. It is
	// stored even when both arrays are absent.
	FrameCount uint32

	CurrentFrame *uint32
	Sleep        *uint32

	// LightLevels holds FrameCount intensities when HasLevels is set.
	LightLevels []float32

	// Colors holds FrameCount RGB triples when HasColor is set.
	Colors []RGB
}

func (f *LightDef) TypeCode() uint32 { return TypeLightDef }

func (f *LightDef) NameRef() StringRef { return f.Name }

func (f *LightDef) appendTo(dst []byte) []byte {
	dst = appendStringRef(dst, f.Name)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(f.Flags))
	dst = binary.LittleEndian.AppendUint32(dst, f.FrameCount)
	dst = appendUint32If(dst, f.CurrentFrame)
	dst = appendUint32If(dst, f.Sleep)
	for _, level := range f.LightLevels {
		dst = appendFloat32(dst, level)
	}
	for _, c := range f.Colors {
		dst = appendFloat32(dst, c.R)
		dst = appendFloat32(dst, c.G)
		dst = appendFloat32(dst, c.B)
	}
	return dst
}

func parseLightDef(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &LightDef{Name: r.stringRef()}
	frag.Flags = LightFlags(r.uint32())
	frag.FrameCount = r.uint32()
	frag.CurrentFrame = r.uint32If(frag.Flags.HasCurrentFrame())
	frag.Sleep = r.uint32If(frag.Flags.HasSleep())
	if frag.Flags.HasLevels() {
		for i := uint32(0); i < frag.FrameCount && r.err == nil; i++ {
			frag.LightLevels = append(frag.LightLevels, r.float32())
		}
	}
	if frag.Flags.HasColor() {
		for i := uint32(0); i < frag.FrameCount && r.err == nil; i++ {
			frag.Colors = append(frag.Colors, RGB{r.float32(), r.float32(), r.float32()})
		}
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}
