// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

import "encoding/binary"

// SpriteFlags gates the optional fields of a [SimpleSpriteDef].
type SpriteFlags uint32

const (
	spriteSkipFrames      SpriteFlags = 0x02
	spriteAnimated        SpriteFlags = 0x08
	spriteHasSleep        SpriteFlags = 0x10
	spriteHasCurrentFrame SpriteFlags = 0x20
)

func (f SpriteFlags) SkipFrames() bool      { return f&spriteSkipFrames != 0 }
func (f SpriteFlags) IsAnimated() bool      { return f&spriteAnimated != 0 }
func (f SpriteFlags) HasSleep() bool        { return f&spriteHasSleep != 0 }
func (f SpriteFlags) HasCurrentFrame() bool { return f&spriteHasCurrentFrame != 0 }

// SimpleSpriteDef (0x04) is a texture: one bitmap reference for a
// static texture, several plus a sleep interval for an animated one.
type SimpleSpriteDef struct {
	Name  StringRef
	Flags SpriteFlags

	// CurrentFrame is present when HasCurrentFrame is set.
	CurrentFrame *uint32

	// Sleep is the per-frame delay in milliseconds. The field is only
	// present when both IsAnimated and HasSleep are set; a HasSleep
	// flag on a non-animated sprite carries no field. Real zone files
	// contain such sprites, so the animated check is load-bearing.
	Sleep *uint32

	// Frames references the [BmInfo] fragment of each animation frame.
	Frames []FragRef[*BmInfo]
}

func (f *SimpleSpriteDef) TypeCode() uint32 { return TypeSimpleSpriteDef }

func (f *SimpleSpriteDef) NameRef() StringRef { return f.Name }

func (f *SimpleSpriteDef) appendTo(dst []byte) []byte {
	dst = appendStringRef(dst, f.Name)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(f.Flags))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.Frames)))
	dst = appendUint32If(dst, f.CurrentFrame)
	dst = appendUint32If(dst, f.Sleep)
	for _, ref := range f.Frames {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(ref)))
	}
	return dst
}

func parseSimpleSpriteDef(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &SimpleSpriteDef{Name: r.stringRef()}
	frag.Flags = SpriteFlags(r.uint32())
	frameCount := r.uint32()
	frag.CurrentFrame = r.uint32If(frag.Flags.HasCurrentFrame())
	frag.Sleep = r.uint32If(frag.Flags.IsAnimated() && frag.Flags.HasSleep())
	for i := uint32(0); i < frameCount && r.err == nil; i++ {
		frag.Frames = append(frag.Frames, FragRef[*BmInfo](r.int32()))
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}

// SimpleSprite (0x05) instantiates a [SimpleSpriteDef] so that meshes
// can reference the texture indirectly.
type SimpleSprite struct {
	Name StringRef
	Def  FragRef[*SimpleSpriteDef]

	// Flags is unexamined by the client as far as anyone knows; it
	// almost always holds 0x50.
	Flags uint32
}

func (f *SimpleSprite) TypeCode() uint32 { return TypeSimpleSprite }

func (f *SimpleSprite) NameRef() StringRef { return f.Name }

func (f *SimpleSprite) appendTo(dst []byte) []byte {
	dst = appendStringRef(dst, f.Name)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(f.Def)))
	return binary.LittleEndian.AppendUint32(dst, f.Flags)
}

func parseSimpleSprite(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &SimpleSprite{
		Name:  r.stringRef(),
		Def:   FragRef[*SimpleSpriteDef](r.int32()),
		Flags: r.uint32(),
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}
