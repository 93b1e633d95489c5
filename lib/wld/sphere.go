// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

// Sphere (0x16) is a bounding sphere, referenced by placeable object
// definitions for culling and collision.
type Sphere struct {
	Name   StringRef
	Radius float32
}

func (f *Sphere) TypeCode() uint32 { return TypeSphere }

func (f *Sphere) NameRef() StringRef { return f.Name }

func (f *Sphere) appendTo(dst []byte) []byte {
	dst = appendStringRef(dst, f.Name)
	return appendFloat32(dst, f.Radius)
}

func parseSphere(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &Sphere{Name: r.stringRef(), Radius: r.float32()}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}
