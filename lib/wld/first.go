// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wld

// First (0x35) leads every post-classic document. Its only content is
// a name reference, which always holds 0xff000000.
type First struct {
	Name StringRef
}

func (f *First) TypeCode() uint32 { return TypeFirst }

func (f *First) NameRef() StringRef { return f.Name }

func (f *First) appendTo(dst []byte) []byte {
	return appendStringRef(dst, f.Name)
}

func parseFirst(data []byte) (Fragment, error) {
	r := newReader(data)
	frag := &First{Name: r.stringRef()}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return frag, nil
}
