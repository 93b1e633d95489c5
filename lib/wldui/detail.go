// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wldui

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eqforge/eqforge/lib/wld"
)

// renderDetail renders the decoded view of one fragment. Recognized
// types get a field-by-field rendering; Raw fragments get a hex dump
// of their payload.
func renderDetail(doc *wld.Document, index int, frag wld.Fragment, theme Theme) string {
	header := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	ref := lipgloss.NewStyle().Foreground(theme.RefAccent)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", header.Render(fmt.Sprintf("#%d %s", index+1, wld.TypeName(frag.TypeCode()))))
	name := doc.Name(frag)
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "%s %s\n", label.Render("name:"), name)
	fmt.Fprintf(&b, "%s %d bytes\n\n", label.Render("payload:"), len(wld.Payload(frag)))

	field := func(key string, format string, args ...any) {
		fmt.Fprintf(&b, "%s %s\n", label.Render(key+":"), fmt.Sprintf(format, args...))
	}
	fragRef := func(key string, raw int32, target wld.Fragment, ok bool) {
		value := fmt.Sprintf("%d", raw)
		if ok {
			value = ref.Render(fmt.Sprintf("%d → %s %s", raw,
				wld.TypeName(target.TypeCode()), doc.Name(target)))
		} else if raw != 0 {
			value += " (unresolved)"
		}
		fmt.Fprintf(&b, "%s %s\n", label.Render(key+":"), value)
	}

	switch frag := frag.(type) {
	case *wld.BmInfo:
		field("entries", "%d", len(frag.Entries))
		for _, entry := range frag.Entries {
			fmt.Fprintf(&b, "  %s\n", entry.Name)
		}

	case *wld.SimpleSpriteDef:
		field("flags", "%#x (animated=%t sleep=%t)", uint32(frag.Flags),
			frag.Flags.IsAnimated(), frag.Flags.HasSleep())
		if frag.CurrentFrame != nil {
			field("current frame", "%d", *frag.CurrentFrame)
		}
		if frag.Sleep != nil {
			field("sleep", "%d ms", *frag.Sleep)
		}
		for _, frame := range frag.Frames {
			target, ok := wld.Resolve(doc, frame)
			fragRef("frame", int32(frame), asFragment(target), ok)
		}

	case *wld.SimpleSprite:
		target, ok := wld.Resolve(doc, frag.Def)
		fragRef("sprite", int32(frag.Def), asFragment(target), ok)
		field("flags", "%#x", frag.Flags)

	case *wld.TrackDef:
		field("flags", "%#x", frag.Flags)
		field("frames", "%d", frag.FrameCount())
		for _, t := range frag.Transforms {
			fmt.Fprintf(&b, "  rot %d/(%d %d %d)  shift (%d %d %d)/%d\n",
				t.RotateDenominator, t.RotateX, t.RotateY, t.RotateZ,
				t.ShiftX, t.ShiftY, t.ShiftZ, t.ShiftDenominator)
		}
		for _, t := range frag.LegacyTransforms {
			fmt.Fprintf(&b, "  quat (%g %g %g %g)  shift (%g %g %g)/%g\n",
				t.RotateW, t.RotateX, t.RotateY, t.RotateZ,
				t.ShiftX, t.ShiftY, t.ShiftZ, t.ShiftDenominator)
		}

	case *wld.Track:
		target, ok := wld.Resolve(doc, frag.Def)
		fragRef("track", int32(frag.Def), asFragment(target), ok)
		field("flags", "%#x", frag.Flags)
		if frag.Params != nil {
			field("interval", "%d ms", *frag.Params)
		}

	case *wld.Sphere:
		field("radius", "%g", frag.Radius)

	case *wld.LightDef:
		field("flags", "%#x", uint32(frag.Flags))
		field("frames", "%d", frag.FrameCount)
		if frag.CurrentFrame != nil {
			field("current frame", "%d", *frag.CurrentFrame)
		}
		if frag.Sleep != nil {
			field("sleep", "%d ms", *frag.Sleep)
		}
		if frag.LightLevels != nil {
			field("levels", "%v", frag.LightLevels)
		}
		for _, c := range frag.Colors {
			fmt.Fprintf(&b, "  rgb(%.3f %.3f %.3f)\n", c.R, c.G, c.B)
		}

	case *wld.First:
		field("name reference", "%#x", uint32(int32(frag.Name)))

	case *wld.Raw:
		b.WriteString(hexDump(frag.Data))
	}

	return b.String()
}

// asFragment converts a typed Resolve result to the interface,
// mapping a typed nil to an untyped nil.
func asFragment[T wld.Fragment](frag T) wld.Fragment {
	var zero T
	if any(frag) == any(zero) {
		return nil
	}
	return frag
}

// hexDump renders data in 16-byte rows with an ASCII gutter, capped
// so huge opaque fragments stay scrollable.
func hexDump(data []byte) string {
	const maxRows = 256
	var b strings.Builder
	for row := 0; row < maxRows && row*16 < len(data); row++ {
		chunk := data[row*16:min((row+1)*16, len(data))]
		ascii := make([]byte, len(chunk))
		for i, c := range chunk {
			if c >= 0x20 && c < 0x7f {
				ascii[i] = c
			} else {
				ascii[i] = '.'
			}
		}
		fmt.Fprintf(&b, "%06x  %-48s %s\n", row*16, hex.EncodeToString(chunk), ascii)
	}
	if len(data) > maxRows*16 {
		fmt.Fprintf(&b, "… %d more bytes\n", len(data)-maxRows*16)
	}
	return b.String()
}
