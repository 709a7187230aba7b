// seehuhn.de/go/sfntsubset - a library for subsetting OpenType fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package glyf implements TrueType composite-glyph closure and the
// glyf/loca rewriter.
package glyf

import (
	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/internal/gidset"
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
)

const (
	flagArgsAreWords     = 0x0001
	flagHaveScale        = 0x0008
	flagMoreComponents   = 0x0020
	flagHaveXYScale      = 0x0040
	flagHaveTwoByTwo     = 0x0080
)

// DecodeLoca reads numGlyphs+1 loca offsets, either "short" (stored as
// offset/2, uint16) or "long" (stored directly, uint32).
func DecodeLoca(locaData []byte, numGlyphs int, longFormat bool) ([]uint32, error) {
	n := numGlyphs + 1
	if longFormat {
		need := 4 * n
		if len(locaData) < need {
			return nil, &sfnt.MissingDataError{Need: need, Have: len(locaData)}
		}
		out := make([]uint32, n)
		for i := range out {
			p := 4 * i
			out[i] = uint32(locaData[p])<<24 | uint32(locaData[p+1])<<16 | uint32(locaData[p+2])<<8 | uint32(locaData[p+3])
		}
		return out, nil
	}
	need := 2 * n
	if len(locaData) < need {
		return nil, &sfnt.MissingDataError{Need: need, Have: len(locaData)}
	}
	out := make([]uint32, n)
	for i := range out {
		p := 2 * i
		out[i] = (uint32(locaData[p])<<8 | uint32(locaData[p+1])) * 2
	}
	return out, nil
}

// EncodeLoca writes a loca table for the given cumulative byte offsets.
func EncodeLoca(offsets []uint32, longFormat bool) []byte {
	if longFormat {
		out := make([]byte, 4*len(offsets))
		for i, o := range offsets {
			p := 4 * i
			out[p], out[p+1], out[p+2], out[p+3] = byte(o>>24), byte(o>>16), byte(o>>8), byte(o)
		}
		return out
	}
	out := make([]byte, 2*len(offsets))
	for i, o := range offsets {
		p := 2 * i
		half := uint16(o / 2)
		out[p], out[p+1] = byte(half>>8), byte(half)
	}
	return out
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

// Closure expands gids to include every component transitively referenced
// by a composite glyph already in the set. Cycles are harmless: Set.Add
// only enqueues a GID the first time it is seen, and Closure's loop bound
// is re-read every iteration via gids.Len(), so it terminates once no new
// member was added in a full pass over the (possibly still-growing) list.
func Closure(glyfData []byte, loca []uint32, gids *gidset.Set) error {
	for i := 0; i < gids.Len(); i++ {
		gid := gids.At(i)
		if int(gid)+1 >= len(loca) {
			continue
		}
		start, end := loca[gid], loca[gid+1]
		if end < start {
			return &sfnt.MalformedFontError{Reason: "glyf: loca offsets out of order"}
		}
		if end == start {
			continue // empty glyph
		}
		data := glyfData[start:end]
		if len(data) < 10 {
			return &sfnt.MalformedFontError{Reason: "glyf: truncated glyph header"}
		}
		numContours := int16(be16(data))
		if numContours >= 0 {
			continue // simple glyph, no component references
		}

		pos := 10
		for {
			if pos+4 > len(data) {
				return &sfnt.MalformedFontError{Reason: "glyf: truncated component record"}
			}
			flags := be16(data[pos:])
			componentGID := glyph.ID(be16(data[pos+2:]))
			gids.Add(componentGID)
			pos += 4

			if flags&flagArgsAreWords != 0 {
				pos += 4
			} else {
				pos += 2
			}
			switch {
			case flags&flagHaveTwoByTwo != 0:
				pos += 8
			case flags&flagHaveXYScale != 0:
				pos += 4
			case flags&flagHaveScale != 0:
				pos += 2
			}

			if flags&flagMoreComponents == 0 {
				break
			}
		}
	}
	return nil
}

// Rewrite re-encodes every retained glyph in new-GID order: simple glyphs
// are copied byte for byte, composite glyphs have each component's
// glyphIndex rewritten through remapper with every other byte preserved
// verbatim. It also decides the loca offset format (short if the total,
// 2-byte-aligned payload fits in 2*(2^16-1) bytes, long otherwise) and
// returns the cumulative byte offsets alongside the concatenated glyph
// data.
func Rewrite(glyfData []byte, loca []uint32, remapper *remap.Remapper[glyph.ID]) (newGlyf []byte, offsets []uint32, longLoca bool, err error) {
	return RewriteWithOverride(glyfData, loca, remapper, nil)
}

// RewriteWithOverride behaves like Rewrite, except that for each new GID
// where override is non-nil and returns ok=true, its bytes are used
// verbatim as that glyph's final record instead of re-encoding the
// source glyph. This is how an sfnt.OutlineProvider substitutes
// externally supplied TrueType-compatible outline data, e.g. when
// instancing a variable font: the override always wins outright (it is
// never itself remapped, since it is expected to already reference new
// GIDs if it is composite).
func RewriteWithOverride(glyfData []byte, loca []uint32, remapper *remap.Remapper[glyph.ID], override func(newGID glyph.ID) ([]byte, bool)) (newGlyf []byte, offsets []uint32, longLoca bool, err error) {
	ordered := remapper.Ordered()
	rawGlyphs := make([][]byte, len(ordered))

	for i, oldGID := range ordered {
		if override != nil {
			if data, ok := override(glyph.ID(i)); ok {
				rawGlyphs[i] = data
				continue
			}
		}
		if int(oldGID)+1 >= len(loca) {
			return nil, nil, false, &sfnt.SubsetError{Reason: "glyf: retained GID out of loca range"}
		}
		start, end := loca[oldGID], loca[oldGID+1]
		if end < start {
			return nil, nil, false, &sfnt.MalformedFontError{Reason: "glyf: loca offsets out of order"}
		}
		if end == start {
			continue
		}
		data := glyfData[start:end]
		if len(data) < 10 {
			return nil, nil, false, &sfnt.MalformedFontError{Reason: "glyf: truncated glyph header"}
		}
		numContours := int16(be16(data))
		if numContours >= 0 {
			rawGlyphs[i] = append([]byte(nil), data...)
			continue
		}

		out := append([]byte(nil), data[:10]...)
		pos := 10
		for {
			if pos+4 > len(data) {
				return nil, nil, false, &sfnt.MalformedFontError{Reason: "glyf: truncated component record"}
			}
			flags := be16(data[pos:])
			oldComponent := glyph.ID(be16(data[pos+2:]))
			newComponent, ok := remapper.Get(oldComponent)
			if !ok {
				return nil, nil, false, &sfnt.SubsetError{Reason: "glyf: component not in remapper"}
			}
			out = append(out, byte(flags>>8), byte(flags), byte(newComponent>>8), byte(newComponent))
			pos += 4

			argLen := 2
			if flags&flagArgsAreWords != 0 {
				argLen = 4
			}
			if pos+argLen > len(data) {
				return nil, nil, false, &sfnt.MalformedFontError{Reason: "glyf: truncated component args"}
			}
			out = append(out, data[pos:pos+argLen]...)
			pos += argLen

			scaleLen := 0
			switch {
			case flags&flagHaveTwoByTwo != 0:
				scaleLen = 8
			case flags&flagHaveXYScale != 0:
				scaleLen = 4
			case flags&flagHaveScale != 0:
				scaleLen = 2
			}
			if scaleLen > 0 {
				if pos+scaleLen > len(data) {
					return nil, nil, false, &sfnt.MalformedFontError{Reason: "glyf: truncated component scale"}
				}
				out = append(out, data[pos:pos+scaleLen]...)
				pos += scaleLen
			}

			if flags&flagMoreComponents == 0 {
				break
			}
		}
		// trailing instructionLength + instructions (and, for malformed
		// fonts, any stray bytes) are copied verbatim.
		out = append(out, data[pos:]...)
		rawGlyphs[i] = out
	}

	sumEven := 0
	for _, g := range rawGlyphs {
		sumEven += align2(len(g))
	}
	longLoca = sumEven > 2*0xFFFF

	offsets = make([]uint32, len(rawGlyphs)+1)
	buf := make([]byte, 0, sumEven)
	cur := uint32(0)
	for i, g := range rawGlyphs {
		buf = append(buf, g...)
		n := len(g)
		if !longLoca && n%2 != 0 {
			buf = append(buf, 0)
			n++
		}
		cur += uint32(n)
		offsets[i+1] = cur
	}
	return buf, offsets, longLoca, nil
}

func align2(n int) int {
	return n + n%2
}
