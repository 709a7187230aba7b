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

package cff2

import (
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
)

// Contour is one closed subpath of a glyph outline: a start point
// followed by its cubic segments in path order.
type Contour struct {
	Start fixed.Point26_6
	Segs  []CubicSegment
}

// CubicOutlineProvider is the extension of sfnt.OutlineProvider a caller
// implements to transcode a CFF2-outline font into a TrueType-only
// "glyf"/"loca" pair: rather than handing back
// already-flattened glyf bytes through OutlineProvider.Outline, it hands
// back the glyph's native cubic outline, keyed by new GID, and this
// package does the cubic-to-quadratic flattening and glyf encoding.
// Glyph-outline re-extraction itself (reading the CFF2 charstrings into
// this form) belongs to an external outline engine; this package only
// consumes the result.
type CubicOutlineProvider interface {
	CubicOutline(gid glyph.ID) (contours []Contour, ok bool)
}

// Transcode builds a "glyf"/"loca" pair for every new GID in gidRemap by
// querying provider for each glyph's cubic outline, flattening every
// contour to quadratic segments, and emitting a TrueType simple-glyph
// record. It returns UnimplementedError for any retained glyph the
// provider has no outline for, since there is no CFF2 fallback once the
// font is being transcoded away from CFF2 entirely.
func Transcode(gidRemap *remap.Remapper[glyph.ID], provider CubicOutlineProvider) (glyfData []byte, offsets []uint32, longLoca bool, err error) {
	n := gidRemap.Len()
	glyphs := make([][]byte, n)
	for newGID := 0; newGID < n; newGID++ {
		contours, ok := provider.CubicOutline(glyph.ID(newGID))
		if !ok {
			return nil, nil, false, &sfnt.UnimplementedError{
				Feature: "cff2: transcoding outline provider has no data for a retained glyph",
			}
		}
		glyphs[newGID] = encodeSimpleGlyph(contours)
	}

	sumEven := 0
	for _, g := range glyphs {
		sumEven += len(g) + len(g)%2
	}
	longLoca = sumEven > 2*0xFFFF

	offsets = make([]uint32, n+1)
	buf := make([]byte, 0, sumEven)
	cur := uint32(0)
	for i, g := range glyphs {
		buf = append(buf, g...)
		m := len(g)
		if !longLoca && m%2 != 0 {
			buf = append(buf, 0)
			m++
		}
		cur += uint32(m)
		offsets[i+1] = cur
	}
	return buf, offsets, longLoca, nil
}

// encodeSimpleGlyph lays out a TrueType simple-glyph record for the given
// contours, each point's x/y coordinates written as explicit signed
// 16-bit deltas (no short-vector or repeat-flag compression): the corpus
// has no minimal-encoding requirement, and explicit deltas are trivial to
// verify byte-for-byte.
func encodeSimpleGlyph(contours []Contour) []byte {
	if len(contours) == 0 {
		return nil
	}

	type point struct {
		x, y    int
		onCurve bool
	}
	var points []point
	var endPts []uint16
	minX, minY, maxX, maxY := 0, 0, 0, 0
	first := true
	addPoint := func(x, y int, onCurve bool) {
		points = append(points, point{x, y, onCurve})
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
		} else {
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	for _, c := range contours {
		sx, sy := unitsFromFixed(c.Start.X), unitsFromFixed(c.Start.Y)
		addPoint(sx, sy, true)
		cur := c.Start
		for _, seg := range c.Segs {
			q := FlattenCubic(cur, seg)
			addPoint(unitsFromFixed(q.Ctrl.X), unitsFromFixed(q.Ctrl.Y), false)
			addPoint(unitsFromFixed(q.End.X), unitsFromFixed(q.End.Y), true)
			cur = seg.End
		}
		endPts = append(endPts, uint16(len(points)-1))
	}

	out := make([]byte, 10)
	putI16(out[0:], int16(len(contours)))
	putI16(out[2:], int16(minX))
	putI16(out[4:], int16(minY))
	putI16(out[6:], int16(maxX))
	putI16(out[8:], int16(maxY))

	for _, e := range endPts {
		out = append(out, byte(e>>8), byte(e))
	}
	out = append(out, 0, 0) // instructionLength = 0, no instructions

	for _, p := range points {
		flag := byte(0)
		if p.onCurve {
			flag = 1
		}
		out = append(out, flag)
	}

	prevX := 0
	for _, p := range points {
		dx := int16(p.x - prevX)
		out = append(out, byte(dx>>8), byte(dx))
		prevX = p.x
	}
	prevY := 0
	for _, p := range points {
		dy := int16(p.y - prevY)
		out = append(out, byte(dy>>8), byte(dy))
		prevY = p.y
	}
	return out
}

func putI16(b []byte, v int16) {
	b[0], b[1] = byte(uint16(v)>>8), byte(uint16(v))
}

// unitsFromFixed rounds a 26.6 fixed-point coordinate to the nearest
// whole font design unit.
func unitsFromFixed(v fixed.Int26_6) int {
	iv := int64(v)
	if iv >= 0 {
		return int((iv + 32) >> 6)
	}
	return -int((-iv + 32) >> 6)
}
