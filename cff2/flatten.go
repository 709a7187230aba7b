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

import "golang.org/x/image/math/fixed"

// CubicSegment is one cubic Bezier curve segment of a glyph outline, as
// handed to this package by an external outline-extraction pipeline.
// The segment's start point is implicit (the path's current point);
// C1 and C2 are the cubic's control points and End is its end point,
// all in font design units expressed as 26.6 fixed point.
type CubicSegment struct {
	C1, C2, End fixed.Point26_6
}

// QuadSegment is one quadratic Bezier curve segment, the only curve kind
// a TrueType glyf outline can encode.
type QuadSegment struct {
	Ctrl, End fixed.Point26_6
}

// FlattenCubic reduces a single cubic segment to one quadratic segment.
// It is not an adaptive subdivision: the transcoding pipeline needs a
// fixed, predictable point count per segment, not a minimal flattening
// error. The quadratic control point is the standard degree-reduction
// midpoint of the two cubic handles' endpoint projections:
//
//	Q = (3*(C1+C2) - P0 - P3) / 4
//
// which is exact when the cubic is already a quadratic in cubic form
// (C1, C2 colinear with Q) and a reasonable single-point approximation
// otherwise.
func FlattenCubic(p0 fixed.Point26_6, seg CubicSegment) QuadSegment {
	qx := (3*(int64(seg.C1.X)+int64(seg.C2.X)) - int64(p0.X) - int64(seg.End.X)) / 4
	qy := (3*(int64(seg.C1.Y)+int64(seg.C2.Y)) - int64(p0.Y) - int64(seg.End.Y)) / 4
	return QuadSegment{
		Ctrl: fixed.Point26_6{X: fixed.Int26_6(qx), Y: fixed.Int26_6(qy)},
		End:  seg.End,
	}
}

// FlattenContour converts one closed subpath, given its start point and
// its cubic segments in path order, into quadratic segments in the same
// order.
func FlattenContour(start fixed.Point26_6, segs []CubicSegment) []QuadSegment {
	out := make([]QuadSegment, len(segs))
	p0 := start
	for i, s := range segs {
		out[i] = FlattenCubic(p0, s)
		p0 = s.End
	}
	return out
}
