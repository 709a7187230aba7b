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
	"testing"

	"golang.org/x/image/math/fixed"
)

func pt(x, y int) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x << 6), Y: fixed.Int26_6(y << 6)}
}

func TestFlattenCubicDegenerateToQuadratic(t *testing.T) {
	// a cubic whose control points already lie on the straight line
	// through p0/p3 reduces to a quadratic with the same end point and a
	// control point on that same line.
	p0 := pt(0, 0)
	seg := CubicSegment{C1: pt(10, 0), C2: pt(20, 0), End: pt(30, 0)}
	q := FlattenCubic(p0, seg)
	if q.End != seg.End {
		t.Fatalf("end point mismatch: got %v want %v", q.End, seg.End)
	}
	if q.Ctrl.Y != 0 {
		t.Fatalf("expected control point to stay on the x-axis, got y=%v", q.Ctrl.Y)
	}
}

func TestFlattenCubicSymmetricControlPoints(t *testing.T) {
	p0 := pt(0, 0)
	seg := CubicSegment{C1: pt(0, 10), C2: pt(10, 10), End: pt(10, 0)}
	q := FlattenCubic(p0, seg)
	// Q = (3*(C1+C2) - P0 - P3) / 4 = (3*(10,20) - (0,0) - (10,0)) / 4 = (20,60)/4 = (5,15)
	wantX := fixed.Int26_6(5 << 6)
	wantY := fixed.Int26_6(15 << 6)
	if q.Ctrl.X != wantX || q.Ctrl.Y != wantY {
		t.Fatalf("got ctrl %v, want (%v,%v)", q.Ctrl, wantX, wantY)
	}
}

func TestFlattenContourChainsStartPoints(t *testing.T) {
	start := pt(0, 0)
	segs := []CubicSegment{
		{C1: pt(1, 1), C2: pt(2, 1), End: pt(3, 0)},
		{C1: pt(4, -1), C2: pt(5, -1), End: pt(6, 0)},
	}
	out := FlattenContour(start, segs)
	if len(out) != 2 {
		t.Fatalf("expected 2 quad segments, got %d", len(out))
	}
	if out[0].End != segs[0].End || out[1].End != segs[1].End {
		t.Fatal("end points must carry through unchanged")
	}
}
