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

package maxp

import "testing"

func TestRewriteOverwritesNumGlyphs(t *testing.T) {
	src := []byte{0x00, 0x00, 0x50, 0x00, 0x00, 0x0A} // version 0.5, numGlyphs=10
	out, err := Rewrite(src, 3)
	if err != nil {
		t.Fatal(err)
	}
	if NumGlyphs(out) != 3 {
		t.Fatalf("numGlyphs = %d, want 3", NumGlyphs(out))
	}
	if Version(out) != 0x00005000 {
		t.Fatalf("version mutated: %#x", Version(out))
	}
}

func TestRewritePreservesV1Tail(t *testing.T) {
	src := make([]byte, 32)
	src[0], src[1], src[2], src[3] = 0x00, 0x01, 0x00, 0x00 // version 1.0
	src[4], src[5] = 0x00, 0x05                             // numGlyphs = 5
	for i := 6; i < len(src); i++ {
		src[i] = byte(i)
	}
	out, err := Rewrite(src, 2)
	if err != nil {
		t.Fatal(err)
	}
	if NumGlyphs(out) != 2 {
		t.Fatalf("numGlyphs = %d, want 2", NumGlyphs(out))
	}
	for i := 6; i < len(src); i++ {
		if out[i] != src[i] {
			t.Fatalf("v1 tail byte %d mutated: got %#x want %#x", i, out[i], src[i])
		}
	}
}

func TestRewriteShortTable(t *testing.T) {
	_, err := Rewrite([]byte{0, 1}, 1)
	if err == nil {
		t.Fatal("expected error for short maxp table")
	}
}
