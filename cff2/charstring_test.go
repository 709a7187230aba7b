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

	"seehuhn.de/go/sfntsubset/remap"
)

func TestDiscoverFollowsGlobalSubrCalls(t *testing.T) {
	// one global subr, called via callgsubr(29); operand encodes
	// (0 - bias(1 global subr)) = -107 -> byte(139-107) = 32.
	globalSubrs := [][]byte{{11}} // return
	charstring := []byte{32, 29}

	seenGlobal := make(map[int]bool)
	seenLocal := make(map[int]bool)
	if err := discover(charstring, globalSubrs, nil, 0, seenGlobal, seenLocal); err != nil {
		t.Fatal(err)
	}
	if !seenGlobal[0] {
		t.Fatal("expected global subr 0 to be discovered")
	}
	if len(seenLocal) != 0 {
		t.Fatalf("expected no local subrs discovered, got %v", seenLocal)
	}
}

func TestDiscoverRejectsOutOfRangeSubr(t *testing.T) {
	// pushes operand 5 (global subr index 5+107 = 112) but there are none
	// defined.
	charstring := []byte{byte(5 + 139), 29}
	err := discover(charstring, nil, nil, 0, make(map[int]bool), make(map[int]bool))
	if err == nil {
		t.Fatal("expected an out-of-range global subroutine call to error")
	}
}

func TestDiscoverRejectsEmptyStackCall(t *testing.T) {
	charstring := []byte{29} // callgsubr with nothing pushed
	err := discover(charstring, [][]byte{{11}}, nil, 0, make(map[int]bool), make(map[int]bool))
	if err == nil {
		t.Fatal("expected callgsubr with an empty stack to error")
	}
}

func TestRewriteCallsRenumbersGlobalSubroutine(t *testing.T) {
	// two original global subrs; only index 1 survives subsetting.
	// oldBias = bias(2) = 107, so calling old index 1 is encoded as
	// operand (1-107) = -106 -> byte(139-106) = 33.
	charstring := []byte{33, 29}

	globalRemap := remap.New[int]()
	oldGlobalBias := bias(2)
	globalRemap.Remap(1) // absolute old subr array index (bias is added/removed around encoding, not part of the key)

	localRemap := remap.New[int]()

	out, err := rewriteCalls(charstring, globalRemap, localRemap, oldGlobalBias, bias(0), bias(globalRemap.Len()), bias(localRemap.Len()))
	if err != nil {
		t.Fatal(err)
	}
	// newBias = bias(1) = 107, new index 0 -> operand (0-107) = -107 -> byte 32.
	want := []byte{32, 29}
	if string(out) != string(want) {
		t.Fatalf("got % x, want % x", out, want)
	}
}

func TestRewriteCallsErrorsOnUnmappedSubroutine(t *testing.T) {
	charstring := []byte{139, 29} // operand value 0, i.e. global subr absolute index 0+107 = 107
	globalRemap := remap.New[int]()
	localRemap := remap.New[int]()
	_, err := rewriteCalls(charstring, globalRemap, localRemap, bias(1), bias(0), bias(0), bias(0))
	if err == nil {
		t.Fatal("expected an error for a subroutine absent from the remapper")
	}
}

func TestRewriteCallsPreservesNonCallBytes(t *testing.T) {
	// a couple of operand-pushing bytes with no subroutine calls at all
	// must pass through unchanged.
	charstring := []byte{140, 141, 11} // two small ints, then return
	globalRemap := remap.New[int]()
	localRemap := remap.New[int]()
	out, err := rewriteCalls(charstring, globalRemap, localRemap, 0, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != string(charstring) {
		t.Fatalf("expected passthrough, got % x want % x", out, charstring)
	}
}
