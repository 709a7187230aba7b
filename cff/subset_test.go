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

package cff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/remap"
)

// buildTestFont assembles a minimal, valid, non-CID CFF table by hand: three
// glyphs (.notdef, A, B), where A calls a local subroutine. It mirrors the
// layout Subset itself produces, just built directly rather than through the
// subsetter, so Parse has something realistic to read.
func buildTestFont(t *testing.T) []byte {
	t.Helper()

	localSubrs := [][]byte{{11}} // subr 0: just "return"
	lbias := bias(len(localSubrs))
	charstrings := [][]byte{
		{14}, // .notdef: endchar
		append(encodeCharstringInt(0-lbias), 10, 14), // A: callsubr 0; endchar
		{14}, // B: endchar
	}

	nameIndex := encodeIndex([][]byte{[]byte("Test")})
	stringIndex := encodeIndex(nil)
	globalSubrIndex := encodeIndex(nil)

	var topEntries Dict
	topEntries = append(topEntries, DictEntry{Op: opCharStrings})
	topDictBody, patchAt := encodeDict(topEntries, map[uint16]bool{opCharStrings: true})
	topDictBody, privatePatchAt := appendPrivateEntry(topDictBody, 0) // size patched below

	topDictIndexBytes, topDictObjStarts := encodeIndexWithOffsets([][]byte{topDictBody})

	var out []byte
	out = append(out, 1, 0, 4, 4)
	out = append(out, nameIndex...)

	topDictIndexStart := len(out)
	out = append(out, topDictIndexBytes...)
	topDictAbsBase := topDictIndexStart + topDictObjStarts[0]

	out = append(out, stringIndex...)
	out = append(out, globalSubrIndex...)

	charStringsStart := len(out)
	out = append(out, encodeIndex(charstrings)...)
	patchPlaceholder(out, topDictAbsBase+patchAt[opCharStrings], charStringsStart)

	privBody, subrsPatchAt := buildPrivateDict(nil, true)
	privStart := len(out)
	out = append(out, privBody...)
	localSubrsStart := len(out)
	out = append(out, encodeIndex(localSubrs)...)
	patchPlaceholder(out, privStart+subrsPatchAt, localSubrsStart-privStart)
	patchPlaceholder(out, topDictAbsBase+privatePatchAt, privStart)

	// Patch the Private entry's size operand (written above as a
	// placeholder-free literal 0) now that the real body length is known.
	// appendPrivateEntry wrote "encodeDictInt(0) placeholderOffset() opPrivate";
	// encodeDictInt(0) is a single byte, so the literal sits immediately
	// before the placeholder patched above.
	sizeBytePos := topDictAbsBase + privatePatchAt - 1
	out[sizeBytePos] = encodeDictInt(len(privBody))[0]

	return out
}

func TestParseRoundTripsSyntheticFont(t *testing.T) {
	data := buildTestFont(t)
	f, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "Test", f.FontName)
	assert.False(t, f.IsCID)
	require.Len(t, f.CharStrings, 3)
	require.Len(t, f.LocalSubrs, 1)
}

func TestSubsetDropsUnreferencedGlyphAndKeepsSubroutine(t *testing.T) {
	data := buildTestFont(t)

	// Retain .notdef and glyph 1 (A), renumbered as new GIDs 0 and 1; drop
	// glyph 2 (B) entirely.
	gidRemap := remap.New[glyph.ID]()
	_, err := gidRemap.Remap(0)
	require.NoError(t, err)
	_, err = gidRemap.Remap(1)
	require.NoError(t, err)

	out, err := Subset(data, gidRemap)
	require.NoError(t, err)

	got, err := Parse(out)
	require.NoError(t, err)

	assert.Equal(t, "Test", got.FontName)
	require.Len(t, got.CharStrings, 2)
	require.Len(t, got.LocalSubrs, 1, "the local subroutine reachable from glyph A must survive")
}

func TestSubsetDropsSubroutineWhenNoLongerReferenced(t *testing.T) {
	data := buildTestFont(t)

	// Retain only .notdef and glyph 2 (B), neither of which calls the
	// local subroutine.
	gidRemap := remap.New[glyph.ID]()
	_, err := gidRemap.Remap(0)
	require.NoError(t, err)
	_, err = gidRemap.Remap(2)
	require.NoError(t, err)

	out, err := Subset(data, gidRemap)
	require.NoError(t, err)

	got, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, got.CharStrings, 2)
	assert.Empty(t, got.LocalSubrs)
}
