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

// Package post rewrites the OpenType "post" table for a subset font.
// Only version 2 is transformed; other versions pass
// through unchanged.
package post

import (
	"seehuhn.de/go/sfntsubset/bin"
	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
)

const headerLength = 32

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// parsePascalStrings reads the Pascal-string table (u8 length, bytes)
// that follows a version-2 post table's glyph-name index array.
func parsePascalStrings(data []byte) ([]string, error) {
	r := bin.NewReader(data)
	var out []string
	for r.Remaining() > 0 {
		n, err := r.U8()
		if err != nil {
			return nil, &sfnt.MalformedFontError{Reason: "post: truncated pascal string"}
		}
		b, err := r.Take(int(n))
		if err != nil {
			return nil, &sfnt.MalformedFontError{Reason: "post: truncated pascal string"}
		}
		out = append(out, string(b))
	}
	return out, nil
}

func encodePascalString(s string) []byte {
	if len(s) > 255 {
		s = s[:255]
	}
	w := bin.NewWriterSize(1 + len(s))
	w.U8(byte(len(s)))
	w.Extend([]byte(s))
	return w.Bytes()
}

// Rewrite rewrites a version-2 post table: the 32-byte header is copied
// (with numGlyphs overwritten), and the glyph-name index array is
// rewritten in remap order. Indices <= 257 are predefined PostScript
// glyph names and are copied verbatim; indices >= 258 refer to the
// custom-name table and are reassigned to a dense 258+k numbering as
// their backing strings are appended to a fresh name-storage buffer.
func Rewrite(src []byte, remapper *remap.Remapper[glyph.ID]) ([]byte, error) {
	if len(src) < headerLength {
		return nil, &sfnt.MissingTableError{Tag: sfnt.MakeTag("post")}
	}
	version := be32(src)
	if version != 0x00020000 {
		return append([]byte(nil), src...), nil
	}

	if len(src) < headerLength+2 {
		return nil, &sfnt.MissingDataError{Need: headerLength + 2, Have: len(src)}
	}
	oldNumGlyphs := int(src[headerLength])<<8 | int(src[headerLength+1])
	indexStart := headerLength + 2
	indexEnd := indexStart + 2*oldNumGlyphs
	if len(src) < indexEnd {
		return nil, &sfnt.MissingDataError{Need: indexEnd, Have: len(src)}
	}
	oldIndex := make([]uint16, oldNumGlyphs)
	for i := range oldIndex {
		p := indexStart + 2*i
		oldIndex[i] = uint16(src[p])<<8 | uint16(src[p+1])
	}
	customNames, err := parsePascalStrings(src[indexEnd:])
	if err != nil {
		return nil, err
	}

	ordered := remapper.Ordered()
	newIndex := make([]uint16, len(ordered))
	var newNames [][]byte
	seen := make(map[int]uint16) // old custom-name position -> new index

	for i, oldGID := range ordered {
		if int(oldGID) >= len(oldIndex) {
			return nil, &sfnt.SubsetError{Reason: "post: retained GID out of range"}
		}
		idx := oldIndex[oldGID]
		if idx <= 257 {
			newIndex[i] = idx
			continue
		}
		pos := int(idx) - 258
		if pos < 0 || pos >= len(customNames) {
			return nil, &sfnt.MalformedFontError{Reason: "post: glyph name index out of range"}
		}
		if newIdx, ok := seen[pos]; ok {
			newIndex[i] = newIdx
			continue
		}
		k := len(newNames)
		newNames = append(newNames, encodePascalString(customNames[pos]))
		newIdx := uint16(258 + k)
		seen[pos] = newIdx
		newIndex[i] = newIdx
	}

	w := bin.NewWriterSize(headerLength + 2 + 2*len(newIndex))
	w.Extend(src[:headerLength])
	w.U16(uint16(len(newIndex)))
	for _, idx := range newIndex {
		w.U16(idx)
	}
	for _, s := range newNames {
		w.Extend(s)
	}
	return w.Bytes(), nil
}
