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

// Package maxp rewrites the OpenType "maxp" table for a subset font.
package maxp

import "seehuhn.de/go/sfntsubset/sfnt"

// Rewrite copies the source maxp table, preserving its version (0.5 or
// 1.0) and the version-1 tail bytes verbatim, and overwrites numGlyphs.
func Rewrite(src []byte, numGlyphs int) ([]byte, error) {
	if len(src) < 6 {
		return nil, &sfnt.MissingTableError{Tag: sfnt.MakeTag("maxp")}
	}
	out := append([]byte(nil), src...)
	out[4] = byte(numGlyphs >> 8)
	out[5] = byte(numGlyphs)
	return out, nil
}

// Version reads the maxp version field.
func Version(src []byte) uint32 {
	return uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
}

// NumGlyphs reads the numGlyphs field.
func NumGlyphs(src []byte) int {
	return int(src[4])<<8 | int(src[5])
}
