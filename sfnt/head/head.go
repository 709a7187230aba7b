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

// Package head rewrites the OpenType "head" table for a subset font.
package head

import "seehuhn.de/go/sfntsubset/sfnt"

const tableLength = 54

// indexToLocFormatOffset is the byte offset of the int16 field that
// selects between short (0) and long (1) loca entries.
const indexToLocFormatOffset = 50

// Rewrite copies the source head table, zeroes checksumAdjustment (the
// assembler patches it once the whole font is known), and sets
// indexToLocFormat according to longLoca.
func Rewrite(src []byte, longLoca bool) ([]byte, error) {
	if len(src) < tableLength {
		return nil, &sfnt.MissingTableError{Tag: sfnt.MakeTag("head")}
	}
	out := append([]byte(nil), src...)
	out[8], out[9], out[10], out[11] = 0, 0, 0, 0
	if longLoca {
		out[indexToLocFormatOffset], out[indexToLocFormatOffset+1] = 0, 1
	} else {
		out[indexToLocFormatOffset], out[indexToLocFormatOffset+1] = 0, 0
	}
	return out, nil
}

// UnitsPerEm reads the unitsPerEm field (offset 18, uint16).
func UnitsPerEm(head []byte) uint16 {
	return uint16(head[18])<<8 | uint16(head[19])
}
