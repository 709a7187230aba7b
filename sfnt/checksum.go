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

package sfnt

// checksumAdjustmentMagic is the constant OpenType subtracts the whole-font
// checksum from to produce head.checksumAdjustment.
const checksumAdjustmentMagic = 0xB1B0AFBA

// checksum sums data as big-endian uint32 words, zero-padding a short
// final word, per the OpenType table-checksum algorithm.
func checksum(data []byte) uint32 {
	var sum uint32
	n := len(data)
	full := n - n%4
	for i := 0; i < full; i += 4 {
		sum += be32(data[i:])
	}
	if rem := n - full; rem > 0 {
		var last [4]byte
		copy(last[:], data[full:])
		sum += be32(last[:])
	}
	return sum
}

// clearChecksumAdjustment zeroes bytes 8..12 of a head table in place,
// the step the assembler takes before computing the whole-font checksum.
func clearChecksumAdjustment(head []byte) {
	if len(head) < 12 {
		return
	}
	head[8], head[9], head[10], head[11] = 0, 0, 0, 0
}

// patchChecksumAdjustment writes 0xB1B0AFBA-sum into bytes 8..12 of a head
// table in place.
func patchChecksumAdjustment(head []byte, sum uint32) {
	v := checksumAdjustmentMagic - sum
	head[8] = byte(v >> 24)
	head[9] = byte(v >> 16)
	head[10] = byte(v >> 8)
	head[11] = byte(v)
}
