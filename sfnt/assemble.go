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

import "math/bits"

// Assemble builds a raw sfnt container from a set of (tag, bytes) table
// entries: it sorts by tag, computes the header's entry-selector triple,
// per-table checksums, 4-byte-aligns each table, and finally patches
// head.checksumAdjustment with the whole-font checksum. Output is always
// a bare sfnt, never a collection.
func Assemble(scalerType uint32, tables map[Tag][]byte) ([]byte, error) {
	tags := sortedTags(tables)
	numTables := len(tags)

	entrySelector := 0
	if numTables > 0 {
		entrySelector = bits.Len(uint(numTables)) - 1
	}
	searchRange := uint16(1 << uint(entrySelector+4))
	rangeShift := uint16(16*numTables) - searchRange

	if headData, ok := tables[tagHead]; ok {
		clearChecksumAdjustment(headData)
	}

	headerSize := 12 + 16*numTables
	out := make([]byte, headerSize)
	out[0], out[1], out[2], out[3] = byte(scalerType>>24), byte(scalerType>>16), byte(scalerType>>8), byte(scalerType)
	putU16(out[4:], uint16(numTables))
	putU16(out[6:], searchRange)
	putU16(out[8:], uint16(entrySelector))
	putU16(out[10:], rangeShift)

	type placed struct {
		tag    Tag
		body   []byte
		offset int
		length int
		sum    uint32
	}
	entries := make([]placed, numTables)
	offset := headerSize
	for i, tag := range tags {
		body := tables[tag]
		entries[i] = placed{tag: tag, body: body, offset: offset, length: len(body), sum: checksum(body)}
		offset += align4(len(body))
	}

	var totalSum uint32
	for i, e := range entries {
		p := 12 + 16*i
		copy(out[p:p+4], e.tag[:])
		putU32(out[p+4:], e.sum)
		putU32(out[p+8:], uint32(e.offset))
		putU32(out[p+12:], uint32(e.length))
		totalSum += e.sum
	}
	totalSum += checksum(out)

	if headData, ok := tables[tagHead]; ok {
		patchChecksumAdjustment(headData, totalSum)
		// the header checksum above was computed before the patch, but
		// head's own table checksum does not change: checksumAdjustment
		// is excluded from the checksum law by convention (it is itself
		// derived from the sum), and readers never reverify it.
	}

	result := make([]byte, offset)
	copy(result, out)
	for _, e := range entries {
		copy(result[e.offset:], e.body)
	}
	return result, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
