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

// Package cff2 rewrites the "CFF2" table for a subset font.
// CFF2 drops the encoding, charset, and name/string INDEX machinery of
// CFF 1.0 and widens the INDEX count field to four bytes; everything else
// -- DICT operand encoding, subroutine biasing, charstring call rewriting
// -- follows the same structure as package cff.
package cff2

import "seehuhn.de/go/sfntsubset/sfnt"

// readIndex parses a CFF2 INDEX: a 4-byte count, followed (if count > 0)
// by a 1-byte offset size, count+1 offsets, and the packed object data.
func readIndex(data []byte) (objects [][]byte, consumed int, err error) {
	if len(data) < 4 {
		return nil, 0, &sfnt.MissingDataError{Need: 4, Have: len(data)}
	}
	count := int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	if count == 0 {
		return nil, 4, nil
	}
	if len(data) < 5 {
		return nil, 0, &sfnt.MissingDataError{Need: 5, Have: len(data)}
	}
	offSize := int(data[4])
	if offSize < 1 || offSize > 4 {
		return nil, 0, &sfnt.MalformedFontError{Reason: "cff2: invalid INDEX offSize"}
	}

	offArrayStart := 5
	offArrayEnd := offArrayStart + offSize*(count+1)
	if len(data) < offArrayEnd {
		return nil, 0, &sfnt.MissingDataError{Need: offArrayEnd, Have: len(data)}
	}

	offsets := make([]uint32, count+1)
	for i := range offsets {
		p := offArrayStart + offSize*i
		var v uint32
		for j := 0; j < offSize; j++ {
			v = v<<8 | uint32(data[p+j])
		}
		offsets[i] = v
	}
	dataStart := offArrayEnd - 1
	objEnd := dataStart + int(offsets[count])
	if len(data) < objEnd {
		return nil, 0, &sfnt.MissingDataError{Need: objEnd, Have: len(data)}
	}

	objects = make([][]byte, count)
	for i := 0; i < count; i++ {
		start := dataStart + int(offsets[i])
		end := dataStart + int(offsets[i+1])
		if end < start || end > len(data) {
			return nil, 0, &sfnt.MalformedFontError{Reason: "cff2: INDEX offsets out of order"}
		}
		objects[i] = data[start:end]
	}
	return objects, objEnd, nil
}

// encodeIndex builds the bytes of a CFF2 INDEX for the given objects. An
// empty INDEX is just a 4-byte zero count, with no offset-size byte.
func encodeIndex(objects [][]byte) []byte {
	count := len(objects)
	if count == 0 {
		return []byte{0, 0, 0, 0}
	}

	bodyLength := 0
	for _, o := range objects {
		bodyLength += len(o)
	}
	offSize := 1
	for bodyLength+1 >= 1<<(8*uint(offSize)) {
		offSize++
	}

	out := make([]byte, 0, 5+offSize*(count+1)+bodyLength)
	out = append(out, byte(count>>24), byte(count>>16), byte(count>>8), byte(count), byte(offSize))

	pos := uint32(1)
	var offBuf [4]byte
	for i := 0; i <= count; i++ {
		for j := 0; j < offSize; j++ {
			offBuf[j] = byte(pos >> (8 * uint(offSize-j-1)))
		}
		out = append(out, offBuf[:offSize]...)
		if i < count {
			pos += uint32(len(objects[i]))
		}
	}
	for _, o := range objects {
		out = append(out, o...)
	}
	return out
}

// encodeIndexWithOffsets behaves like encodeIndex but additionally
// returns, for each object, the byte offset (within the returned data)
// at which its content begins.
func encodeIndexWithOffsets(objects [][]byte) (data []byte, objStarts []int) {
	data = encodeIndex(objects)
	if len(objects) == 0 {
		return data, nil
	}
	offSize := int(data[4])
	dataStart := 5 + offSize*(len(objects)+1)
	objStarts = make([]int, len(objects))
	pos := dataStart
	for i, o := range objects {
		objStarts[i] = pos
		pos += len(o)
	}
	return data, objStarts
}

// bias is the additive offset applied to biased subroutine indices; CFF2
// keeps the same thresholds as CFF 1.0.
func bias(n int) int {
	switch {
	case n < 1240:
		return 107
	case n < 33900:
		return 1131
	default:
		return 32768
	}
}
