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

// Package cff rewrites the "CFF " table for a subset font:
// parsing INDEX/DICT structures, discovering the subroutines and SIDs a
// retained glyph set depends on, and re-emitting a self-contained CFF
// table with dense remappings.
package cff

import "seehuhn.de/go/sfntsubset/sfnt"

// readIndex parses a CFF INDEX: a count, an offset size (1-4 bytes),
// count+1 one-based offsets, and the packed object data. It returns the
// objects and the number of bytes consumed.
func readIndex(data []byte) (objects [][]byte, consumed int, err error) {
	if len(data) < 2 {
		return nil, 0, &sfnt.MissingDataError{Need: 2, Have: len(data)}
	}
	count := int(data[0])<<8 | int(data[1])
	if count == 0 {
		return nil, 2, nil
	}
	if len(data) < 3 {
		return nil, 0, &sfnt.MissingDataError{Need: 3, Have: len(data)}
	}
	offSize := int(data[2])
	if offSize < 1 || offSize > 4 {
		return nil, 0, &sfnt.MalformedFontError{Reason: "cff: invalid INDEX offSize"}
	}

	offArrayStart := 3
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
	dataStart := offArrayEnd - 1 // offsets are 1-based, relative to here
	objEnd := dataStart + int(offsets[count])
	if len(data) < objEnd {
		return nil, 0, &sfnt.MissingDataError{Need: objEnd, Have: len(data)}
	}

	objects = make([][]byte, count)
	for i := 0; i < count; i++ {
		start := dataStart + int(offsets[i])
		end := dataStart + int(offsets[i+1])
		if end < start || end > len(data) {
			return nil, 0, &sfnt.MalformedFontError{Reason: "cff: INDEX offsets out of order"}
		}
		objects[i] = data[start:end]
	}
	return objects, objEnd, nil
}

// encodeIndex builds the bytes of a CFF INDEX for the given objects.
func encodeIndex(objects [][]byte) []byte {
	count := len(objects)
	if count == 0 {
		return []byte{0, 0}
	}

	bodyLength := 0
	for _, o := range objects {
		bodyLength += len(o)
	}
	offSize := 1
	for bodyLength+1 >= 1<<(8*uint(offSize)) {
		offSize++
	}

	out := make([]byte, 0, 3+offSize*(count+1)+bodyLength)
	out = append(out, byte(count>>8), byte(count), byte(offSize))

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
// at which its content begins. Used by the Top DICT INDEX writer, which
// must know exactly where its one object landed in order to patch
// placeholder offsets with absolute file positions later.
func encodeIndexWithOffsets(objects [][]byte) (data []byte, objStarts []int) {
	data = encodeIndex(objects)
	if len(objects) == 0 {
		return data, nil
	}
	offSize := int(data[2])
	dataStart := 3 + offSize*(len(objects)+1)
	objStarts = make([]int, len(objects))
	pos := dataStart
	for i, o := range objects {
		objStarts[i] = pos
		pos += len(o)
	}
	return data, objStarts
}

// bias is the additive offset applied to biased subroutine indices; it
// depends on the size of the subroutine array being indexed.
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
