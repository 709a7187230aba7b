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

import "seehuhn.de/go/sfntsubset/sfnt"

// FontDict is one Font DICT's own Private DICT and local subroutines,
// alongside its raw DICT entries (FontMatrix in practice).
type FontDict struct {
	Dict       Dict
	Private    Dict
	LocalSubrs [][]byte
}

// Font is a parsed CFF2 table. Unlike CFF 1.0, every CFF2 font uses the
// FDArray/Private-per-FD model; FDSelect is only present when there is
// more than one Font DICT, and is nil (meaning "FD 0 for every glyph")
// otherwise.
type Font struct {
	TopDict     Dict
	GlobalSubrs [][]byte
	CharStrings [][]byte // indexed by original GID

	FDArray  []FontDict
	FDSelect []int // original GID -> FD index, nil means all FD 0

	HasVariationStore bool
}

// Parse reads a "CFF2" table. Variable fonts (those carrying a
// VariationStore) are rejected with UnimplementedError: safely relocating
// region/blend data during subsetting is out of scope here, so only
// static CFF2 fonts are supported.
func Parse(data []byte) (*Font, error) {
	if len(data) < 5 {
		return nil, &sfnt.MissingDataError{Need: 5, Have: len(data)}
	}
	major, hdrSize := int(data[0]), int(data[2])
	if major != 2 {
		return nil, &sfnt.UnimplementedError{Feature: "cff2: major version != 2"}
	}
	topDictLength := int(data[3])<<8 | int(data[4])
	if hdrSize+topDictLength > len(data) {
		return nil, &sfnt.MissingDataError{Need: hdrSize + topDictLength, Have: len(data)}
	}
	topDict, err := decodeDict(data[hdrSize : hdrSize+topDictLength])
	if err != nil {
		return nil, err
	}
	if _, ok := topDict.Get(opVStore); ok {
		return nil, &sfnt.UnimplementedError{Feature: "cff2: variable (VariationStore-bearing) font"}
	}

	pos := hdrSize + topDictLength
	globalSubrs, _, err := readIndex(data[pos:])
	if err != nil {
		return nil, err
	}

	f := &Font{TopDict: topDict, GlobalSubrs: globalSubrs}

	csOffset, ok := topDict.GetInt(opCharStrings)
	if !ok {
		return nil, &sfnt.MissingTableError{Tag: sfnt.MakeTag("CFF2")}
	}
	if csOffset < 0 || csOffset >= len(data) {
		return nil, &sfnt.InvalidOffsetError{Offset: csOffset, Limit: len(data)}
	}
	charStrings, _, err := readIndex(data[csOffset:])
	if err != nil {
		return nil, err
	}
	f.CharStrings = charStrings
	numGlyphs := len(charStrings)

	fdArrayOffset, ok := topDict.GetInt(opFDArray)
	if !ok {
		return nil, &sfnt.MalformedFontError{Reason: "cff2: missing FDArray"}
	}
	if fdArrayOffset < 0 || fdArrayOffset >= len(data) {
		return nil, &sfnt.InvalidOffsetError{Offset: fdArrayOffset, Limit: len(data)}
	}
	fdRaw, _, err := readIndex(data[fdArrayOffset:])
	if err != nil {
		return nil, err
	}
	f.FDArray = make([]FontDict, len(fdRaw))
	for i, raw := range fdRaw {
		fdict, err := decodeDict(raw)
		if err != nil {
			return nil, err
		}
		priv, localSubrs, err := readPrivate(data, fdict)
		if err != nil {
			return nil, err
		}
		f.FDArray[i] = FontDict{Dict: fdict, Private: priv, LocalSubrs: localSubrs}
	}

	if fdSelectOffset, ok := topDict.GetInt(opFDSelect); ok {
		if fdSelectOffset < 0 || fdSelectOffset >= len(data) {
			return nil, &sfnt.InvalidOffsetError{Offset: fdSelectOffset, Limit: len(data)}
		}
		fdSelect, err := decodeFDSelect(data[fdSelectOffset:], numGlyphs)
		if err != nil {
			return nil, err
		}
		f.FDSelect = fdSelect
	}

	return f, nil
}

func readPrivate(data []byte, dict Dict) (Dict, [][]byte, error) {
	ops, ok := dict.Get(opPrivate)
	if !ok || len(ops) < 2 {
		return nil, nil, nil
	}
	size, offset := int(ops[0]), int(ops[1])
	if offset < 0 || offset+size > len(data) {
		return nil, nil, &sfnt.InvalidOffsetError{Offset: offset, Limit: len(data)}
	}
	priv, err := decodeDict(data[offset : offset+size])
	if err != nil {
		return nil, nil, err
	}
	var localSubrs [][]byte
	if rel, ok := priv.GetInt(opSubrs); ok {
		subrsOffset := offset + rel
		if subrsOffset < 0 || subrsOffset >= len(data) {
			return nil, nil, &sfnt.InvalidOffsetError{Offset: subrsOffset, Limit: len(data)}
		}
		localSubrs, _, err = readIndex(data[subrsOffset:])
		if err != nil {
			return nil, nil, err
		}
	}
	return priv, localSubrs, nil
}

// decodeFDSelect reads an FDSelect table (format 0 or 3), identical to
// CFF 1.0's.
func decodeFDSelect(data []byte, numGlyphs int) ([]int, error) {
	if len(data) < 1 {
		return nil, &sfnt.MissingDataError{Need: 1, Have: len(data)}
	}
	out := make([]int, numGlyphs)
	switch data[0] {
	case 0:
		if len(data) < 1+numGlyphs {
			return nil, &sfnt.MissingDataError{Need: 1 + numGlyphs, Have: len(data)}
		}
		for i := 0; i < numGlyphs; i++ {
			out[i] = int(data[1+i])
		}
	case 3:
		if len(data) < 3 {
			return nil, &sfnt.MissingDataError{Need: 3, Have: len(data)}
		}
		nRanges := int(data[1])<<8 | int(data[2])
		pos := 3
		need := pos + 3*nRanges + 2
		if len(data) < need {
			return nil, &sfnt.MissingDataError{Need: need, Have: len(data)}
		}
		for r := 0; r < nRanges; r++ {
			first := int(data[pos])<<8 | int(data[pos+1])
			fd := int(data[pos+2])
			nextFirst := int(data[pos+3])<<8 | int(data[pos+4])
			for g := first; g < nextFirst && g < numGlyphs; g++ {
				out[g] = fd
			}
			pos += 3
		}
	default:
		return nil, &sfnt.MalformedFontError{Reason: "cff2: unknown FDSelect format"}
	}
	return out, nil
}

func encodeFDSelectFormat3(fdByNewGID []int) []byte {
	type rng struct {
		first int
		fd    int
	}
	var ranges []rng
	for gid, fd := range fdByNewGID {
		if len(ranges) == 0 || ranges[len(ranges)-1].fd != fd {
			ranges = append(ranges, rng{first: gid, fd: fd})
		}
	}
	out := make([]byte, 0, 5+3*len(ranges))
	out = append(out, 3)
	out = append(out, byte(len(ranges)>>8), byte(len(ranges)))
	for _, r := range ranges {
		out = append(out, byte(r.first>>8), byte(r.first), byte(r.fd))
	}
	sentinel := len(fdByNewGID)
	out = append(out, byte(sentinel>>8), byte(sentinel))
	return out
}
