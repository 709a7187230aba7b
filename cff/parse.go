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

import "seehuhn.de/go/sfntsubset/sfnt"

// FontDict is a single CID font's Font DICT: its own Private DICT and
// local subroutines, alongside the raw Font DICT entries (mostly just
// FontMatrix and FontName in practice).
type FontDict struct {
	Dict       Dict
	Private    Dict
	LocalSubrs [][]byte
}

// Font is a parsed CFF table.
type Font struct {
	Major, Minor int
	FontName     string
	TopDict      Dict
	Strings      []string // custom strings; Strings[i] is SID 391+i
	GlobalSubrs  [][]byte
	CharStrings  [][]byte // indexed by original GID
	Charset      []uint16 // original GID -> SID

	IsCID bool

	// Populated when !IsCID.
	Private    Dict
	LocalSubrs [][]byte

	// Populated when IsCID.
	FDArray  []FontDict
	FDSelect []int // original GID -> FD index
}

// Parse reads a "CFF " table. Only CFF major version 1 is supported;
// anything else fails with UnimplementedError.
func Parse(data []byte) (*Font, error) {
	if len(data) < 4 {
		return nil, &sfnt.MissingDataError{Need: 4, Have: len(data)}
	}
	major, hdrSize := int(data[0]), int(data[2])
	if major != 1 {
		return nil, &sfnt.UnimplementedError{Feature: "cff: major version != 1"}
	}

	pos := hdrSize
	nameIdx, n, err := readIndex(data[pos:])
	if err != nil {
		return nil, err
	}
	pos += n
	if len(nameIdx) != 1 {
		return nil, &sfnt.UnimplementedError{Feature: "cff: multiple fonts in one CFF table"}
	}

	topDicts, n, err := readIndex(data[pos:])
	if err != nil {
		return nil, err
	}
	pos += n
	if len(topDicts) != 1 {
		return nil, &sfnt.MalformedFontError{Reason: "cff: Top DICT INDEX must have exactly one entry"}
	}
	topDict, err := decodeDict(topDicts[0])
	if err != nil {
		return nil, err
	}

	stringIdx, n, err := readIndex(data[pos:])
	if err != nil {
		return nil, err
	}
	pos += n
	strings := make([]string, len(stringIdx))
	for i, s := range stringIdx {
		strings[i] = string(s)
	}

	globalSubrs, n, err := readIndex(data[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	f := &Font{
		Major: major, Minor: int(data[1]),
		FontName:    string(nameIdx[0]),
		TopDict:     topDict,
		Strings:     strings,
		GlobalSubrs: globalSubrs,
	}

	csOffset, ok := topDict.GetInt(opCharStrings)
	if !ok {
		return nil, &sfnt.MissingTableError{Tag: sfnt.MakeTag("CFF ")}
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

	charsetOffset, _ := topDict.GetInt(opCharset)
	if charsetOffset > 2 {
		if charsetOffset >= len(data) {
			return nil, &sfnt.InvalidOffsetError{Offset: charsetOffset, Limit: len(data)}
		}
		charset, err := decodeCharset(data[charsetOffset:], numGlyphs)
		if err != nil {
			return nil, err
		}
		f.Charset = charset
	} else {
		charset, _ := decodeCharset(nil, numGlyphs)
		f.Charset = charset
	}

	_, f.IsCID = topDict.Get(opROS)

	if f.IsCID {
		fdArrayOffset, ok := topDict.GetInt(opFDArray)
		if !ok {
			return nil, &sfnt.MalformedFontError{Reason: "cff: CID font missing FDArray"}
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

		fdSelectOffset, ok := topDict.GetInt(opFDSelect)
		if !ok {
			return nil, &sfnt.MalformedFontError{Reason: "cff: CID font missing FDSelect"}
		}
		fdSelect, err := decodeFDSelect(data[fdSelectOffset:], numGlyphs)
		if err != nil {
			return nil, err
		}
		f.FDSelect = fdSelect
	} else {
		priv, localSubrs, err := readPrivate(data, topDict)
		if err != nil {
			return nil, err
		}
		f.Private = priv
		f.LocalSubrs = localSubrs
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
