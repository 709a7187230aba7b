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

// Package cmap rewrites the OpenType "cmap" table for a subset font:
// formats 4 and 12 are reconstructed from the retained, remapped
// character-to-glyph pairs; every other subtable format is dropped.
package cmap

import (
	"sort"

	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
)

// EncodingRecord is a single cmap header entry: (platformID, encodingID,
// subtableOffset).
type EncodingRecord struct {
	PlatformID, EncodingID uint16
	Offset                 uint32
}

// Entry is a single retained (codepoint, new GID) mapping.
type Entry struct {
	Code uint32
	GID  glyph.ID
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// IsUnicode reports whether a (platformID, encodingID) pair is one of the
// Unicode-capable subtable kinds this subsetter keeps: platform 0 (any
// encoding), or platform 3 with encoding 0, 1, or 10.
func IsUnicode(platformID, encodingID uint16) bool {
	if platformID == 0 {
		return true
	}
	if platformID == 3 && (encodingID == 0 || encodingID == 1 || encodingID == 10) {
		return true
	}
	return false
}

// ReadEncodingRecords parses the cmap header (version, numTables) and its
// encoding records.
func ReadEncodingRecords(data []byte) ([]EncodingRecord, error) {
	if len(data) < 4 {
		return nil, &sfnt.MissingDataError{Need: 4, Have: len(data)}
	}
	numTables := int(be16(data[2:]))
	need := 4 + 8*numTables
	if len(data) < need {
		return nil, &sfnt.MissingDataError{Need: need, Have: len(data)}
	}
	recs := make([]EncodingRecord, numTables)
	for i := range recs {
		p := 4 + 8*i
		recs[i] = EncodingRecord{
			PlatformID: be16(data[p:]),
			EncodingID: be16(data[p+2:]),
			Offset:     be32(data[p+4:]),
		}
	}
	return recs, nil
}

// DecodeSubtable dispatches on the subtable's format field. Only formats
// 4 and 12 are understood; any other format returns ok=false so the
// caller can drop it.
func DecodeSubtable(data []byte) (pairs map[uint32]glyph.ID, ok bool, err error) {
	if len(data) < 2 {
		return nil, false, &sfnt.MissingDataError{Need: 2, Have: len(data)}
	}
	switch be16(data) {
	case 4:
		m, err := DecodeFormat4(data)
		return m, true, err
	case 12:
		m, err := DecodeFormat12(data)
		return m, true, err
	default:
		return nil, false, nil
	}
}

// DecodeFormat4 decodes a format 4 (segmented 16-bit) subtable into a
// codepoint -> glyph map.
func DecodeFormat4(data []byte) (map[uint32]glyph.ID, error) {
	if len(data) < 14 {
		return nil, &sfnt.MissingDataError{Need: 14, Have: len(data)}
	}
	segCountX2 := int(be16(data[6:]))
	if segCountX2%2 != 0 {
		return nil, &sfnt.MalformedFontError{Reason: "cmap: odd segCountX2"}
	}
	segCount := segCountX2 / 2
	need := 16 + 8*segCount
	if len(data) < need {
		return nil, &sfnt.MissingDataError{Need: need, Have: len(data)}
	}

	endCode := data[14:]
	startCode := data[14+2*segCount+2:]
	idDelta := data[14+4*segCount+2:]
	idRangeOffset := data[14+6*segCount+2:]
	idRangeOffsetStart := 14 + 6*segCount + 2

	out := make(map[uint32]glyph.ID)
	for s := 0; s < segCount; s++ {
		start := uint32(be16(startCode[2*s:]))
		end := uint32(be16(endCode[2*s:]))
		if end < start {
			if start == 0xFFFF {
				continue
			}
			return nil, &sfnt.MalformedFontError{Reason: "cmap: format 4 segment out of order"}
		}
		delta := be16(idDelta[2*s:])
		rangeOff := be16(idRangeOffset[2*s:])

		if rangeOff == 0 {
			// GID 0 is a valid mapping target here; only the
			// glyphIdArray branch below uses 0 to mean "missing".
			for c := start; c <= end; c++ {
				out[c] = glyph.ID(uint16(c) + delta)
			}
			continue
		}
		base := idRangeOffsetStart + 2*s + int(rangeOff)
		for c := start; c <= end; c++ {
			idx := base + 2*int(c-start)
			if idx+2 > len(data) {
				return nil, &sfnt.MalformedFontError{Reason: "cmap: format 4 glyphIdArray out of range"}
			}
			gid := be16(data[idx:])
			if gid != 0 {
				out[c] = glyph.ID(uint16(gid) + delta)
			}
		}
	}
	return out, nil
}

// DecodeFormat12 decodes a format 12 (grouped 32-bit) subtable.
func DecodeFormat12(data []byte) (map[uint32]glyph.ID, error) {
	if len(data) < 16 {
		return nil, &sfnt.MissingDataError{Need: 16, Have: len(data)}
	}
	numGroups := int(be32(data[12:]))
	need := 16 + 12*numGroups
	if len(data) < need {
		return nil, &sfnt.MissingDataError{Need: need, Have: len(data)}
	}
	out := make(map[uint32]glyph.ID)
	for g := 0; g < numGroups; g++ {
		p := 16 + 12*g
		start := be32(data[p:])
		end := be32(data[p+4:])
		startGID := be32(data[p+8:])
		if end < start {
			return nil, &sfnt.MalformedFontError{Reason: "cmap: format 12 group out of order"}
		}
		for c := start; c <= end; c++ {
			out[c] = glyph.ID(startGID + (c - start))
		}
	}
	return out, nil
}

// Filter keeps only the pairs whose GID is retained by remapper, mapping
// each to its new GID, and returns them sorted ascending by codepoint.
func Filter(pairs map[uint32]glyph.ID, remapper *remap.Remapper[glyph.ID]) []Entry {
	out := make([]Entry, 0, len(pairs))
	for code, gid := range pairs {
		if newGID, ok := remapper.Get(gid); ok {
			out = append(out, Entry{Code: code, GID: glyph.ID(newGID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// EncodeFormat4 builds a format 4 subtable from sorted entries. Segments
// are maximal runs of consecutive codepoints whose (gid - codepoint)
// delta is constant; idRangeOffset is always 0 (every segment is
// representable via idDelta alone once glyph IDs outside the run have
// been excluded by Filter). The mandatory sentinel segment
// (0xFFFF, 0xFFFF, delta=1) is always appended.
func EncodeFormat4(entries []Entry, language uint16) []byte {
	type segment struct {
		start, end uint16
		delta      uint16
	}
	var segs []segment
	i := 0
	for i < len(entries) {
		start := entries[i].Code
		delta := uint16(entries[i].GID) - uint16(start)
		j := i + 1
		for j < len(entries) &&
			entries[j].Code == entries[j-1].Code+1 &&
			uint16(entries[j].GID)-uint16(entries[j].Code) == delta {
			j++
		}
		segs = append(segs, segment{start: uint16(start), end: uint16(entries[j-1].Code), delta: delta})
		i = j
	}
	segs = append(segs, segment{start: 0xFFFF, end: 0xFFFF, delta: 1})

	segCount := len(segs)
	searchRange, entrySelector, rangeShift := searchParams(segCount)

	out := bin4Header(uint16(segCount), searchRange, entrySelector, rangeShift, language)
	for _, s := range segs {
		out = appendU16(out, s.end)
	}
	out = appendU16(out, 0) // reservedPad
	for _, s := range segs {
		out = appendU16(out, s.start)
	}
	for _, s := range segs {
		out = appendU16(out, s.delta)
	}
	for range segs {
		out = appendU16(out, 0) // idRangeOffset
	}

	length := len(out)
	out[2], out[3] = byte(length>>8), byte(length)
	return out
}

func bin4Header(segCount, searchRange, entrySelector, rangeShift, language uint16) []byte {
	out := make([]byte, 0, 16)
	out = appendU16(out, 4) // format
	out = appendU16(out, 0) // length, patched by caller
	out = appendU16(out, language)
	out = appendU16(out, segCount*2)
	out = appendU16(out, searchRange)
	out = appendU16(out, entrySelector)
	out = appendU16(out, rangeShift)
	return out
}

// EncodeFormat12 builds a format 12 subtable from sorted entries, folding
// runs where both codepoint and GID advance by exactly 1 into a single
// group.
func EncodeFormat12(entries []Entry, language uint32) []byte {
	type group struct {
		start, end, startGID uint32
	}
	var groups []group
	i := 0
	for i < len(entries) {
		start := entries[i].Code
		startGID := uint32(entries[i].GID)
		j := i + 1
		for j < len(entries) &&
			entries[j].Code == entries[j-1].Code+1 &&
			uint32(entries[j].GID) == uint32(entries[j-1].GID)+1 {
			j++
		}
		groups = append(groups, group{start: start, end: entries[j-1].Code, startGID: startGID})
		i = j
	}

	out := make([]byte, 0, 16+12*len(groups))
	out = appendU16(out, 12)
	out = appendU16(out, 0) // reserved
	out = appendU32(out, 0)
	out = appendU32(out, language)
	out = appendU32(out, uint32(len(groups)))
	for _, g := range groups {
		out = appendU32(out, g.start)
		out = appendU32(out, g.end)
		out = appendU32(out, g.startGID)
	}
	length := len(out)
	out[4], out[5], out[6], out[7] = byte(length>>24), byte(length>>16), byte(length>>8), byte(length)
	return out
}

func searchParams(n int) (searchRange, entrySelector, rangeShift uint16) {
	sel := 0
	for (1 << (sel + 1)) <= n {
		sel++
	}
	searchRange = uint16(2 << sel)
	entrySelector = uint16(sel)
	rangeShift = uint16(2*n) - searchRange
	return
}

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}
func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Rewrite builds a complete cmap table from the source encoding records
// and subtable bytes, keeping only Unicode-capable, format 4/12
// subtables, filtering and remapping their contents, and laying the
// result out as header + records + subtables in record order. It fails
// with UnimplementedError if every input subtable was non-Unicode or
// otherwise unsupported.
func Rewrite(face sfnt.Face, remapper *remap.Remapper[glyph.ID]) ([]byte, error) {
	data, ok := face.Table(sfnt.MakeTag("cmap"))
	if !ok {
		return nil, &sfnt.MissingTableError{Tag: sfnt.MakeTag("cmap")}
	}
	recs, err := ReadEncodingRecords(data)
	if err != nil {
		return nil, err
	}

	type kept struct {
		rec     EncodingRecord
		payload []byte
	}
	var result []kept
	for _, rec := range recs {
		if !IsUnicode(rec.PlatformID, rec.EncodingID) {
			continue
		}
		if int(rec.Offset) >= len(data) {
			continue
		}
		pairs, isSupported, err := DecodeSubtable(data[rec.Offset:])
		if err != nil {
			return nil, err
		}
		if !isSupported {
			continue
		}
		entries := Filter(pairs, remapper)
		// Preserve the original subtable's format for re-encoding.
		format := be16(data[rec.Offset:])
		var payload []byte
		switch format {
		case 4:
			payload = EncodeFormat4(entries, 0)
		case 12:
			payload = EncodeFormat12(entries, 0)
		}
		result = append(result, kept{rec: rec, payload: payload})
	}

	if len(result) == 0 {
		return nil, &sfnt.UnimplementedError{Feature: "cmap: no Unicode-capable subtable"}
	}

	headerLen := 4 + 8*len(result)
	out := make([]byte, headerLen)
	appendAtU16(out, 0, 0)                  // version
	appendAtU16(out, 2, uint16(len(result))) // numTables

	offset := headerLen
	var subtables []byte
	for i, r := range result {
		p := 4 + 8*i
		appendAtU16(out, p, r.rec.PlatformID)
		appendAtU16(out, p+2, r.rec.EncodingID)
		appendAtU32(out, p+4, uint32(offset))
		subtables = append(subtables, r.payload...)
		offset += len(r.payload)
	}
	return append(out, subtables...), nil
}

func appendAtU16(b []byte, pos int, v uint16) {
	b[pos], b[pos+1] = byte(v>>8), byte(v)
}
func appendAtU32(b []byte, pos int, v uint32) {
	b[pos], b[pos+1], b[pos+2], b[pos+3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}
