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

// Package name rewrites the OpenType "name" table for a subset font.
// Only version 0 is subsetted; version 1 is copied through
// unchanged.
package name

import (
	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/sfntsubset/sfnt"
	"seehuhn.de/go/sfntsubset/sfnt/cmap"
)

// keepNameIDs is the set of nameIDs retained when pruning: copyright,
// family/subfamily name, unique identifier, full name, version string,
// postscript name.
var keepNameIDs = map[uint16]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

// isMacRoman reports whether (platformID, encodingID) is the classic
// Macintosh platform's Roman script encoding (platform 1, encoding 0).
func isMacRoman(platformID, encodingID uint16) bool {
	return platformID == 1 && encodingID == 0
}

// isPrintableMacRoman reports whether raw is non-empty printable text
// under the Macintosh Roman encoding. Decoding alone proves nothing
// (the Roman table maps all 256 byte values), so the decoded runes are
// additionally checked against the C0/C1 control ranges.
func isPrintableMacRoman(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	decoded, err := charmap.Macintosh.NewDecoder().Bytes(raw)
	if err != nil {
		return false
	}
	for _, r := range string(decoded) {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			return false
		}
	}
	return true
}

type record struct {
	platformID, encodingID, languageID, nameID uint16
	offset, length                             uint16
}

// Rewrite prunes and repacks a version-0 name table. A version-1 table is
// returned unchanged. If pruning would remove every record despite the
// input having some, the original table is returned unchanged instead,
// since callers need at least some naming metadata.
func Rewrite(src []byte) ([]byte, error) {
	if len(src) < 6 {
		return nil, &sfnt.MissingTableError{Tag: sfnt.MakeTag("name")}
	}
	version := be16(src)
	if version != 0 {
		return append([]byte(nil), src...), nil
	}

	count := int(be16(src[2:]))
	need := 6 + 12*count
	if len(src) < need {
		return nil, &sfnt.MissingDataError{Need: need, Have: len(src)}
	}
	storageOffset := int(be16(src[4:]))

	recs := make([]record, count)
	for i := range recs {
		p := 6 + 12*i
		recs[i] = record{
			platformID: be16(src[p:]),
			encodingID: be16(src[p+2:]),
			languageID: be16(src[p+4:]),
			nameID:     be16(src[p+6:]),
			length:     be16(src[p+8:]),
			offset:     be16(src[p+10:]),
		}
	}

	var kept []record
	for _, r := range recs {
		if !keepNameIDs[r.nameID] {
			continue
		}
		if cmap.IsUnicode(r.platformID, r.encodingID) {
			kept = append(kept, r)
			continue
		}
		if isMacRoman(r.platformID, r.encodingID) {
			start := storageOffset + int(r.offset)
			end := start + int(r.length)
			if start >= 0 && end <= len(src) && isPrintableMacRoman(src[start:end]) {
				kept = append(kept, r)
			}
		}
	}
	if len(kept) == 0 && count > 0 {
		return append([]byte(nil), src...), nil
	}

	newStorageOffset := 6 + 12*len(kept)
	header := make([]byte, newStorageOffset)
	header[0], header[1] = 0, 0
	header[2], header[3] = byte(len(kept)>>8), byte(len(kept))
	header[4], header[5] = byte(newStorageOffset>>8), byte(newStorageOffset)

	var storage []byte
	curOffset := 0
	for i, r := range kept {
		p := 6 + 12*i
		header[p], header[p+1] = byte(r.platformID>>8), byte(r.platformID)
		header[p+2], header[p+3] = byte(r.encodingID>>8), byte(r.encodingID)
		header[p+4], header[p+5] = byte(r.languageID>>8), byte(r.languageID)
		header[p+6], header[p+7] = byte(r.nameID>>8), byte(r.nameID)
		header[p+8], header[p+9] = byte(r.length>>8), byte(r.length)
		header[p+10], header[p+11] = byte(curOffset>>8), byte(curOffset)

		start := storageOffset + int(r.offset)
		end := start + int(r.length)
		if start < 0 || end > len(src) {
			return nil, &sfnt.InvalidOffsetError{Offset: start, Limit: len(src)}
		}
		storage = append(storage, src[start:end]...)
		curOffset += int(r.length)
	}

	return append(header, storage...), nil
}
