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

import "sort"

// Face is the abstract handle the rewriters operate on: a lookup from
// table tag to table bytes. Callers who have already parsed tables
// out-of-band can implement this directly instead of going through
// ParseFace.
type Face interface {
	Table(tag Tag) ([]byte, bool)
}

// record is a single table-directory entry: (tag, checksum, offset, length).
type record struct {
	Tag      Tag
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// rawFace is the Face implementation backing a single sfnt table
// directory read out of a byte slice.
type rawFace struct {
	data       []byte
	ScalerType uint32
	records    map[Tag]record
}

func (f *rawFace) Table(tag Tag) ([]byte, bool) {
	rec, ok := f.records[tag]
	if !ok {
		return nil, false
	}
	start, end := int(rec.Offset), int(rec.Offset)+int(rec.Length)
	if start < 0 || end > len(f.data) || end < start {
		return nil, false
	}
	return f.data[start:end], true
}

// IsCFF reports whether this face's scaler type is 'OTTO', the scaler
// type of fonts with PostScript ("CFF " or "CFF2") outlines rather than
// TrueType glyf outlines. Whether a "CFF " or "CFF2" table is actually
// present is not checked.
func (f *rawFace) IsCFF() bool {
	return f.ScalerType == scalerTypeOTTO
}

// ParseFace sniffs the container kind of data and returns the Face for
// faceIndex (ignored for a bare sfnt/OTTO file, used to select into a
// 'ttcf' collection). Nested collections fail with NestedCollectionError.
func ParseFace(data []byte, faceIndex int) (Face, error) {
	if len(data) < 4 {
		return nil, &MissingDataError{Need: 4, Have: len(data)}
	}
	magic := be32(data)

	switch magic {
	case scalerTypeTrueType, scalerTypeTrue, scalerTypeOTTO:
		return readTableDirectory(data, 0)
	case scalerTypeTTC:
		return parseCollection(data, faceIndex)
	default:
		return nil, &UnknownKindError{Magic: magic}
	}
}

func parseCollection(data []byte, faceIndex int) (Face, error) {
	if len(data) < 16 {
		return nil, &MissingDataError{Need: 16, Have: len(data)}
	}
	numFonts := int(be32(data[8:]))
	if faceIndex < 0 || faceIndex >= numFonts {
		return nil, &InvalidOffsetError{Offset: faceIndex, Limit: numFonts}
	}
	headerEnd := 12 + 4*numFonts
	if headerEnd > len(data) {
		return nil, &MissingDataError{Need: headerEnd, Have: len(data)}
	}
	offset := int(be32(data[12+4*faceIndex:]))
	if offset < 0 || offset+4 > len(data) {
		return nil, &InvalidOffsetError{Offset: offset, Limit: len(data)}
	}
	if be32(data[offset:]) == scalerTypeTTC {
		return nil, &NestedCollectionError{}
	}
	return readTableDirectory(data, offset)
}

func readTableDirectory(data []byte, at int) (*rawFace, error) {
	if at < 0 || at+12 > len(data) {
		return nil, &MissingDataError{Need: at + 12, Have: len(data)}
	}
	scalerType := be32(data[at:])
	numTables := int(be16(data[at+4:]))

	recStart := at + 12
	recEnd := recStart + 16*numTables
	if recEnd > len(data) {
		return nil, &MissingDataError{Need: recEnd, Have: len(data)}
	}

	face := &rawFace{data: data, ScalerType: scalerType, records: make(map[Tag]record, numTables)}
	for i := 0; i < numTables; i++ {
		p := recStart + 16*i
		var tag Tag
		copy(tag[:], data[p:p+4])
		rec := record{
			Tag:      tag,
			CheckSum: be32(data[p+4:]),
			Offset:   be32(data[p+8:]),
			Length:   be32(data[p+12:]),
		}
		if int(rec.Offset) < 0 || int(rec.Offset)+int(rec.Length) > len(data) {
			return nil, &InvalidOffsetError{Offset: int(rec.Offset), Limit: len(data)}
		}
		face.records[tag] = rec
	}
	return face, nil
}

// sortedTags returns the tags of a set of (tag, bytes) table entries in
// byte-lexicographic order.
func sortedTags(tables map[Tag][]byte) []Tag {
	tags := make([]Tag, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Less(tags[j]) })
	return tags
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
