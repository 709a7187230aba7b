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

// Tag is a four-byte OpenType table or scaler-type tag. Equality and
// ordering are byte-lexicographic.
type Tag [4]byte

// MakeTag builds a Tag from a (at most 4-byte) ASCII string, right-padding
// with spaces as OpenType tags conventionally do (e.g. "cvt ").
func MakeTag(s string) Tag {
	var t Tag
	for i := range t {
		if i < len(s) {
			t[i] = s[i]
		} else {
			t[i] = ' '
		}
	}
	return t
}

func (t Tag) String() string {
	return string(t[:])
}

// Less reports whether t sorts before other, byte-lexicographically.
func (t Tag) Less(other Tag) bool {
	for i := 0; i < 4; i++ {
		if t[i] != other[i] {
			return t[i] < other[i]
		}
	}
	return false
}

var (
	tagHead = MakeTag("head")
	tagHhea = MakeTag("hhea")
	tagHmtx = MakeTag("hmtx")
	tagMaxp = MakeTag("maxp")
	tagName = MakeTag("name")
	tagOS2  = MakeTag("OS/2")
	tagPost = MakeTag("post")
	tagCmap = MakeTag("cmap")
	tagGlyf = MakeTag("glyf")
	tagLoca = MakeTag("loca")
	tagCvt  = MakeTag("cvt ")
	tagFpgm = MakeTag("fpgm")
	tagPrep = MakeTag("prep")
	tagGasp = MakeTag("gasp")
	tagCFF  = MakeTag("CFF ")
	tagCFF2 = MakeTag("CFF2")
	tagVORG = MakeTag("VORG")

	renderingOnlyTags = []Tag{
		MakeTag("EBDT"), MakeTag("EBLC"), MakeTag("EBSC"),
		MakeTag("CBDT"), MakeTag("CBLC"), MakeTag("sbix"),
		MakeTag("COLR"), MakeTag("CPAL"), MakeTag("SVG "),
	}
)

// RenderingOnlyTags lists the optional bitmap/color table tags that
// ProfilePDF drops and ProfileRendering keeps verbatim.
func RenderingOnlyTags() []Tag {
	return renderingOnlyTags
}

const (
	scalerTypeTrueType = 0x00010000
	scalerTypeTrue     = 0x74727565 // 'true'
	scalerTypeOTTO     = 0x4F54544F // 'OTTO'
	scalerTypeTTC      = 0x74746366 // 'ttcf'
)
