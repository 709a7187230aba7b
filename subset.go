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

// Package sfntsubset ties the per-table rewriters together into a single
// Subset operation: closure over composite glyphs, a dense
// GID remapping, dispatch to the outline-specific rewriters (glyf/loca
// for TrueType, "CFF "/CFF2 for PostScript outlines), and final
// reassembly into a self-contained sfnt container.
//
// It lives at the module root rather than inside package sfnt because
// the CFF rewriter (package cff) already imports package sfnt for its
// shared Tag and error types; an orchestrator living inside sfnt and
// importing cff would create an import cycle.
package sfntsubset

import (
	"seehuhn.de/go/sfntsubset/cff"
	"seehuhn.de/go/sfntsubset/cff2"
	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/internal/gidset"
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
	"seehuhn.de/go/sfntsubset/sfnt/cmap"
	"seehuhn.de/go/sfntsubset/sfnt/glyf"
	"seehuhn.de/go/sfntsubset/sfnt/head"
	"seehuhn.de/go/sfntsubset/sfnt/hmtx"
	"seehuhn.de/go/sfntsubset/sfnt/maxp"
	"seehuhn.de/go/sfntsubset/sfnt/name"
	"seehuhn.de/go/sfntsubset/sfnt/post"
)

var (
	tagHead = sfnt.MakeTag("head")
	tagHhea = sfnt.MakeTag("hhea")
	tagHmtx = sfnt.MakeTag("hmtx")
	tagMaxp = sfnt.MakeTag("maxp")
	tagName = sfnt.MakeTag("name")
	tagPost = sfnt.MakeTag("post")
	tagCmap = sfnt.MakeTag("cmap")
	tagGlyf = sfnt.MakeTag("glyf")
	tagLoca = sfnt.MakeTag("loca")
	tagCFF  = sfnt.MakeTag("CFF ")
	tagCFF2 = sfnt.MakeTag("CFF2")
	tagOS2  = sfnt.MakeTag("OS/2")
	tagCvt  = sfnt.MakeTag("cvt ")
	tagFpgm = sfnt.MakeTag("fpgm")
	tagPrep = sfnt.MakeTag("prep")
	tagGasp = sfnt.MakeTag("gasp")
	tagVORG = sfnt.MakeTag("VORG")
)

// Subset reads faceIndex out of fontData (a bare sfnt/OTTO file or a
// 'ttcf' collection) and returns a new, self-contained sfnt container
// holding exactly the glyphs reachable from gids, renumbered to dense new
// GIDs starting at 0 (glyph 0, .notdef, is always retained). It also
// returns the GID remapper used, so callers can translate any external
// glyph references (e.g. a PDF content stream) into the subset's
// numbering.
func Subset(fontData []byte, faceIndex int, gids *gidset.Set, opts sfnt.Options) ([]byte, *remap.Remapper[glyph.ID], error) {
	face, err := sfnt.ParseFace(fontData, faceIndex)
	if err != nil {
		return nil, nil, err
	}

	glyfData, isGlyf := face.Table(tagGlyf)
	cffData, isCFF := face.Table(tagCFF)
	cff2Data, isCFF2 := face.Table(tagCFF2)

	headData, ok := face.Table(tagHead)
	if !ok {
		return nil, nil, &sfnt.MissingTableError{Tag: tagHead}
	}
	maxpData, ok := face.Table(tagMaxp)
	if !ok {
		return nil, nil, &sfnt.MissingTableError{Tag: tagMaxp}
	}
	numGlyphs := maxp.NumGlyphs(maxpData)

	var loca []uint32
	if isGlyf {
		locaData, ok := face.Table(tagLoca)
		if !ok {
			return nil, nil, &sfnt.MissingTableError{Tag: tagLoca}
		}
		longLoca := headLongLoca(headData)
		loca, err = glyf.DecodeLoca(locaData, numGlyphs, longLoca)
		if err != nil {
			return nil, nil, err
		}
		// Composite glyphs reference their components by GID: unlike a
		// CFF charstring's subroutine calls, this reference crosses
		// glyph boundaries, so closure must run before the GID set is
		// frozen into a remapper.
		if err := glyf.Closure(glyfData, loca, gids); err != nil {
			return nil, nil, err
		}
	}

	gidRemap := remap.New[glyph.ID]()
	for _, g := range gids.Ascending() {
		if _, err := gidRemap.Remap(g); err != nil {
			return nil, nil, err
		}
	}

	tables := make(map[sfnt.Tag][]byte)

	var outlineOverride func(glyph.ID) ([]byte, bool)
	if opts.OutlineProvider != nil {
		outlineOverride = opts.OutlineProvider.Outline
	}

	var longLocaOut bool
	switch {
	case isGlyf:
		newGlyf, offsets, ll, err := glyf.RewriteWithOverride(glyfData, loca, gidRemap, outlineOverride)
		if err != nil {
			return nil, nil, err
		}
		longLocaOut = ll
		tables[tagGlyf] = newGlyf
		tables[tagLoca] = glyf.EncodeLoca(offsets, ll)
		copyVerbatim(face, tables, tagCvt, tagFpgm, tagPrep, tagGasp)
	case isCFF2:
		if cp, ok := opts.OutlineProvider.(cff2.CubicOutlineProvider); ok {
			newGlyf, offsets, ll, err := cff2.Transcode(gidRemap, cp)
			if err != nil {
				return nil, nil, err
			}
			longLocaOut = ll
			tables[tagGlyf] = newGlyf
			tables[tagLoca] = glyf.EncodeLoca(offsets, ll)
			break
		}
		newCFF2, err := cff2.Subset(cff2Data, gidRemap)
		if err != nil {
			return nil, nil, err
		}
		tables[tagCFF2] = newCFF2
	case isCFF:
		newCFF, err := cff.Subset(cffData, gidRemap)
		if err != nil {
			return nil, nil, err
		}
		tables[tagCFF] = newCFF
	default:
		return nil, nil, &sfnt.UnimplementedError{Feature: "sfntsubset: no glyf, CFF, or CFF2 outlines"}
	}

	newHead, err := head.Rewrite(headData, longLocaOut)
	if err != nil {
		return nil, nil, err
	}
	tables[tagHead] = newHead
	tables[tagMaxp], err = maxp.Rewrite(maxpData, gidRemap.Len())
	if err != nil {
		return nil, nil, err
	}

	if hheaData, ok := face.Table(tagHhea); ok {
		hmtxData, ok := face.Table(tagHmtx)
		if !ok {
			return nil, nil, &sfnt.MissingTableError{Tag: tagHmtx}
		}
		oldMetrics, err := hmtx.ReadAll(hmtxData, hmtx.ReadNumberOfHMetrics(hheaData), numGlyphs)
		if err != nil {
			return nil, nil, err
		}
		newMetrics := make([]hmtx.Metric, gidRemap.Len())
		for newGID, oldGID := range gidRemap.Ordered() {
			if opts.OutlineProvider != nil {
				if advance, lsb, ok := opts.OutlineProvider.HMetrics(glyph.ID(newGID)); ok {
					newMetrics[newGID] = hmtx.Metric{Advance: advance, LSB: lsb}
					continue
				}
			}
			newMetrics[newGID] = oldMetrics[oldGID]
		}
		newHmtxData, numberOfHMetrics := hmtx.Encode(newMetrics)
		tables[tagHmtx] = newHmtxData
		newHhea, err := hmtx.RewriteHhea(hheaData, numberOfHMetrics)
		if err != nil {
			return nil, nil, err
		}
		tables[tagHhea] = newHhea
	}

	if _, ok := face.Table(tagCmap); ok {
		newCmap, err := cmap.Rewrite(face, gidRemap)
		if err != nil {
			return nil, nil, err
		}
		tables[tagCmap] = newCmap
	}

	if nameData, ok := face.Table(tagName); ok {
		newName, err := name.Rewrite(nameData)
		if err != nil {
			return nil, nil, err
		}
		tables[tagName] = newName
	}

	if postData, ok := face.Table(tagPost); ok {
		newPost, err := post.Rewrite(postData, gidRemap)
		if err != nil {
			return nil, nil, err
		}
		tables[tagPost] = newPost
	}

	_, keptCFF := tables[tagCFF]
	_, keptCFF2 := tables[tagCFF2]
	copyVerbatim(face, tables, tagOS2)
	if keptCFF || keptCFF2 {
		copyVerbatim(face, tables, tagVORG)
	}
	if opts.Profile == sfnt.ProfileRendering {
		copyVerbatim(face, tables, sfnt.RenderingOnlyTags()...)
	}

	scalerType := uint32(0x00010000)
	if keptCFF || keptCFF2 {
		scalerType = 0x4F54544F // OTTO
	}
	out, err := sfnt.Assemble(scalerType, tables)
	if err != nil {
		return nil, nil, err
	}
	return out, gidRemap, nil
}

func copyVerbatim(face sfnt.Face, tables map[sfnt.Tag][]byte, tags ...sfnt.Tag) {
	for _, tag := range tags {
		if data, ok := face.Table(tag); ok {
			tables[tag] = data
		}
	}
}

func headLongLoca(head []byte) bool {
	const indexToLocFormatOffset = 50
	if len(head) < indexToLocFormatOffset+2 {
		return false
	}
	return head[indexToLocFormatOffset+1] != 0
}
