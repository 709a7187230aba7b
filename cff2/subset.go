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

import (
	"sort"

	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
)

type localCtx struct {
	subrs [][]byte
	seen  map[int]bool
	remap *remap.Remapper[int]
}

func newLocalCtx(subrs [][]byte) *localCtx {
	return &localCtx{subrs: subrs, seen: make(map[int]bool)}
}

func sortedKeys(seen map[int]bool) []int {
	keys := make([]int, 0, len(seen))
	for k, v := range seen {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)
	return keys
}

func (c *localCtx) buildRemap() error {
	c.remap = remap.New[int]()
	for _, k := range sortedKeys(c.seen) {
		if _, err := c.remap.Remap(k); err != nil {
			return err
		}
	}
	return nil
}

// allowedPrivateOpsCFF2 lists Private DICT operators carried over
// unchanged; CFF2 drops defaultWidthX/nominalWidthX entirely since glyph
// widths no longer live in the charstring.
var allowedPrivateOpsCFF2 = []uint16{
	6, 7, 8, 9, 10, 11, // BlueValues, OtherBlues, FamilyBlues, FamilyOtherBlues, StdHW, StdVW
	1209, 1210, 1211, 1212, 1213, 1214, 1217, 1218, 1219, // Blue/StemSnap/ForceBold/LanguageGroup/ExpansionFactor/initialRandomSeed
	opVSIndex, opBlend,
}

func buildPrivateDict(orig Dict, hasLocalSubrs bool) (data []byte, subrsPatchAt int) {
	for _, op := range allowedPrivateOpsCFF2 {
		if ops, ok := orig.Get(op); ok {
			for _, v := range ops {
				data = append(data, encodeDictNumber(v)...)
			}
			data = append(data, encodeOperator(op)...)
		}
	}
	subrsPatchAt = -1
	if hasLocalSubrs {
		subrsPatchAt = len(data)
		data = append(data, placeholderOffset()...)
		data = append(data, encodeOperator(opSubrs)...)
	}
	return data, subrsPatchAt
}

func appendPrivateEntry(buf []byte, privSize int) (out []byte, patchAt int) {
	buf = append(buf, encodeDictInt(privSize)...)
	patchAt = len(buf)
	buf = append(buf, placeholderOffset()...)
	buf = append(buf, encodeOperator(opPrivate)...)
	return buf, patchAt
}

func rewriteSubrSet(ctx *localCtx, globalRemap *remap.Remapper[int], globalSubrs [][]byte, localForCalls *localCtx) ([][]byte, error) {
	out := make([][]byte, ctx.remap.Len())
	oldGlobalBias := bias(len(globalSubrs))
	newGlobalBias := bias(globalRemap.Len())
	oldLocalBias := bias(len(localForCalls.subrs))
	newLocalBias := bias(localForCalls.remap.Len())
	for newIdx, oldIdx := range ctx.remap.Ordered() {
		rewritten, err := rewriteCalls(ctx.subrs[oldIdx], globalRemap, localForCalls.remap, oldGlobalBias, oldLocalBias, newGlobalBias, newLocalBias)
		if err != nil {
			return nil, err
		}
		out[newIdx] = rewritten
	}
	return out, nil
}

// Subset rebuilds a "CFF2" table containing exactly the glyphs named by
// gidRemap, renumbered to its new GIDs. CFF2 glyphs have no
// composite/component model of their own, so unlike glyf there is no
// closure step: gidRemap is simply the caller's requested GID set in
// ascending order.
func Subset(data []byte, gidRemap *remap.Remapper[glyph.ID]) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}

	ordered := gidRemap.Ordered()
	numNew := len(ordered)

	fdOf := func(oldGID int) int {
		if f.FDSelect == nil {
			return 0
		}
		return f.FDSelect[oldGID]
	}

	globalSeen := make(map[int]bool)
	globalRemap := remap.New[int]()
	fdCtxs := make(map[int]*localCtx)
	getCtx := func(fd int) *localCtx {
		c, ok := fdCtxs[fd]
		if !ok {
			c = newLocalCtx(f.FDArray[fd].LocalSubrs)
			fdCtxs[fd] = c
		}
		return c
	}

	newFDByNewGID := make([]int, numNew)
	for newGID, oldGIDk := range ordered {
		oldGID := int(oldGIDk)
		if oldGID >= len(f.CharStrings) {
			return nil, &sfnt.SubsetError{Reason: "cff2: retained GID out of range"}
		}
		fd := fdOf(oldGID)
		newFDByNewGID[newGID] = fd
		ctx := getCtx(fd)
		if err := discover(f.CharStrings[oldGID], f.GlobalSubrs, ctx.subrs, 0, globalSeen, ctx.seen); err != nil {
			return nil, err
		}
	}

	for _, k := range sortedKeys(globalSeen) {
		if _, err := globalRemap.Remap(k); err != nil {
			return nil, err
		}
	}
	for _, c := range fdCtxs {
		if err := c.buildRemap(); err != nil {
			return nil, err
		}
	}

	var fallback *localCtx
	for fd := 0; fd < len(f.FDArray); fd++ {
		if c, ok := fdCtxs[fd]; ok {
			fallback = c
			break
		}
	}
	if fallback == nil {
		fallback = newLocalCtx(nil)
		if err := fallback.buildRemap(); err != nil {
			return nil, err
		}
	}

	newCharStrings := make([][]byte, numNew)
	for newGID, oldGIDk := range ordered {
		oldGID := int(oldGIDk)
		ctx := getCtx(newFDByNewGID[newGID])
		rewritten, err := rewriteCalls(f.CharStrings[oldGID], globalRemap, ctx.remap,
			bias(len(f.GlobalSubrs)), bias(len(ctx.subrs)), bias(globalRemap.Len()), bias(ctx.remap.Len()))
		if err != nil {
			return nil, err
		}
		newCharStrings[newGID] = rewritten
	}

	globalCtx := &localCtx{subrs: f.GlobalSubrs, remap: globalRemap}
	newGlobalSubrs, err := rewriteSubrSet(globalCtx, globalRemap, f.GlobalSubrs, fallback)
	if err != nil {
		return nil, err
	}

	fdLocalSubrs := make(map[int][][]byte)
	for fd, c := range fdCtxs {
		subrs, err := rewriteSubrSet(c, globalRemap, f.GlobalSubrs, c)
		if err != nil {
			return nil, err
		}
		fdLocalSubrs[fd] = subrs
	}

	// --- Top DICT --------------------------------------------------------
	var topEntries Dict
	if ops, ok := f.TopDict.Get(opFontMatrix); ok {
		topEntries = append(topEntries, DictEntry{Op: opFontMatrix, Operands: ops})
	}
	topEntries = append(topEntries, DictEntry{Op: opCharStrings})
	topEntries = append(topEntries, DictEntry{Op: opFDArray})
	placeholders := map[uint16]bool{opCharStrings: true, opFDArray: true}
	multiFD := len(f.FDArray) > 1
	if multiFD {
		topEntries = append(topEntries, DictEntry{Op: opFDSelect})
		placeholders[opFDSelect] = true
	}
	topDictBody, patchAt := encodeDict(topEntries, placeholders)

	// --- FD Array --------------------------------------------------------
	fdDictBytesList := make([][]byte, len(f.FDArray))
	fdPrivBodies := make([][]byte, len(f.FDArray))
	fdSubrsPatchAts := make([]int, len(f.FDArray))
	fdPrivatePatchAts := make([]int, len(f.FDArray))
	for i, fd := range f.FDArray {
		ctx, used := fdCtxs[i]
		hasLocalSubrs := used && ctx.remap.Len() > 0

		priv, subrsPatchAt := buildPrivateDict(fd.Private, hasLocalSubrs)
		fdPrivBodies[i] = priv
		fdSubrsPatchAts[i] = subrsPatchAt

		var fdEntries Dict
		if ops, ok := fd.Dict.Get(opFontMatrix); ok {
			fdEntries = append(fdEntries, DictEntry{Op: opFontMatrix, Operands: ops})
		}
		fdBody, _ := encodeDict(fdEntries, nil)
		fdBody, patch := appendPrivateEntry(fdBody, len(priv))
		fdDictBytesList[i] = fdBody
		fdPrivatePatchAts[i] = patch
	}

	// --- Layout (no Name/String/Charset sections in CFF2) ----------------
	globalSubrIndexBytes := encodeIndex(newGlobalSubrs)
	var fdSelectBytes []byte
	if multiFD {
		fdSelectBytes = encodeFDSelectFormat3(newFDByNewGID)
	}
	charStringsIndexBytes := encodeIndex(newCharStrings)
	fdArrayIndexBytes, fdArrayObjStarts := encodeIndexWithOffsets(fdDictBytesList)

	const hdrSize = 5
	var out []byte
	out = append(out, 2, 0, hdrSize, byte(len(topDictBody)>>8), byte(len(topDictBody)))
	topDictAbsBase := len(out)
	out = append(out, topDictBody...)

	out = append(out, globalSubrIndexBytes...)

	var fdSelectStart int
	if multiFD {
		fdSelectStart = len(out)
		out = append(out, fdSelectBytes...)
	}

	charStringsStart := len(out)
	out = append(out, charStringsIndexBytes...)

	fdArrayStart := len(out)
	out = append(out, fdArrayIndexBytes...)

	patchPlaceholder(out, topDictAbsBase+patchAt[opCharStrings], charStringsStart)
	patchPlaceholder(out, topDictAbsBase+patchAt[opFDArray], fdArrayStart)
	if multiFD {
		patchPlaceholder(out, topDictAbsBase+patchAt[opFDSelect], fdSelectStart)
	}

	for i := range f.FDArray {
		privStart := len(out)
		out = append(out, fdPrivBodies[i]...)
		if fdSubrsPatchAts[i] >= 0 {
			localSubrsStart := len(out)
			out = append(out, encodeIndex(fdLocalSubrs[i])...)
			patchPlaceholder(out, privStart+fdSubrsPatchAts[i], localSubrsStart-privStart)
		}
		patchPlaceholder(out, fdArrayStart+fdArrayObjStarts[i]+fdPrivatePatchAts[i], privStart)
	}

	return out, nil
}
