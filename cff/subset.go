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

import (
	"sort"

	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
)

// localCtx tracks one local-subroutine arena (the font's single arena for
// a non-CID font, or one per Font DICT for a CID font) through discovery
// and remapping.
type localCtx struct {
	subrs [][]byte
	seen  map[int]bool
	remap *remap.Remapper[int]
}

func newLocalCtx(subrs [][]byte) *localCtx {
	return &localCtx{subrs: subrs, seen: make(map[int]bool)}
}

// sortedKeys returns the keys of seen set to true, in ascending order, so
// that remapping assigns dense new indices by ascending original index
// rather than by discovery order.
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

// passthroughTopOps lists Top DICT operators that are copied verbatim
// (neither a SID nor an offset operand) when present.
var passthroughTopOps = []uint16{
	opFontBBox, opIsFixedPitch, opItalicAngle, opUnderlinePos, opUnderlineThk,
	opPaintType, opCharstrType, opFontMatrix, opStrokeWidth,
	opCIDFontVer, opCIDFontRev, opCIDFontType, opCIDCount, opUIDBase,
}

// allowedPrivateOps lists Private DICT operators copied verbatim; Subrs
// is handled separately since its offset is only known after layout.
var allowedPrivateOps = []uint16{
	opBlueValues, opOtherBlues, opFamilyBlues, opFamilyOtherBlu,
	opStdHW, opStdVW, opBlueScale, opBlueShift, opBlueFuzz,
	opStemSnapH, opStemSnapV, opForceBold, opLanguageGrp,
	opExpanFactor, opInitRandSeed, opDefaultWidthX, opNominalWidthX,
}

// buildPrivateDict copies the allow-listed Private DICT operators from
// orig and, if hasLocalSubrs, appends a Subrs entry with a placeholder
// offset whose position (relative to the start of the returned data) is
// returned as subrsPatchAt; -1 means no Subrs entry was written.
func buildPrivateDict(orig Dict, hasLocalSubrs bool) (data []byte, subrsPatchAt int) {
	for _, op := range allowedPrivateOps {
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

// appendPrivateEntry appends a Private DICT entry (size, offset) to buf,
// with an immediate size operand and a placeholder offset operand, and
// returns the position of the placeholder's first byte.
func appendPrivateEntry(buf []byte, privSize int) (out []byte, patchAt int) {
	buf = append(buf, encodeDictInt(privSize)...)
	patchAt = len(buf)
	buf = append(buf, placeholderOffset()...)
	buf = append(buf, encodeOperator(opPrivate)...)
	return buf, patchAt
}

// rewriteSubrSet rewrites every subroutine in ctx (in new-index order)
// against the global and local remappers, using localForCalls as the
// local context in effect while interpreting callsubr inside each body.
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

// Subset rebuilds a "CFF " table containing exactly the glyphs named by
// gidRemap, renumbered to its new GIDs. gidRemap must already
// be built in ascending-original-GID order.
func Subset(data []byte, gidRemap *remap.Remapper[glyph.ID]) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}

	ordered := gidRemap.Ordered() // new GID -> old GID
	numNew := len(ordered)

	globalSeen := make(map[int]bool)
	globalRemap := remap.New[int]()

	var nonCIDCtx *localCtx
	fdCtxs := make(map[int]*localCtx)
	getCtx := func(fd int) *localCtx {
		if f.IsCID {
			c, ok := fdCtxs[fd]
			if !ok {
				c = newLocalCtx(f.FDArray[fd].LocalSubrs)
				fdCtxs[fd] = c
			}
			return c
		}
		if nonCIDCtx == nil {
			nonCIDCtx = newLocalCtx(f.LocalSubrs)
		}
		return nonCIDCtx
	}

	newFDByNewGID := make([]int, numNew)
	for newGID, oldGID := range ordered {
		if int(oldGID) >= len(f.CharStrings) {
			return nil, &sfnt.SubsetError{Reason: "cff: retained GID out of range"}
		}
		fd := 0
		if f.IsCID {
			fd = f.FDSelect[oldGID]
		}
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
	if nonCIDCtx != nil {
		if err := nonCIDCtx.buildRemap(); err != nil {
			return nil, err
		}
	}
	for _, c := range fdCtxs {
		if err := c.buildRemap(); err != nil {
			return nil, err
		}
	}

	// A global subroutine calling callsubr is ambiguous in a CID font,
	// since the same global subr body can be reached from glyphs in
	// different FDs with distinct local-subr arenas; it is resolved here
	// against a single chosen FD context, matching the common case where
	// global subroutines restrict themselves to callgsubr only.
	fallback := nonCIDCtx
	if fallback == nil {
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
	}

	newCharStrings := make([][]byte, numNew)
	for newGID, oldGID := range ordered {
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

	var newLocalSubrsNonCID [][]byte
	fdLocalSubrs := make(map[int][][]byte)
	if nonCIDCtx != nil {
		newLocalSubrsNonCID, err = rewriteSubrSet(nonCIDCtx, globalRemap, f.GlobalSubrs, nonCIDCtx)
		if err != nil {
			return nil, err
		}
	}
	for fd, c := range fdCtxs {
		subrs, err := rewriteSubrSet(c, globalRemap, f.GlobalSubrs, c)
		if err != nil {
			return nil, err
		}
		fdLocalSubrs[fd] = subrs
	}

	// --- SID collection ---------------------------------------------------
	sidRemap := newSIDRemapper()
	neededSIDs := make(map[uint16]bool)
	if !f.IsCID {
		// For CID-keyed fonts the charset array holds CIDs, not SIDs into
		// the string table, so they never enter the SID remapper.
		for newGID := 1; newGID < numNew; newGID++ {
			neededSIDs[f.Charset[ordered[newGID]]] = true
		}
	}
	for _, op := range sidOperators {
		if ops, ok := f.TopDict.Get(op); ok && len(ops) > 0 {
			neededSIDs[uint16(ops[0])] = true
		}
	}
	hasROS := false
	var rosRegOld, rosOrdOld uint16
	var rosSupplement float64
	if ops, ok := f.TopDict.Get(opROS); ok && len(ops) >= 3 {
		hasROS = true
		rosRegOld, rosOrdOld = uint16(ops[0]), uint16(ops[1])
		rosSupplement = ops[2]
		neededSIDs[rosRegOld] = true
		neededSIDs[rosOrdOld] = true
	}
	if f.IsCID {
		for i := range f.FDArray {
			if ops, ok := f.FDArray[i].Dict.Get(opFontName); ok && len(ops) > 0 {
				neededSIDs[uint16(ops[0])] = true
			}
		}
	}
	sidKeys := make([]int, 0, len(neededSIDs))
	for k := range neededSIDs {
		sidKeys = append(sidKeys, int(k))
	}
	sort.Ints(sidKeys)
	for _, k := range sidKeys {
		if _, err := sidRemap.use(uint16(k)); err != nil {
			return nil, err
		}
	}

	newCharset := make([]uint16, numNew)
	for newGID := 1; newGID < numNew; newGID++ {
		if f.IsCID {
			newCharset[newGID] = f.Charset[ordered[newGID]]
		} else {
			newCharset[newGID] = sidRemap.get(f.Charset[ordered[newGID]])
		}
	}

	// --- Top DICT ----------------------------------------------------------
	var topEntries Dict
	for _, op := range passthroughTopOps {
		if ops, ok := f.TopDict.Get(op); ok {
			topEntries = append(topEntries, DictEntry{Op: op, Operands: ops})
		}
	}
	for _, op := range sidOperators {
		if ops, ok := f.TopDict.Get(op); ok && len(ops) > 0 {
			topEntries = append(topEntries, DictEntry{Op: op, Operands: []float64{float64(sidRemap.get(uint16(ops[0])))}})
		}
	}
	if hasROS {
		topEntries = append(topEntries, DictEntry{
			Op:       opROS,
			Operands: []float64{float64(sidRemap.get(rosRegOld)), float64(sidRemap.get(rosOrdOld)), rosSupplement},
		})
	}
	topEntries = append(topEntries, DictEntry{Op: opCharset})
	topEntries = append(topEntries, DictEntry{Op: opCharStrings})
	placeholders := map[uint16]bool{opCharset: true, opCharStrings: true}
	if f.IsCID {
		topEntries = append(topEntries, DictEntry{Op: opFDArray})
		topEntries = append(topEntries, DictEntry{Op: opFDSelect})
		placeholders[opFDArray] = true
		placeholders[opFDSelect] = true
	}
	topDictBody, patchAt := encodeDict(topEntries, placeholders)

	var privBody []byte
	privSubrsPatchAt := -1
	var topPrivatePatchAt int
	if !f.IsCID {
		hasLocalSubrs := nonCIDCtx != nil && nonCIDCtx.remap.Len() > 0
		privBody, privSubrsPatchAt = buildPrivateDict(f.Private, hasLocalSubrs)
		topDictBody, topPrivatePatchAt = appendPrivateEntry(topDictBody, len(privBody))
	}

	// --- FD Array (CID only) -------------------------------------------
	var fdDictBytesList [][]byte
	var fdPrivBodies [][]byte
	var fdSubrsPatchAts []int
	var fdPrivatePatchAts []int
	if f.IsCID {
		fdDictBytesList = make([][]byte, len(f.FDArray))
		fdPrivBodies = make([][]byte, len(f.FDArray))
		fdSubrsPatchAts = make([]int, len(f.FDArray))
		fdPrivatePatchAts = make([]int, len(f.FDArray))
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
			if ops, ok := fd.Dict.Get(opFontName); ok && len(ops) > 0 {
				fdEntries = append(fdEntries, DictEntry{Op: opFontName, Operands: []float64{float64(sidRemap.get(uint16(ops[0])))}})
			}
			fdBody, _ := encodeDict(fdEntries, nil)
			fdBody, patch := appendPrivateEntry(fdBody, len(priv))
			fdDictBytesList[i] = fdBody
			fdPrivatePatchAts[i] = patch
		}
	}

	// --- Layout ----------------------------------------------------------
	nameIndexBytes := encodeIndex([][]byte{[]byte(f.FontName)})
	topDictIndexBytes, topDictObjStarts := encodeIndexWithOffsets([][]byte{topDictBody})
	stringIndexBytes := encodeIndex(sidRemap.strings(f.Strings))
	globalSubrIndexBytes := encodeIndex(newGlobalSubrs)
	charsetBytes := encodeCharsetFormat0(newCharset)
	var fdSelectBytes []byte
	if f.IsCID {
		fdSelectBytes = encodeFDSelectFormat3(newFDByNewGID)
	}
	charStringsIndexBytes := encodeIndex(newCharStrings)

	var out []byte
	out = append(out, 1, 0, 4, 4)

	out = append(out, nameIndexBytes...)

	topDictIndexStart := len(out)
	out = append(out, topDictIndexBytes...)
	topDictAbsBase := topDictIndexStart + topDictObjStarts[0]

	out = append(out, stringIndexBytes...)
	out = append(out, globalSubrIndexBytes...)

	charsetStart := len(out)
	out = append(out, charsetBytes...)

	var fdSelectStart int
	if f.IsCID {
		fdSelectStart = len(out)
		out = append(out, fdSelectBytes...)
	}

	charStringsStart := len(out)
	out = append(out, charStringsIndexBytes...)

	patchPlaceholder(out, topDictAbsBase+patchAt[opCharset], charsetStart)
	patchPlaceholder(out, topDictAbsBase+patchAt[opCharStrings], charStringsStart)

	if f.IsCID {
		fdArrayIndexBytes, fdArrayObjStarts := encodeIndexWithOffsets(fdDictBytesList)
		fdArrayStart := len(out)
		out = append(out, fdArrayIndexBytes...)
		patchPlaceholder(out, topDictAbsBase+patchAt[opFDArray], fdArrayStart)
		patchPlaceholder(out, topDictAbsBase+patchAt[opFDSelect], fdSelectStart)

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
	} else {
		privStart := len(out)
		out = append(out, privBody...)
		if privSubrsPatchAt >= 0 {
			localSubrsStart := len(out)
			out = append(out, encodeIndex(newLocalSubrsNonCID)...)
			patchPlaceholder(out, privStart+privSubrsPatchAt, localSubrsStart-privStart)
		}
		patchPlaceholder(out, topDictAbsBase+topPrivatePatchAt, privStart)
	}

	return out, nil
}
