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

import "seehuhn.de/go/sfntsubset/remap"

// firstCustomSID is the first string ID assigned to a font's own String
// INDEX; SIDs below it name one of the 391 standard strings and are never
// remapped or carried in the output String INDEX.
const firstCustomSID = 391

// sidRemapper remaps custom string IDs (SID >= 391) to a dense range
// starting at 391, leaving standard SIDs (< 391) as the identity. It
// wraps the generic Remapper the same way GID and subroutine remapping
// do, offsetting its output by firstCustomSID.
type sidRemapper struct {
	r *remap.Remapper[uint16]
}

func newSIDRemapper() *sidRemapper {
	return &sidRemapper{r: remap.New[uint16]()}
}

// use records sid as needed by the output font and returns its new value.
func (s *sidRemapper) use(sid uint16) (uint16, error) {
	if sid < firstCustomSID {
		return sid, nil
	}
	n, err := s.r.Remap(sid)
	if err != nil {
		return 0, err
	}
	return uint16(firstCustomSID + n), nil
}

// get looks up an already-used SID without assigning a new one.
func (s *sidRemapper) get(sid uint16) uint16 {
	if sid < firstCustomSID {
		return sid
	}
	n, ok := s.r.Get(sid)
	if !ok {
		return 0
	}
	return uint16(firstCustomSID + n)
}

// strings returns the custom strings for the output String INDEX, in new
// SID order.
func (s *sidRemapper) strings(orig []string) [][]byte {
	out := make([][]byte, s.r.Len())
	for newIdx, oldSID := range s.r.Ordered() {
		out[newIdx] = []byte(orig[oldSID-firstCustomSID])
	}
	return out
}

// sidOperators lists the Top DICT operators whose sole operand is a SID.
var sidOperators = []uint16{opVersion, opNotice, opFullName, opFamilyName, opWeight, opCopyright, opPostScript, opBaseFontName}
