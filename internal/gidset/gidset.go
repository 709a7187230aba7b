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

// Package gidset is the retained-glyph working set shared by closure and
// every per-table rewriter. A dense bit vector fits the GID domain (a
// contiguous 0..65535 space) far better than a map, matching the
// bit-vector idiom the wider Go ecosystem reaches for here.
package gidset

import (
	"github.com/bits-and-blooms/bitset"

	"seehuhn.de/go/sfntsubset/glyph"
)

// Set is a mutable set of glyph IDs, always containing glyph.Notdef.
type Set struct {
	bits *bitset.BitSet
	// order records first-insertion order, so closure can process newly
	// discovered GIDs in a deterministic second pass.
	order []glyph.ID
}

// New creates a set containing only glyph.Notdef.
func New() *Set {
	s := &Set{bits: bitset.New(256)}
	s.Add(glyph.Notdef)
	return s
}

// FromSlice creates a set from an explicit list of GIDs, adding
// glyph.Notdef if it is not already present.
func FromSlice(gids []glyph.ID) *Set {
	s := &Set{bits: bitset.New(256)}
	s.Add(glyph.Notdef)
	for _, g := range gids {
		s.Add(g)
	}
	return s
}

// Add inserts gid into the set, returning true if it was not already a
// member.
func (s *Set) Add(gid glyph.ID) bool {
	idx := uint(gid)
	if s.bits.Test(idx) {
		return false
	}
	s.bits.Set(idx)
	s.order = append(s.order, gid)
	return true
}

// Contains reports whether gid is a member of the set.
func (s *Set) Contains(gid glyph.ID) bool {
	return s.bits.Test(uint(gid))
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.order)
}

// Ascending returns the members sorted by original GID. The glyph closure
// algorithm inserts discovered components into the GID remapper in this
// order, so the remapping stays monotonic in the original IDs.
func (s *Set) Ascending() []glyph.ID {
	out := make([]glyph.ID, 0, len(s.order))
	for i, e := s.bits.NextSet(0); e; i, e = s.bits.NextSet(i + 1) {
		out = append(out, glyph.ID(i))
	}
	return out
}

// InsertionOrder returns the members in the order Add was first called
// for each of them.
func (s *Set) InsertionOrder() []glyph.ID {
	return s.order
}

// At returns the i-th member in insertion order. Safe to call with a
// growing i while iterating, since Add only appends.
func (s *Set) At(i int) glyph.ID {
	return s.order[i]
}
