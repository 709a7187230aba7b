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

package gidset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seehuhn.de/go/sfntsubset/glyph"
)

func TestNewAlwaysContainsNotdef(t *testing.T) {
	s := New()
	assert.True(t, s.Contains(glyph.Notdef))
	assert.Equal(t, 1, s.Len())
}

func TestAddReportsFirstInsertion(t *testing.T) {
	s := New()
	assert.True(t, s.Add(5))
	assert.False(t, s.Add(5))
	assert.Equal(t, 2, s.Len())
}

func TestAscendingIsSortedRegardlessOfInsertionOrder(t *testing.T) {
	s := New()
	s.Add(9)
	s.Add(3)
	s.Add(7)
	assert.Equal(t, []glyph.ID{0, 3, 7, 9}, s.Ascending())
}

func TestInsertionOrderAndAt(t *testing.T) {
	s := New()
	s.Add(9)
	s.Add(3)
	assert.Equal(t, []glyph.ID{0, 9, 3}, s.InsertionOrder())
	assert.Equal(t, glyph.ID(9), s.At(1))
}

func TestFromSliceAddsNotdef(t *testing.T) {
	s := FromSlice([]glyph.ID{4, 5})
	assert.True(t, s.Contains(glyph.Notdef))
	assert.True(t, s.Contains(4))
	assert.True(t, s.Contains(5))
	assert.Equal(t, 3, s.Len())
}
