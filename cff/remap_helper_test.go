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
	"testing"

	"github.com/stretchr/testify/require"

	"seehuhn.de/go/sfntsubset/remap"
)

// remapOf builds a remap.Remapper[int] that assigns dense new indices to
// the given old indices in the order listed, for use in table-rewriter
// tests that need a prebuilt remapping without running full discovery.
func remapOf(t *testing.T, oldIndices ...int) *remap.Remapper[int] {
	t.Helper()
	r := remap.New[int]()
	for _, idx := range oldIndices {
		_, err := r.Remap(idx)
		require.NoError(t, err)
	}
	return r
}
