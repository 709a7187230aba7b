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

import "seehuhn.de/go/sfntsubset/glyph"

// Profile selects which of the optional, presentation-only table groups
// are retained.
type Profile int

const (
	// ProfilePDF drops bitmap/color tables; the embedding consumer is
	// assumed to rasterize outlines itself.
	ProfilePDF Profile = iota
	// ProfileRendering keeps bitmap/color tables (EBDT/EBLC/EBSC,
	// CBDT/CBLC, sbix, COLR/CPAL, SVG ) for direct rendering use.
	ProfileRendering
)

// OutlineProvider is consumed only when producing variable-font instances:
// it lets a caller override a glyph's horizontal metrics and/or outline
// data instead of taking them from the source font directly. The core
// implementation passes a nil provider and reads the source font.
type OutlineProvider interface {
	// HMetrics returns the (advanceWidth, lsb) pair for gid, if this
	// provider has one to offer.
	HMetrics(gid glyph.ID) (advance uint16, lsb int16, ok bool)
	// Outline returns TrueType-compatible glyf data for gid, if this
	// provider has one to offer.
	Outline(gid glyph.ID) (data []byte, ok bool)
}

// Options configures a single Subset call.
type Options struct {
	Profile         Profile
	OutlineProvider OutlineProvider
}
