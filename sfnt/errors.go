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

import (
	"errors"
	"fmt"
)

// UnknownKindError is returned when the source bytes do not start with a
// recognized sfnt, OpenType-CFF, or font-collection magic.
type UnknownKindError struct {
	Magic uint32
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("sfnt: unknown container kind (magic %#08x)", e.Magic)
}

// NestedCollectionError is returned when a font-collection header points
// at another collection.
type NestedCollectionError struct{}

func (e *NestedCollectionError) Error() string {
	return "sfnt: nested font collections are not supported"
}

// InvalidOffsetError is returned when an offset falls outside the source
// bytes, or is zero where a non-zero offset is required.
type InvalidOffsetError struct {
	Offset, Limit int
}

func (e *InvalidOffsetError) Error() string {
	return fmt.Sprintf("sfnt: invalid offset %d (limit %d)", e.Offset, e.Limit)
}

// MissingDataError is returned on any short read.
type MissingDataError struct {
	Need, Have int
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("sfnt: missing data (need %d, have %d)", e.Need, e.Have)
}

// MissingTableError is returned when a table required for the requested
// operation is absent from the face.
type MissingTableError struct {
	Tag Tag
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("sfnt: missing table %q", e.Tag.String())
}

// MalformedFontError indicates a structural violation: a malformed INDEX,
// an out-of-range operand, a truncated charstring, and so on.
type MalformedFontError struct {
	Reason string
}

func (e *MalformedFontError) Error() string {
	return "sfnt: malformed font: " + e.Reason
}

// SubsetError indicates an internal inconsistency, such as a remapper
// lookup failing for an id that should have been retained.
type SubsetError struct {
	Reason string
}

func (e *SubsetError) Error() string {
	return "sfnt: subset error: " + e.Reason
}

// UnimplementedError is returned when the input requires a feature the
// subsetter does not handle (a non-Unicode-only cmap, a CFF major version
// other than 1, a seac-using charstring, and so on).
type UnimplementedError struct {
	Feature string
}

func (e *UnimplementedError) Error() string {
	return "sfnt: unimplemented: " + e.Feature
}

// IsUnimplemented returns true if the error is an UnimplementedError:
// the font is (presumably) valid, but uses a feature the subsetter does
// not handle.
func IsUnimplemented(err error) bool {
	var target *UnimplementedError
	return errors.As(err, &target)
}

// IsMalformed returns true if the error is a MalformedFontError.
func IsMalformed(err error) bool {
	var target *MalformedFontError
	return errors.As(err, &target)
}
