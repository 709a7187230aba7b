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

// Package bin provides the paired byte-slice reader and writer used by
// every table rewriter: big-endian fixed-width integers, zero-copy slice
// takes, and alignment padding. It performs no I/O of its own; callers
// hand it the bytes of a single table (or a whole font) already in memory.
package bin

import "errors"

// ErrShortRead is returned whenever a read would run past the end of the
// underlying data.
var ErrShortRead = errors.New("bin: short read")

// Reader wraps a byte slice and an internal cursor.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total length of the underlying data.
func (r *Reader) Len() int { return len(r.data) }

// Pos returns the current cursor position.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Jump sets the cursor to an absolute position.
func (r *Reader) Jump(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return ErrShortRead
	}
	r.pos = pos
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	return r.Jump(r.pos + n)
}

// Tail returns the remaining, unread bytes without advancing the cursor.
func (r *Reader) Tail() []byte {
	return r.data[r.pos:]
}

// Take returns the next n bytes as a zero-copy slice and advances the
// cursor past them.
func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrShortRead
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Peek returns the next n bytes without advancing the cursor.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrShortRead
	}
	return r.data[r.pos : r.pos+n], nil
}

// U8 reads an unsigned 8-bit integer.
func (r *Reader) U8() (byte, error) {
	b, err := r.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) U16() (uint16, error) {
	b, err := r.Take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// I16 reads a big-endian signed 16-bit integer.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

// U24 reads a big-endian unsigned 24-bit integer.
func (r *Reader) U24() (uint32, error) {
	b, err := r.Take(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// U32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) U32() (uint32, error) {
	b, err := r.Take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// I32 reads a big-endian signed 32-bit integer.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// Uint16Array is a lazy, zero-copy view over a packed array of big-endian
// uint16 values.
type Uint16Array struct {
	data []byte
}

// U16Array reads n consecutive uint16 values as a lazy array, advancing
// the cursor past them without allocating.
func (r *Reader) U16Array(n int) (Uint16Array, error) {
	b, err := r.Take(2 * n)
	if err != nil {
		return Uint16Array{}, err
	}
	return Uint16Array{data: b}, nil
}

// Len returns the number of elements in the array.
func (a Uint16Array) Len() int { return len(a.data) / 2 }

// Get returns the i-th element.
func (a Uint16Array) Get(i int) uint16 {
	return uint16(a.data[2*i])<<8 | uint16(a.data[2*i+1])
}
