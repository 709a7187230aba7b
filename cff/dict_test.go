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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeDictIntegers(t *testing.T) {
	entries := Dict{
		{Op: opUnderlinePos, Operands: []float64{-100}},
		{Op: opBlueScale, Operands: []float64{0, 108, -108, 1131, -1131, 32767, -32768}},
	}
	data, patchAt := encodeDict(entries, nil)
	assert.Empty(t, patchAt)

	got, err := decodeDict(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float64{-100}, got[0].Operands)
	assert.Equal(t, uint16(opUnderlinePos), got[0].Op)
	assert.Equal(t, []float64{0, 108, -108, 1131, -1131, 32767, -32768}, got[1].Operands)
	assert.Equal(t, uint16(opBlueScale), got[1].Op)
}

func TestEncodeDictTwoByteOperator(t *testing.T) {
	entries := Dict{{Op: opFontMatrix, Operands: []float64{1, 0, 0, 1, 0, 0}}}
	data, _ := encodeDict(entries, nil)

	got, err := decodeDict(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint16(opFontMatrix), got[0].Op)
	assert.Equal(t, []float64{1, 0, 0, 1, 0, 0}, got[0].Operands)
}

func TestEncodeDictPlaceholderAndPatch(t *testing.T) {
	entries := Dict{
		{Op: opCharset},
		{Op: opCharStrings},
	}
	placeholders := map[uint16]bool{opCharset: true, opCharStrings: true}
	data, patchAt := encodeDict(entries, placeholders)

	require.Contains(t, patchAt, uint16(opCharset))
	require.Contains(t, patchAt, uint16(opCharStrings))

	patchPlaceholder(data, patchAt[opCharset], 12345)
	patchPlaceholder(data, patchAt[opCharStrings], 99)

	got, err := decodeDict(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float64{12345}, got[0].Operands)
	assert.Equal(t, []float64{99}, got[1].Operands)
}

func TestDecodeRealOperand(t *testing.T) {
	// 30 introduces a real number; nibbles encode "-2.5" followed by the
	// 0xf terminator: e=-, 2, a=., 5, f=end.
	data := []byte{30, 0xe2, 0xa5, 0xf0}
	got, err := decodeDict(append(data, 12, byte(opUnderlinePos-1200)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, -2.5, got[0].Operands[0], 1e-9)
}

func TestDictGetAndGetInt(t *testing.T) {
	d := Dict{{Op: opUnderlinePos, Operands: []float64{42}}}
	ops, ok := d.Get(opUnderlinePos)
	require.True(t, ok)
	assert.Equal(t, []float64{42}, ops)

	n, ok := d.GetInt(opUnderlinePos)
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = d.Get(opBlueScale)
	assert.False(t, ok)
}

func TestDecodeDictReservedByte(t *testing.T) {
	_, err := decodeDict([]byte{31})
	assert.Error(t, err)
}
