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

func TestDecodeCharsetFormat0(t *testing.T) {
	data := []byte{0, 0x00, 0x05, 0x00, 0x06}
	sids, err := decodeCharset(data, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 5, 6}, sids)
}

func TestDecodeCharsetFormat1Ranges(t *testing.T) {
	// One range starting at SID 10, covering 3 additional glyphs (nLeft=3).
	data := []byte{1, 0x00, 0x0a, 0x03}
	sids, err := decodeCharset(data, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 10, 11, 12, 13}, sids)
}

func TestDecodeCharsetFormat2Ranges(t *testing.T) {
	data := []byte{2, 0x00, 0x64, 0x00, 0x02}
	sids, err := decodeCharset(data, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 100, 101, 102}, sids)
}

func TestDecodeCharsetEmptyIsIdentity(t *testing.T) {
	sids, err := decodeCharset(nil, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 2, 3}, sids)
}

func TestEncodeCharsetFormat0RoundTrip(t *testing.T) {
	sidsByNewGID := []uint16{0, 7, 8, 9}
	data := encodeCharsetFormat0(sidsByNewGID)
	assert.Equal(t, byte(0), data[0])

	decoded, err := decodeCharset(data, len(sidsByNewGID))
	require.NoError(t, err)
	assert.Equal(t, sidsByNewGID, decoded)
}

func TestFDSelectFormat3RoundTrip(t *testing.T) {
	fdByNewGID := []int{0, 0, 1, 1, 1, 2}
	data := encodeFDSelectFormat3(fdByNewGID)

	decoded, err := decodeFDSelect(data, len(fdByNewGID))
	require.NoError(t, err)
	assert.Equal(t, fdByNewGID, decoded)
}

func TestDecodeFDSelectFormat0(t *testing.T) {
	data := []byte{0, 0, 0, 0, 1, 1}
	decoded, err := decodeFDSelect(data, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 1, 1}, decoded)
}

func TestDecodeFDSelectUnknownFormat(t *testing.T) {
	_, err := decodeFDSelect([]byte{9}, 1)
	assert.Error(t, err)
}
