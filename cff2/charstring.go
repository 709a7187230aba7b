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

package cff2

import (
	"seehuhn.de/go/sfntsubset/remap"
	"seehuhn.de/go/sfntsubset/sfnt"
)

const maxSubrDepth = 10

// discover walks a CFF2 charstring just far enough to enumerate the local
// and global subroutines it (transitively) reaches, mirroring
// cff.discover. CFF2 charstrings never carry a leading width operand and
// have no endchar/seac construct, so there is nothing analogous to
// reject here.
func discover(data []byte, globalSubrs, localSubrs [][]byte, depth int, seenGlobal, seenLocal map[int]bool) error {
	if depth > maxSubrDepth {
		return &sfnt.MalformedFontError{Reason: "cff2: subroutine recursion too deep"}
	}
	gbias := bias(len(globalSubrs))
	lbias := bias(len(localSubrs))

	var stack []float64
	nStems := 0
	pos := 0
	for pos < len(data) {
		b0 := data[pos]
		switch {
		case b0 == 28:
			if pos+3 > len(data) {
				return &sfnt.MalformedFontError{Reason: "cff2: truncated charstring integer"}
			}
			v := int16(uint16(data[pos+1])<<8 | uint16(data[pos+2]))
			stack = append(stack, float64(v))
			pos += 3
		case b0 >= 32 && b0 <= 246:
			stack = append(stack, float64(int(b0)-139))
			pos++
		case b0 >= 247 && b0 <= 250:
			if pos+2 > len(data) {
				return &sfnt.MalformedFontError{Reason: "cff2: truncated charstring integer"}
			}
			stack = append(stack, float64((int(b0)-247)*256+int(data[pos+1])+108))
			pos += 2
		case b0 >= 251 && b0 <= 254:
			if pos+2 > len(data) {
				return &sfnt.MalformedFontError{Reason: "cff2: truncated charstring integer"}
			}
			stack = append(stack, float64(-(int(b0)-251)*256-int(data[pos+1])-108))
			pos += 2
		case b0 == 255:
			if pos+5 > len(data) {
				return &sfnt.MalformedFontError{Reason: "cff2: truncated charstring fixed"}
			}
			v := int32(uint32(data[pos+1])<<24 | uint32(data[pos+2])<<16 | uint32(data[pos+3])<<8 | uint32(data[pos+4]))
			stack = append(stack, float64(v)/65536)
			pos += 5
		case b0 == 1 || b0 == 3 || b0 == 18 || b0 == 23:
			nStems += len(stack) / 2
			stack = stack[:0]
			pos++
		case b0 == 19 || b0 == 20:
			nStems += len(stack) / 2
			stack = stack[:0]
			pos++
			nbytes := (nStems + 7) / 8
			if pos+nbytes > len(data) {
				return &sfnt.MalformedFontError{Reason: "cff2: truncated hintmask"}
			}
			pos += nbytes
		case b0 == 10: // callsubr
			if len(stack) == 0 {
				return &sfnt.MalformedFontError{Reason: "cff2: callsubr with empty stack"}
			}
			idx := int(stack[len(stack)-1]) + lbias
			stack = stack[:len(stack)-1]
			if idx < 0 || idx >= len(localSubrs) {
				return &sfnt.MalformedFontError{Reason: "cff2: local subroutine index out of range"}
			}
			if !seenLocal[idx] {
				seenLocal[idx] = true
				if err := discover(localSubrs[idx], globalSubrs, localSubrs, depth+1, seenGlobal, seenLocal); err != nil {
					return err
				}
			}
			pos++
		case b0 == 29: // callgsubr
			if len(stack) == 0 {
				return &sfnt.MalformedFontError{Reason: "cff2: callgsubr with empty stack"}
			}
			idx := int(stack[len(stack)-1]) + gbias
			stack = stack[:len(stack)-1]
			if idx < 0 || idx >= len(globalSubrs) {
				return &sfnt.MalformedFontError{Reason: "cff2: global subroutine index out of range"}
			}
			if !seenGlobal[idx] {
				seenGlobal[idx] = true
				if err := discover(globalSubrs[idx], globalSubrs, localSubrs, depth+1, seenGlobal, seenLocal); err != nil {
					return err
				}
			}
			pos++
		case b0 == 11: // return
			return nil
		case b0 == 12:
			if pos+1 >= len(data) {
				return &sfnt.MalformedFontError{Reason: "cff2: truncated escape operator"}
			}
			pos += 2
			stack = stack[:0]
		default:
			pos++
			stack = stack[:0]
		}
	}
	return nil
}

func encodeCharstringInt(v int) []byte {
	switch {
	case v >= -107 && v <= 107:
		return []byte{byte(v + 139)}
	case v >= 108 && v <= 1131:
		v2 := v - 108
		return []byte{byte(v2>>8) + 247, byte(v2)}
	case v >= -1131 && v <= -108:
		v2 := -v - 108
		return []byte{byte(v2>>8) + 251, byte(v2)}
	default:
		return []byte{28, byte(v >> 8), byte(v)}
	}
}

// rewriteCalls re-encodes a CFF2 charstring's callsubr/callgsubr operands
// under new subroutine numbering, leaving every other byte untouched;
// see cff.rewriteCalls, which this mirrors.
func rewriteCalls(data []byte, globalRemap, localRemap *remap.Remapper[int], oldGlobalBias, oldLocalBias, newGlobalBias, newLocalBias int) ([]byte, error) {
	type operand struct {
		value      float64
		start, end int
	}
	var stack []operand
	var out []byte
	lastCopied := 0
	nStems := 0
	pos := 0

	for pos < len(data) {
		b0 := data[pos]
		start := pos
		switch {
		case b0 == 28:
			if pos+3 > len(data) {
				return nil, &sfnt.MalformedFontError{Reason: "cff2: truncated charstring integer"}
			}
			v := int16(uint16(data[pos+1])<<8 | uint16(data[pos+2]))
			stack = append(stack, operand{float64(v), start, pos + 3})
			pos += 3
		case b0 >= 32 && b0 <= 246:
			stack = append(stack, operand{float64(int(b0) - 139), start, pos + 1})
			pos++
		case b0 >= 247 && b0 <= 250:
			if pos+2 > len(data) {
				return nil, &sfnt.MalformedFontError{Reason: "cff2: truncated charstring integer"}
			}
			v := float64((int(b0)-247)*256 + int(data[pos+1]) + 108)
			stack = append(stack, operand{v, start, pos + 2})
			pos += 2
		case b0 >= 251 && b0 <= 254:
			if pos+2 > len(data) {
				return nil, &sfnt.MalformedFontError{Reason: "cff2: truncated charstring integer"}
			}
			v := float64(-(int(b0)-251)*256 - int(data[pos+1]) - 108)
			stack = append(stack, operand{v, start, pos + 2})
			pos += 2
		case b0 == 255:
			if pos+5 > len(data) {
				return nil, &sfnt.MalformedFontError{Reason: "cff2: truncated charstring fixed"}
			}
			v := int32(uint32(data[pos+1])<<24 | uint32(data[pos+2])<<16 | uint32(data[pos+3])<<8 | uint32(data[pos+4]))
			stack = append(stack, operand{float64(v) / 65536, start, pos + 5})
			pos += 5
		case b0 == 1 || b0 == 3 || b0 == 18 || b0 == 23:
			nStems += len(stack) / 2
			stack = stack[:0]
			pos++
		case b0 == 19 || b0 == 20:
			nStems += len(stack) / 2
			stack = stack[:0]
			pos++
			nbytes := (nStems + 7) / 8
			if pos+nbytes > len(data) {
				return nil, &sfnt.MalformedFontError{Reason: "cff2: truncated hintmask"}
			}
			pos += nbytes
		case b0 == 10 || b0 == 29:
			if len(stack) == 0 {
				return nil, &sfnt.MalformedFontError{Reason: "cff2: subroutine call with empty stack"}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			var oldBias, newBias int
			var remapper *remap.Remapper[int]
			if b0 == 10 {
				oldBias, newBias, remapper = oldLocalBias, newLocalBias, localRemap
			} else {
				oldBias, newBias, remapper = oldGlobalBias, newGlobalBias, globalRemap
			}
			oldIdx := int(top.value) + oldBias
			newIdxU, ok := remapper.Get(oldIdx)
			if !ok {
				return nil, &sfnt.SubsetError{Reason: "cff2: subroutine not in remapper"}
			}
			newValue := int(newIdxU) - newBias

			out = append(out, data[lastCopied:top.start]...)
			out = append(out, encodeCharstringInt(newValue)...)
			lastCopied = top.end
			pos++
		case b0 == 12:
			stack = stack[:0]
			pos += 2
		default:
			stack = stack[:0]
			pos++
		}
	}
	out = append(out, data[lastCopied:]...)
	return out, nil
}
