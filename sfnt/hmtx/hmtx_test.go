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

package hmtx

import "testing"

func encodeSourceHmtx(long []Metric, trailingLSB []int16) []byte {
	var out []byte
	for _, m := range long {
		out = append(out, byte(m.Advance>>8), byte(m.Advance), byte(uint16(m.LSB)>>8), byte(uint16(m.LSB)))
	}
	for _, lsb := range trailingLSB {
		out = append(out, byte(uint16(lsb)>>8), byte(uint16(lsb)))
	}
	return out
}

func TestReadAllSplitsLongAndTrailing(t *testing.T) {
	long := []Metric{{Advance: 500, LSB: 10}, {Advance: 600, LSB: -5}}
	trailing := []int16{20, 30, 40}
	data := encodeSourceHmtx(long, trailing)

	got, err := ReadAll(data, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []Metric{
		{500, 10}, {600, -5}, {600, 20}, {600, 30}, {600, 40},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("metric %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNumberOfHMetricsTrimsTrailingRun(t *testing.T) {
	metrics := make([]Metric, 53)
	for i := range metrics {
		metrics[i] = Metric{Advance: uint16(100 + i), LSB: 0}
	}
	for i := len(metrics) - 50; i < len(metrics); i++ {
		metrics[i].Advance = 600
	}
	got := NumberOfHMetrics(metrics)
	want := len(metrics) - 49
	if got != want {
		t.Fatalf("NumberOfHMetrics = %d, want %d", got, want)
	}
}

func TestNumberOfHMetricsAllEqualResolvesToOne(t *testing.T) {
	metrics := make([]Metric, 10)
	for i := range metrics {
		metrics[i] = Metric{Advance: 400, LSB: int16(i)}
	}
	if got := NumberOfHMetrics(metrics); got != 1 {
		t.Fatalf("NumberOfHMetrics = %d, want 1 for all-equal advances", got)
	}
}

func TestNumberOfHMetricsSingleGlyph(t *testing.T) {
	metrics := []Metric{{Advance: 250, LSB: 0}}
	if got := NumberOfHMetrics(metrics); got != 1 {
		t.Fatalf("NumberOfHMetrics = %d, want 1", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	metrics := []Metric{
		{100, 1}, {200, 2}, {600, 3}, {600, 4}, {600, 5},
	}
	data, numberOfHMetrics := Encode(metrics)
	if numberOfHMetrics != 3 {
		t.Fatalf("numberOfHMetrics = %d, want 3", numberOfHMetrics)
	}
	back, err := ReadAll(data, numberOfHMetrics, len(metrics))
	if err != nil {
		t.Fatal(err)
	}
	for i := range metrics {
		if back[i] != metrics[i] {
			t.Fatalf("round trip mismatch at %d: got %+v want %+v", i, back[i], metrics[i])
		}
	}
}

func TestRewriteHheaUpdatesTrailingField(t *testing.T) {
	src := make([]byte, 36)
	src[34], src[35] = 0x00, 0x09
	out, err := RewriteHhea(src, 4)
	if err != nil {
		t.Fatal(err)
	}
	if ReadNumberOfHMetrics(out) != 4 {
		t.Fatalf("numberOfHMetrics = %d, want 4", ReadNumberOfHMetrics(out))
	}
}

func TestReadAllInvalidNumberOfHMetrics(t *testing.T) {
	if _, err := ReadAll(nil, 0, 5); err == nil {
		t.Fatal("expected error for numberOfHMetrics <= 0")
	}
	if _, err := ReadAll(nil, 6, 5); err == nil {
		t.Fatal("expected error for numberOfHMetrics > numGlyphs")
	}
}
