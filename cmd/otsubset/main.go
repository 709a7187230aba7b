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

// Command otsubset writes a new font file containing only the glyphs
// named on the command line, renumbered from glyph 0.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"seehuhn.de/go/sfntsubset"
	"seehuhn.de/go/sfntsubset/glyph"
	"seehuhn.de/go/sfntsubset/internal/gidset"
	"seehuhn.de/go/sfntsubset/sfnt"
)

func main() {
	faceIndex := flag.Int("face", 0, "face index, for a TrueType/OpenType collection")
	glyphs := flag.String("glyphs", "", "comma-separated glyph IDs and ranges, e.g. \"1,2,5-9\"")
	rendering := flag.Bool("rendering", false, "keep bitmap/color rendering tables (default drops them)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 || *glyphs == "" {
		fmt.Fprintln(os.Stderr, "usage: otsubset -glyphs=1,2,5-9 input.ttf output.ttf")
		os.Exit(1)
	}

	gids, err := parseGlyphList(*glyphs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "otsubset:", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "otsubset:", err)
		os.Exit(1)
	}

	opts := sfnt.Options{}
	if *rendering {
		opts.Profile = sfnt.ProfileRendering
	}

	out, _, err := sfntsubset.Subset(data, *faceIndex, gids, opts)
	if err != nil {
		if sfnt.IsUnimplemented(err) {
			fmt.Fprintln(os.Stderr, "otsubset: font not supported:", err)
		} else {
			fmt.Fprintln(os.Stderr, "otsubset:", err)
		}
		os.Exit(1)
	}

	if err := os.WriteFile(args[1], out, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "otsubset:", err)
		os.Exit(1)
	}
}

// parseGlyphList parses a comma-separated list of glyph IDs and
// "a-b" ranges into a retained-glyph set.
func parseGlyphList(s string) (*gidset.Set, error) {
	set := gidset.New()
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			loN, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid glyph range %q: %w", part, err)
			}
			hiN, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid glyph range %q: %w", part, err)
			}
			for g := loN; g <= hiN; g++ {
				set.Add(glyph.ID(g))
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid glyph id %q: %w", part, err)
		}
		set.Add(glyph.ID(n))
	}
	return set, nil
}
