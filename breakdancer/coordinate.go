// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package breakdancer holds candidate structural-variant events produced by
// an external read-pair caller (BreakDancer).  Events are used to
// cross-check breakpoints found by the split-read search: a split-read
// event whose two breakpoints fall inside the windows of an imported event
// confirms it.
package breakdancer

import (
	"fmt"

	"github.com/grailbio/pindel/genome"
)

// WindowSpan is the half-width of the confirmation window around a
// coordinate.
const WindowSpan = 500

// Coordinate is a position on a chromosome, in 0-based biological
// coordinates.
type Coordinate struct {
	// ChrIndex is the genome index, or genome.NotFound.
	ChrIndex int
	// ChrName is the name of the chromosome at ChrIndex ("" if not found).
	ChrName string
	Pos     int
}

// NewCoordinate resolves chrName against g.
func NewCoordinate(g *genome.Genome, chrName string, pos int) Coordinate {
	idx := g.ChrNameToChrIndex(chrName)
	return Coordinate{ChrIndex: idx, ChrName: g.Chr(idx).Name(), Pos: pos}
}

// Valid reports whether the chromosome was found.
func (c Coordinate) Valid() bool { return c.ChrIndex != genome.NotFound }

// StartOfWindow returns Pos-WindowSpan, clamped at 0.
func (c Coordinate) StartOfWindow() int {
	if c.Pos >= WindowSpan {
		return c.Pos - WindowSpan
	}
	return 0
}

// EndOfWindow returns Pos+WindowSpan.  It is not clamped to the chromosome
// length.
func (c Coordinate) EndOfWindow() int { return c.Pos + WindowSpan }

// InWindow reports whether pos on chromosome chrIndex lies in c's window.
func (c Coordinate) InWindow(chrIndex, pos int) bool {
	return chrIndex == c.ChrIndex && c.StartOfWindow() <= pos && pos <= c.EndOfWindow()
}

// Overlaps reports whether the windows of c and o intersect.
func (c Coordinate) Overlaps(o Coordinate) bool {
	return c.ChrIndex == o.ChrIndex && c.StartOfWindow() <= o.EndOfWindow() && o.StartOfWindow() <= c.EndOfWindow()
}

// Compare orders by chromosome name, then position.
func (c Coordinate) Compare(o Coordinate) int {
	if c.ChrName != o.ChrName {
		if c.ChrName < o.ChrName {
			return -1
		}
		return 1
	}
	return c.Pos - o.Pos
}

// Less reports whether c sorts before o.  Equal coordinates are not less
// than each other.
func (c Coordinate) Less(o Coordinate) bool { return c.Compare(o) < 0 }

// String implements fmt.Stringer.
func (c Coordinate) String() string { return fmt.Sprintf("%s:%d", c.ChrName, c.Pos) }
