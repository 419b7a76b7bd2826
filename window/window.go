// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package window implements the bounded regions a breakpoint search scans:
// a plain Window over one chromosome, and a Looper that walks a chromosome
// bin by bin so only one window's worth of work is resident at a time.
package window

import (
	"fmt"

	"github.com/grailbio/pindel/genome"
)

// System identifies the coordinate system of a Window.
type System int8

const (
	// Biological coordinates are 0-based offsets into the real sequence.
	Biological System = iota
	// Pindel coordinates include the chromosome's spacer.
	Pindel
)

// Window is an inclusive range [Start, End] on one chromosome.
type Window struct {
	chr    *genome.Chromosome
	start  int
	end    int
	system System
}

// New creates a window in biological coordinates.
func New(chr *genome.Chromosome, start, end int) Window {
	return Window{chr: chr, start: start, end: end, system: Biological}
}

// Chromosome returns the chromosome the window is bound to.
func (w Window) Chromosome() *genome.Chromosome { return w.chr }

// ChromosomeName returns the name of the bound chromosome.
func (w Window) ChromosomeName() string { return w.chr.Name() }

// Start returns the first position in the window.
func (w Window) Start() int { return w.start }

// End returns the last position in the window.
func (w Window) End() int { return w.end }

// SetStart moves the first position.
func (w *Window) SetStart(start int) { w.start = start }

// SetEnd moves the last position.
func (w *Window) SetEnd(end int) { w.end = end }

// System returns the coordinate system of Start and End.
func (w Window) System() System { return w.system }

// Size returns the number of positions covered, End-Start+1.
func (w Window) Size() int { return w.end - w.start + 1 }

// Encompasses reports whether pos on the named chromosome lies inside the
// window.  pos must be in the window's coordinate system.
func (w Window) Encompasses(chrName string, pos int) bool {
	return chrName == w.chr.Name() && w.start <= pos && pos <= w.end
}

// PindelCoordinates returns a copy of the window in Pindel coordinates.
func (w Window) PindelCoordinates() Window {
	if w.system == Pindel {
		return w
	}
	return Window{chr: w.chr, start: w.start + w.chr.Spacer(), end: w.end + w.chr.Spacer(), system: Pindel}
}

// BiologicalCoordinates returns a copy of the window in biological
// coordinates.
func (w Window) BiologicalCoordinates() Window {
	if w.system == Biological {
		return w
	}
	return Window{chr: w.chr, start: w.start - w.chr.Spacer(), end: w.end - w.chr.Spacer(), system: Biological}
}

// String renders the window as a 1-based region string.
func (w Window) String() string {
	b := w.BiologicalCoordinates()
	return fmt.Sprintf("%s:%d-%d", w.chr.Name(), b.start+1, b.end+1)
}
