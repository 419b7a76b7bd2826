// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package window

import (
	"fmt"

	"github.com/grailbio/pindel/genome"
)

// Region is a user-requested search region in biological coordinates.  An
// unbounded region covers the whole chromosome.
type Region struct {
	ChrName string
	// Start is the 0-based first position.
	Start int
	// End is the 0-based last position, inclusive.
	End     int
	Bounded bool
}

// WholeChromosome returns an unbounded region over the named chromosome.
func WholeChromosome(name string) Region {
	return Region{ChrName: name}
}

// LoopOpts configures a Looper.
type LoopOpts struct {
	// BinSize is the length of each official range.
	BinSize int
	// Margin is the extra sequence loaded on each side of the official range.
	Margin int
}

// Looper walks a chromosome bin by bin.  Each step exposes an official
// range, the bin whose reads are reported in this cycle, and a displayed
// range, the official range widened by the margin, which is the sequence the
// far-end search may look at.
//
// Both ranges are in biological coordinates.  The displayed range always
// covers the official range, and the official range never leaves the global
// bounds.
type Looper struct {
	win           Window
	globalStart   int
	globalEnd     int
	officialStart int
	officialEnd   int
	opts          LoopOpts
}

// NewLooper creates a looper positioned on the first bin of region.
func NewLooper(region Region, chr *genome.Chromosome, opts LoopOpts) *Looper {
	if opts.BinSize <= 0 {
		panic(fmt.Sprintf("window.NewLooper: bin size %d", opts.BinSize))
	}
	l := &Looper{
		globalStart: 0,
		globalEnd:   chr.BiolSize() - 1,
		opts:        opts,
	}
	if region.Bounded {
		if region.Start > l.globalStart {
			l.globalStart = region.Start
		}
		if region.End < l.globalEnd {
			l.globalEnd = region.End
		}
	}
	l.officialStart = l.globalStart
	l.win = New(chr, 0, 0)
	l.update()
	return l
}

func (l *Looper) update() {
	l.officialEnd = l.officialStart + l.opts.BinSize - 1
	if l.officialEnd > l.globalEnd {
		l.officialEnd = l.globalEnd
	}
	start := l.officialStart - l.opts.Margin
	if start < 0 {
		start = 0
	}
	end := l.officialEnd + l.opts.Margin
	if last := l.win.chr.BiolSize() - 1; end > last {
		end = last
	}
	l.win.SetStart(start)
	l.win.SetEnd(end)
}

// Next advances the official range by one bin.  It is a no-op on a finished
// looper.
func (l *Looper) Next() {
	if l.Finished() {
		return
	}
	l.officialStart += l.opts.BinSize
	l.update()
}

// Finished reports whether the official range has moved past the end of the
// region.
func (l *Looper) Finished() bool { return l.officialStart > l.globalEnd }

// Window returns the displayed range.
func (l *Looper) Window() Window { return l.win }

// Chromosome returns the chromosome being walked.
func (l *Looper) Chromosome() *genome.Chromosome { return l.win.chr }

// OfficialStart returns the first position of the current bin.
func (l *Looper) OfficialStart() int { return l.officialStart }

// OfficialEnd returns the last position of the current bin.
func (l *Looper) OfficialEnd() int { return l.officialEnd }

// Official returns the current bin as a window.
func (l *Looper) Official() Window {
	return New(l.win.chr, l.officialStart, l.officialEnd)
}

// GlobalStart returns the first position of the region being walked.
func (l *Looper) GlobalStart() int { return l.globalStart }

// GlobalEnd returns the last position of the region being walked.
func (l *Looper) GlobalEnd() int { return l.globalEnd }

// String renders the displayed range.
func (l *Looper) String() string { return l.win.String() }
