// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"github.com/grailbio/pindel/splitread"
	"github.com/grailbio/pindel/window"
)

// EventType is the kind of structural variant a read supports.
type EventType int8

const (
	// Deletion removes reference bases, possibly adding non-template ones.
	Deletion EventType = iota
	// ShortInsertion adds bases contained in the read.
	ShortInsertion
	// TandemDuplication repeats a reference segment.
	TandemDuplication
	// Inversion reverse-complements a reference segment.
	Inversion

	numEventTypes
)

var eventTypeNames = [numEventTypes]string{"D", "SI", "TD", "INV"}

// String implements fmt.Stringer.
func (t EventType) String() string {
	if t < 0 || t >= numEventTypes {
		return "?"
	}
	return eventTypeNames[t]
}

// Outcome describes how far a read got through Investigate.
type Outcome int8

const (
	// Resolved reads support an event.
	Resolved Outcome = iota
	// Empty reads have no unmatched sequence.
	Empty
	// NoCloseEnd reads could not be placed next to their mate.
	NoCloseEnd
	// Contiguous reads match the reference without a break.
	Contiguous
	// NoFarEnd reads have a close end but no far end.
	NoFarEnd
	// Ambiguous reads have several equally good far ends.
	Ambiguous
	// Unresolved reads have a far end whose geometry supports no event.
	Unresolved
)

// Investigate runs the close-end search and then the far-end strategies with
// growing range until one finds a far end.  Range index 0 first tries the
// short-insertion window.  On success the read's breakpoint fields are set.
func (e *Engine) Investigate(read *splitread.SplitRead, win window.Window) (EventType, Outcome) {
	if read.ReadLength() == 0 {
		return 0, Empty
	}
	e.GetCloseEnd(read, win)
	if !read.HasCloseEnd() {
		return 0, NoCloseEnd
	}
	if read.MaxLenCloseEnd() > read.ReadLength()-e.opts.MinFarLen {
		read.CloseEnd.Clear()
		return 0, Contiguous
	}
	read.Investigated = true
	found := false
	for r := 0; r <= e.opts.maxRangeIndex() && !found; r++ {
		found = (r == 0 && e.GetFarEndDownstreamInsertion(read, win)) ||
			e.GetFarEndDownstream(read, win, r) ||
			e.GetFarEndUpstream(read, win, r) ||
			e.GetFarEndOtherStrand(read, win, r)
	}
	switch {
	case !found:
		return 0, NoFarEnd
	case read.FarEnd.Len() > 1:
		return 0, Ambiguous
	}
	typ, ok := e.Resolve(read)
	if !ok {
		return 0, Unresolved
	}
	return typ, Resolved
}

// Resolve derives the breakpoints of a read with a close end and exactly one
// far end.  BPLeft is set to the last reference base before the event and
// BPRight to the first one after it, so IndelSize = BPRight-BPLeft-1 for
// every event type; for a short insertion IndelSize is the number of
// inserted bases.  NTStr receives the read bases between the two ends.
func (e *Engine) Resolve(read *splitread.SplitRead) (EventType, bool) {
	if !read.HasCloseEnd() || read.FarEnd.Len() != 1 {
		return 0, false
	}
	var (
		c    = read.CloseEnd.Last()
		f    = read.FarEnd.At(0)
		n    = read.ReadLength()
		nt   = n - c.LengthStr - f.LengthStr
		plus = read.MatchedD == splitread.Forward
	)
	if c.LengthStr+f.LengthStr < e.opts.MinNumMatchedBases || nt < 0 {
		return 0, false
	}
	s := read.CurrentReadSeq()
	if plus {
		read.NTStr = s[c.LengthStr : n-f.LengthStr]
	} else {
		read.NTStr = s[f.LengthStr : n-c.LengthStr]
	}

	var typ EventType
	switch {
	case f.Strand == splitread.Antisense:
		typ = Inversion
		if plus {
			read.BPLeft, read.BPRight = c.AbsLoc, f.AbsLoc+1
		} else {
			read.BPLeft, read.BPRight = f.AbsLoc-1, c.AbsLoc
		}
	case plus && f.AbsLoc > c.AbsLoc:
		typ = Deletion
		read.BPLeft, read.BPRight = c.AbsLoc, f.AbsLoc
	case !plus && f.AbsLoc < c.AbsLoc:
		typ = Deletion
		read.BPLeft, read.BPRight = f.AbsLoc, c.AbsLoc
	default:
		typ = TandemDuplication
		if plus {
			read.BPLeft, read.BPRight = f.AbsLoc-1, c.AbsLoc+1
		} else {
			read.BPLeft, read.BPRight = c.AbsLoc-1, f.AbsLoc+1
		}
	}
	read.IndelSize = read.BPRight - read.BPLeft - 1
	if typ == Deletion && read.IndelSize == 0 {
		if nt == 0 {
			return 0, false
		}
		typ = ShortInsertion
		read.IndelSize = nt
	}
	if read.IndelSize <= 0 {
		return 0, false
	}
	read.InsertedStr = read.NTStr
	return typ, true
}
