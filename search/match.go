// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/seq"
	"github.com/grailbio/pindel/splitread"
	"github.com/grailbio/pindel/window"
)

// Track holds the candidate alignments of a query being extended along one
// reference strand.  PD[i] lists, for every candidate with i mismatches so
// far, the Pindel coordinate of the last reference base matched.
//
// A Sense track compares query bases with the reference as stored.  An
// Antisense track compares complemented query bases, so a track walking
// Forward on the antisense strand matches the reverse complement of a query
// walking Backward on the sense strand.
type Track struct {
	Direction splitread.Direction
	Strand    splitread.Strand
	PD        [][]int
	spare     [][]int
}

// NewTrack creates an empty track with the given number of mismatch levels.
func NewTrack(dir splitread.Direction, strand splitread.Strand, levels int) *Track {
	return &Track{
		Direction: dir,
		Strand:    strand,
		PD:        make([][]int, levels),
		spare:     make([][]int, levels),
	}
}

func (t *Track) step() int {
	if t.Direction == splitread.Forward {
		return 1
	}
	return -1
}

func (t *Track) queryBase(b byte) byte {
	if t.Strand == splitread.Antisense {
		return seq.Complement(b)
	}
	return b
}

// size returns the number of candidates with i mismatches.
func (t *Track) size(i int) int {
	if t == nil {
		return 0
	}
	return len(t.PD[i])
}

// alive reports whether any candidate has at most maxErr mismatches.
func (t *Track) alive(maxErr int) bool {
	if t == nil {
		return false
	}
	for i := 0; i <= maxErr && i < len(t.PD); i++ {
		if len(t.PD[i]) > 0 {
			return true
		}
	}
	return false
}

// baseMatches reports whether query base q is consistent with reference base
// r.  An 'N' in the query matches anything.
func baseMatches(q, r byte) bool {
	return q == 'N' || q == r
}

// Seed starts one candidate at every position of [from, to] that lies inside
// win, comparing the first query base.  A mismatching seed starts at level 1
// if the track has one.
func (t *Track) Seed(chr *genome.Chromosome, win window.Window, first byte, from, to int) {
	win = win.PindelCoordinates()
	if from < win.Start() {
		from = win.Start()
	}
	if to > win.End() {
		to = win.End()
	}
	q := t.queryBase(first)
	for pos := from; pos <= to; pos++ {
		if baseMatches(q, chr.Base(pos)) {
			t.PD[0] = append(t.PD[0], pos)
		} else if len(t.PD) > 1 {
			t.PD[1] = append(t.PD[1], pos)
		}
	}
}

// extend matches one more query base against every candidate.  A mismatch
// moves a candidate one level up; candidates at the top level survive only on
// a match.  Candidates leaving [lo, hi] are dropped.
func (t *Track) extend(chr *genome.Chromosome, lo, hi int, b byte) {
	if t == nil {
		return
	}
	q := t.queryBase(b)
	step := t.step()
	top := len(t.PD) - 1
	next := t.spare
	for i := range next {
		next[i] = next[i][:0]
	}
	for i, positions := range t.PD {
		for _, pos := range positions {
			pos += step
			if pos < lo || pos > hi {
				continue
			}
			if baseMatches(q, chr.Base(pos)) {
				next[i] = append(next[i], pos)
			} else if i < top {
				next[i+1] = append(next[i+1], pos)
			}
		}
	}
	t.PD, t.spare = next, t.PD
}

// CheckBoth extends the seeded tracks plus and minus (either may be nil) one
// query base at a time and records unique points in up.  Both tracks must have
// been seeded with query[0].
//
// At every matched length L in [bpStart, bpEnd], mismatch levels
// i = 0..MaxSNPError are examined in order.  A candidate at level i becomes a
// unique point when it is the only candidate, across both tracks, with at most
// i+AdditionalMismatch mismatches, when L >= bpStart+i, and when i does not
// exceed int(SeqErrorRate*L+1).  At most one point is recorded per length.
// Extension stops at bpEnd, at the end of the query, or once no candidate
// remains within the mismatch budget.
func (e *Engine) CheckBoth(read *splitread.SplitRead, win window.Window, query string,
	plus, minus *Track, bpStart, bpEnd int, up *splitread.SortedUniquePoints) {
	if bpEnd > len(query) {
		bpEnd = len(query)
	}
	if bpStart < 1 {
		bpStart = 1
	}
	maxErr := read.MaxSNPError()
	win = win.PindelCoordinates()
	for length := 1; ; length++ {
		if length >= bpStart {
			e.pushUnique(read, plus, minus, length, bpStart, up)
		}
		if length >= bpEnd {
			return
		}
		plus.extend(e.chr, win.Start(), win.End(), query[length])
		minus.extend(e.chr, win.Start(), win.End(), query[length])
		if !plus.alive(maxErr) && !minus.alive(maxErr) {
			return
		}
	}
}

func (e *Engine) pushUnique(read *splitread.SplitRead, plus, minus *Track, length, bpStart int, up *splitread.SortedUniquePoints) {
	levels := read.TotalSNPErrorChecked()
	additional := levels - 1 - read.MaxSNPError()
	for i := 0; i <= read.MaxSNPError(); i++ {
		if plus.size(i)+minus.size(i) != 1 || length < bpStart+i {
			continue
		}
		sum := 0
		for j := 0; j <= i+additional && j < levels; j++ {
			sum += plus.size(j) + minus.size(j)
		}
		if sum != 1 || i > int(e.opts.SplitRead.SeqErrorRate*float64(length)+1) {
			continue
		}
		t := plus
		if plus.size(i) == 0 {
			t = minus
		}
		up.Push(splitread.UniquePoint{
			LengthStr:  length,
			AbsLoc:     t.PD[i][0],
			Direction:  t.Direction,
			Strand:     t.Strand,
			Mismatches: i,
		})
		return
	}
}
