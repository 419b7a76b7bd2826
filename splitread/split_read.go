// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package splitread defines the record for a read under investigation and
// the candidate alignments ("unique points") found for its two halves.
package splitread

import (
	"fmt"

	"github.com/grailbio/pindel/seq"
)

// errorEpsilon compensates for rounding in L*rate (0.04 may be stored as
// 0.03999999).
const errorEpsilon = 0.00001

// SplitRead is one read whose mate is mapped and which itself is not, or not
// entirely, mapped.
type SplitRead struct {
	Name string
	// FragName is the chromosome of the mapped mate.
	FragName string
	// MatchedD is the strand of the mapped mate.
	MatchedD Direction
	// MatchedRelPos is the Pindel coordinate of the mapped mate.
	MatchedRelPos int
	// MS is the mapping quality of the mapped mate.
	MS         int
	InsertSize int
	// Tag names the sample the read came from.
	Tag string

	// CloseEnd holds alignments of the read end next to the mapped mate.
	CloseEnd SortedUniquePoints
	// FarEnd holds alignments of the other end.
	FarEnd SortedUniquePoints

	// Breakpoint call, in Pindel coordinates.  BPLeft is the last reference
	// base before the event and BPRight the first one after it.
	BPLeft      int
	BPRight     int
	IndelSize   int
	InsertedStr string
	// NTStr is the non-template sequence between the two ends.
	NTStr              string
	CloseEndLength     int
	ReadCountPerSample map[string]int

	// Investigated is set once the far end has been searched for.
	Investigated bool
	// Used is set once the read has been consumed by an event.
	Used bool
	// UniqueRead is false for reads that duplicate an earlier one.
	UniqueRead bool

	unmatched                 string
	readLength                int
	readLengthMinus           int
	maxSNPError               int
	totalSNPErrorCheckedMinus int
	totalSNPErrorChecked      int
}

// SetUnmatchedSeq assigns the unmatched sequence and recomputes every value
// derived from it.  It is the only way to change the sequence.
func (r *SplitRead) SetUnmatchedSeq(s string, opts Opts) {
	r.unmatched = s
	r.readLength = len(s)
	r.readLengthMinus = r.readLength - 1
	r.maxSNPError = int(float64(r.readLength)*opts.SeqErrorRate + errorEpsilon)
	r.totalSNPErrorCheckedMinus = r.maxSNPError + opts.AdditionalMismatch
	r.totalSNPErrorChecked = r.totalSNPErrorCheckedMinus + 1
}

// UnmatchedSeq returns the sequence set by SetUnmatchedSeq.
func (r *SplitRead) UnmatchedSeq() string { return r.unmatched }

// ReadLength returns len(UnmatchedSeq()).
func (r *SplitRead) ReadLength() int { return r.readLength }

// ReadLengthMinus returns ReadLength()-1.
func (r *SplitRead) ReadLengthMinus() int { return r.readLengthMinus }

// MaxSNPError returns the number of mismatches a match may carry.
func (r *SplitRead) MaxSNPError() int { return r.maxSNPError }

// TotalSNPErrorCheckedMinus returns the highest mismatch level tracked.
func (r *SplitRead) TotalSNPErrorCheckedMinus() int { return r.totalSNPErrorCheckedMinus }

// TotalSNPErrorChecked returns the number of mismatch levels tracked.
func (r *SplitRead) TotalSNPErrorChecked() int { return r.totalSNPErrorChecked }

// CurrentReadSeq returns the read in the orientation of the reference
// strand the mate maps to: reverse-complemented for a '+' mate.
func (r *SplitRead) CurrentReadSeq() string {
	if r.MatchedD == Forward {
		return seq.ReverseComplement(r.unmatched)
	}
	return r.unmatched
}

// GoodFarEndFound reports whether any far-end alignment exists.
func (r *SplitRead) GoodFarEndFound() bool { return !r.FarEnd.Empty() }

// HasCloseEnd reports whether any close-end alignment exists.
func (r *SplitRead) HasCloseEnd() bool { return !r.CloseEnd.Empty() }

// MaxLenCloseEnd returns the longest close-end match.
func (r *SplitRead) MaxLenCloseEnd() int { return r.CloseEnd.MaxLen() }

// MaxLenFarEnd returns the longest far-end match.
func (r *SplitRead) MaxLenFarEnd() int { return r.FarEnd.MaxLen() }

// LastAbsLocCloseEnd returns the location of the most recent close-end
// match.  It panics if HasCloseEnd() is false.
func (r *SplitRead) LastAbsLocCloseEnd() int { return r.CloseEnd.Last().AbsLoc }

// CountSample records one supporting read for the read's sample.
func (r *SplitRead) CountSample() {
	if r.ReadCountPerSample == nil {
		r.ReadCountPerSample = map[string]int{}
	}
	r.ReadCountPerSample[r.Tag]++
}

// String implements fmt.Stringer.
func (r *SplitRead) String() string {
	return fmt.Sprintf("%s %s %s:%d mapq=%d isize=%d %s close=%v far=%v",
		r.Name, r.unmatched, r.FragName, r.MatchedRelPos, r.MS, r.InsertSize, r.Tag, r.CloseEnd.Points(), r.FarEnd.Points())
}
