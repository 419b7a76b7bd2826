// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"fmt"
	"strings"
)

// Stats counts what happened to the reads of a run.
type Stats struct {
	// Cycles is the number of window cycles run.
	Cycles int
	// Reads is the number of reads taken from the feed.
	Reads int
	// Deferred counts deferrals; a read deferred twice is counted twice.
	Deferred int
	// Duplicates is the number of reads identical to an earlier read in the
	// same cycle.
	Duplicates int
	// Empty is the number of reads with no unmatched sequence.
	Empty int
	// NoCloseEnd is the number of reads whose close end was not found.
	NoCloseEnd int
	// Contiguous is the number of reads that matched the reference without a
	// break.
	Contiguous int
	// NoFarEnd is the number of reads with a close end but no far end.
	NoFarEnd int
	// Ambiguous is the number of reads whose far end matched several places.
	Ambiguous int
	// Unresolved is the number of reads whose two ends imply no event.
	Unresolved int
	// Excluded is the number of reads anchored in excluded regions.
	Excluded int
	// Resolved is the number of reads assigned to an event, by event type.
	Resolved [numEventTypes]int
	// Events is the number of events reported, by event type.
	Events [numEventTypes]int
	// BreakDancerConfirmed is the number of events that confirmed an imported
	// BreakDancer event.
	BreakDancerConfirmed int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Cycles += o.Cycles
	s.Reads += o.Reads
	s.Deferred += o.Deferred
	s.Duplicates += o.Duplicates
	s.Empty += o.Empty
	s.NoCloseEnd += o.NoCloseEnd
	s.Contiguous += o.Contiguous
	s.NoFarEnd += o.NoFarEnd
	s.Ambiguous += o.Ambiguous
	s.Unresolved += o.Unresolved
	s.Excluded += o.Excluded
	for i := range o.Resolved {
		s.Resolved[i] += o.Resolved[i]
		s.Events[i] += o.Events[i]
	}
	s.BreakDancerConfirmed += o.BreakDancerConfirmed
	return s
}

// String renders s on one line for logging.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cycles=%d reads=%d deferred=%d duplicates=%d excluded=%d empty=%d no_close_end=%d contiguous=%d no_far_end=%d ambiguous=%d unresolved=%d",
		s.Cycles, s.Reads, s.Deferred, s.Duplicates, s.Excluded, s.Empty, s.NoCloseEnd, s.Contiguous, s.NoFarEnd, s.Ambiguous, s.Unresolved)
	for t := EventType(0); t < numEventTypes; t++ {
		fmt.Fprintf(&b, " %v=%d/%d", t, s.Events[t], s.Resolved[t])
	}
	fmt.Fprintf(&b, " breakdancer_confirmed=%d", s.BreakDancerConfirmed)
	return b.String()
}
