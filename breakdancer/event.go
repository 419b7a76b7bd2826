// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package breakdancer

import (
	"fmt"
	"sort"
)

// Event is one candidate structural variant: the two breakpoint ends.
type Event struct {
	First  Coordinate
	Second Coordinate
	// Type is the event type as given in the input, e.g. "DEL" or "INV".
	Type string
	// Size is the reported event size.
	Size int
	// ID numbers events in input order, starting at 1.
	ID int
	// Count is the number of input events merged into this one.
	Count int
}

// LessByFirst orders events by first coordinate, then by second.
func LessByFirst(a, b Event) bool {
	if c := a.First.Compare(b.First); c != 0 {
		return c < 0
	}
	return a.Second.Less(b.Second)
}

// LessBySecond orders events by second coordinate, then by first.
func LessBySecond(a, b Event) bool {
	if c := a.Second.Compare(b.Second); c != 0 {
		return c < 0
	}
	return a.First.Less(b.First)
}

// overlaps reports whether both ends of a and b have intersecting windows.
func (e Event) overlaps(o Event) bool {
	return e.First.Overlaps(o.First) && e.Second.Overlaps(o.Second)
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("#%d %s %v-%v size=%d", e.ID, e.Type, e.First, e.Second, e.Size)
}

// MergeEvents collapses events describing the same variant.  It runs two
// sweeps, one over the events sorted by first coordinate and one sorted by
// second coordinate; in each, an event whose two windows both overlap those
// of the previously kept event is folded into it.  The kept event retains
// its coordinates and accumulates Count.  The input slice is reordered.
func MergeEvents(events []Event) []Event {
	for i := range events {
		if events[i].Count == 0 {
			events[i].Count = 1
		}
	}
	events = sweep(events, LessByFirst)
	return sweep(events, LessBySecond)
}

func sweep(events []Event, less func(a, b Event) bool) []Event {
	if len(events) == 0 {
		return events
	}
	sort.SliceStable(events, func(i, j int) bool { return less(events[i], events[j]) })
	out := events[:1]
	for _, e := range events[1:] {
		last := &out[len(out)-1]
		if last.overlaps(e) {
			last.Count += e.Count
			continue
		}
		out = append(out, e)
	}
	return out
}
