// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package splitread

import "fmt"

// Direction is the direction a match was extended in.
type Direction int8

const (
	// Forward matches grow towards higher coordinates from their seed.
	Forward Direction = iota
	// Backward matches grow towards lower coordinates from their seed.
	Backward
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Forward {
		return "+"
	}
	return "-"
}

// Strand is the reference strand a match was found on.
type Strand int8

const (
	// Sense is the strand of the reference sequence as stored.
	Sense Strand = iota
	// Antisense is the reverse-complement strand.
	Antisense
)

// String implements fmt.Stringer.
func (s Strand) String() string {
	if s == Sense {
		return "+"
	}
	return "-"
}

// UniquePoint is one candidate alignment of part of a read.  AbsLoc is the
// Pindel coordinate of the last reference base matched.
type UniquePoint struct {
	// LengthStr is the number of read bases matched.
	LengthStr  int
	AbsLoc     int
	Direction  Direction
	Strand     Strand
	Mismatches int
}

// Terminal returns the Pindel coordinate just before the first matched
// base, i.e., where the unmatched remainder of the read would continue.
func (p UniquePoint) Terminal() int {
	if p.Direction == Forward {
		return p.AbsLoc - p.LengthStr
	}
	return p.AbsLoc + p.LengthStr
}

// String implements fmt.Stringer.
func (p UniquePoint) String() string {
	return fmt.Sprintf("{len:%d loc:%d dir:%v strand:%v mm:%d}", p.LengthStr, p.AbsLoc, p.Direction, p.Strand, p.Mismatches)
}

// SortedUniquePoints is a set of candidate alignments.  Points are kept in
// insertion order; the set is "sorted" only in the sense that the search
// engine prunes dominated points once matching is done.
type SortedUniquePoints struct {
	points []UniquePoint
}

// Push appends a point.
func (s *SortedUniquePoints) Push(p UniquePoint) { s.points = append(s.points, p) }

// Len returns the number of points.
func (s *SortedUniquePoints) Len() int { return len(s.points) }

// Empty reports whether there are no points.
func (s *SortedUniquePoints) Empty() bool { return len(s.points) == 0 }

// At returns the i'th point.
func (s *SortedUniquePoints) At(i int) UniquePoint { return s.points[i] }

// Set replaces the i'th point.
func (s *SortedUniquePoints) Set(i int, p UniquePoint) { s.points[i] = p }

// Clear removes every point.
func (s *SortedUniquePoints) Clear() { s.points = s.points[:0] }

// Swap exchanges the contents of s and other.
func (s *SortedUniquePoints) Swap(other *SortedUniquePoints) {
	s.points, other.points = other.points, s.points
}

// Points returns the points.  The caller must not modify the slice.
func (s *SortedUniquePoints) Points() []UniquePoint { return s.points }

// Last returns the most recently pushed point.  It panics on an empty set.
func (s *SortedUniquePoints) Last() UniquePoint { return s.points[len(s.points)-1] }

// MaxLen returns the largest LengthStr in the set, or 0 for an empty set.
func (s *SortedUniquePoints) MaxLen() int {
	max := 0
	for _, p := range s.points {
		if p.LengthStr > max {
			max = p.LengthStr
		}
	}
	return max
}
