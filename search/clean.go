// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"github.com/grailbio/pindel/splitread"
)

type terminalKey struct {
	dir      splitread.Direction
	strand   splitread.Strand
	terminal int
}

// CleanUniquePoints prunes up to its best points.  Points sharing a direction,
// strand and terminal are the same alignment seen at different lengths; only
// the longest of each such group is kept (fewest mismatches on a tie).  Groups
// whose longest point is shorter than the longest point overall are dropped.
// Points of maximal length with distinct terminals all survive, so an
// ambiguous alignment stays visible as several points.
func CleanUniquePoints(up *splitread.SortedUniquePoints) {
	if up.Len() <= 1 {
		return
	}
	maxLen := up.MaxLen()
	var (
		kept  []splitread.UniquePoint
		index = map[terminalKey]int{}
	)
	for _, p := range up.Points() {
		if p.LengthStr != maxLen {
			continue
		}
		k := terminalKey{p.Direction, p.Strand, p.Terminal()}
		if i, ok := index[k]; ok {
			if p.Mismatches < kept[i].Mismatches {
				kept[i] = p
			}
			continue
		}
		index[k] = len(kept)
		kept = append(kept, p)
	}
	up.Clear()
	for _, p := range kept {
		up.Push(p)
	}
}
