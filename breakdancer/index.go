// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package breakdancer

import (
	"github.com/biogo/store/llrb"
)

type key struct {
	chrIndex int
	pos      int
	id       int
	event    *Event
}

// Compare compares two key objects for use in llrb.
func (k key) Compare(c2 llrb.Comparable) int {
	k2 := c2.(key)
	if diff := k.chrIndex - k2.chrIndex; diff != 0 {
		return diff
	}
	if diff := k.pos - k2.pos; diff != 0 {
		return diff
	}
	return k.id - k2.id
}

// Index answers confirmation queries over a set of events.  Events are keyed
// by their first coordinate.  An Index is read-only after construction and
// safe for concurrent use.
type Index struct {
	tree llrb.Tree
}

// NewIndex indexes the given events.  Events on unknown chromosomes are
// ignored.
func NewIndex(events []Event) *Index {
	idx := &Index{}
	for i := range events {
		e := &events[i]
		if !e.First.Valid() {
			continue
		}
		idx.tree.Insert(key{chrIndex: e.First.ChrIndex, pos: e.First.Pos, id: i, event: e})
	}
	return idx
}

// Len returns the number of indexed events.
func (idx *Index) Len() int { return idx.tree.Len() }

// Confirming returns the events whose first window contains left and whose
// second window contains right, both on chromosome chrIndex.  Positions are
// 0-based biological coordinates.  Events are returned in first-coordinate
// order.
func (idx *Index) Confirming(chrIndex, left, right int) []*Event {
	if idx == nil || idx.tree.Len() == 0 {
		return nil
	}
	var found []*Event
	from := key{chrIndex: chrIndex, pos: left - WindowSpan, id: -1}
	to := key{chrIndex: chrIndex, pos: left + WindowSpan + 1, id: -1}
	idx.tree.DoRange(func(c llrb.Comparable) bool {
		e := c.(key).event
		if e.First.InWindow(chrIndex, left) && e.Second.InWindow(chrIndex, right) {
			found = append(found, e)
		}
		return false
	}, from, to)
	return found
}
