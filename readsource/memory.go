// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package readsource loads split reads, i.e. reads whose mate is mapped
// while they themselves are not, from Pindel text files and BAM files, and
// serves them to the breakpoint search by anchor position.
package readsource

import (
	"sort"
	"sync"

	"github.com/grailbio/pindel/splitread"
)

// Memory holds split reads grouped by the chromosome of their mate.  Add may
// be called concurrently.  After Sort, Memory is read-only and ReadsIn may be
// called concurrently.
type Memory struct {
	mu    sync.Mutex
	byChr map[string][]*splitread.SplitRead
	n     int
}

// NewMemory creates an empty Memory.
func NewMemory() *Memory {
	return &Memory{byChr: map[string][]*splitread.SplitRead{}}
}

// Add stores r.
func (m *Memory) Add(r *splitread.SplitRead) {
	m.mu.Lock()
	m.byChr[r.FragName] = append(m.byChr[r.FragName], r)
	m.n++
	m.mu.Unlock()
}

// Len returns the number of reads stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

// Sort orders the reads of every chromosome by anchor.  Reads with equal
// anchors keep the order they were added in.
func (m *Memory) Sort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reads := range m.byChr {
		sort.SliceStable(reads, func(i, j int) bool { return reads[i].MatchedRelPos < reads[j].MatchedRelPos })
	}
}

// Reads returns the reads anchored on chrName, in anchor order once Sort has
// been called.
func (m *Memory) Reads(chrName string) []*splitread.SplitRead {
	return m.byChr[chrName]
}

// ReadsIn returns the reads anchored on chrName at a Pindel coordinate in
// [start, end].  Sort must have been called.  The search asks for disjoint
// ranges, so every read is handed out at most once.
func (m *Memory) ReadsIn(chrName string, start, end int) []*splitread.SplitRead {
	reads := m.byChr[chrName]
	lo := sort.Search(len(reads), func(i int) bool { return reads[i].MatchedRelPos >= start })
	hi := sort.Search(len(reads), func(i int) bool { return reads[i].MatchedRelPos > end })
	if lo >= hi {
		return nil
	}
	return reads[lo:hi:hi]
}
