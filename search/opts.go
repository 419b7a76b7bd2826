// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"github.com/grailbio/pindel/splitread"
)

// NumRanges is the number of far-end search ranges.
const NumRanges = 15

// DSizes lists the far-end search distances.  Range index i searches up to
// DSizes[i] bases beyond the close end.
var DSizes = func() [NumRanges]int {
	var d [NumRanges]int
	d[0] = 128
	for i := 1; i < NumRanges; i++ {
		d[i] = d[i-1] * 4
	}
	return d
}()

// Opts configures a breakpoint search.
type Opts struct {
	SplitRead splitread.Opts
	// BinSize is the length of each official range walked per cycle.
	BinSize int
	// Margin is the sequence shown on each side of the official range.  Reads
	// whose search reaches past the end of the displayed range are deferred
	// to the next cycle; the range is widened backwards as far as a read
	// needs.
	Margin int
	// MinCloseLen is the shortest close-end match accepted.
	MinCloseLen int
	// MinFarLen is the shortest far-end match accepted.
	MinFarLen int
	// MinNumMatchedBases is the minimum number of read bases that the close
	// and far ends together must match for a read to support an event.
	MinNumMatchedBases int
	// MaxRangeIndex is the largest index into DSizes tried.
	MaxRangeIndex int
	// MinSupport is the minimum number of unique reads an event needs to be
	// reported.
	MinSupport int
	// Parallelism is the number of chromosome workers.
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	SplitRead:          splitread.DefaultOpts,
	BinSize:            10000000,
	Margin:             20000,
	MinCloseLen:        8,
	MinFarLen:          8,
	MinNumMatchedBases: 30,
	MaxRangeIndex:      3,
	MinSupport:         1,
	Parallelism:        1,
}

// MaxReach returns how far beyond its anchor a read's close- and far-end
// search may look.
func (o *Opts) MaxReach(read *splitread.SplitRead) int {
	return 3*read.InsertSize + DSizes[o.maxRangeIndex()] + 2*read.ReadLength()
}

func (o *Opts) maxRangeIndex() int {
	switch {
	case o.MaxRangeIndex < 0:
		return 0
	case o.MaxRangeIndex >= NumRanges:
		return NumRanges - 1
	}
	return o.MaxRangeIndex
}
