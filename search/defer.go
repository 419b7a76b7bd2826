// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"github.com/grailbio/pindel/splitread"
	"github.com/grailbio/pindel/window"
)

// Transgresses reports whether the search for read could need sequence past
// the end of win while the chromosome continues beyond it.  Such reads are
// deferred to the next cycle instead of being searched with a truncated
// reference.
func (e *Engine) Transgresses(read *splitread.SplitRead, win window.Window) bool {
	p := win.PindelCoordinates()
	if p.End() >= e.chr.BiolEnd()-1 {
		return false
	}
	return read.MatchedRelPos+e.opts.MaxReach(read) > p.End()
}

// SaveReadForNextCycle queues read, unmodified, for the next cycle over the
// same chromosome.
func SaveReadForNextCycle(read *splitread.SplitRead, future []*splitread.SplitRead) []*splitread.SplitRead {
	return append(future, read)
}
