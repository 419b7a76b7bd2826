// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package splitread

// Opts holds the thresholds that derive a read's mismatch budget.
type Opts struct {
	// SeqErrorRate is the expected per-base sequencing error rate.  A read of
	// length L may carry up to int(L*SeqErrorRate) mismatches in a match.
	SeqErrorRate float64
	// AdditionalMismatch is the number of mismatch levels beyond the budget
	// that are tracked to prove a match is unique.
	AdditionalMismatch int
}

// DefaultOpts is the default setting for Opts.
var DefaultOpts = Opts{
	SeqErrorRate:       0.01,
	AdditionalMismatch: 1,
}
