// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/seq"
	"github.com/grailbio/pindel/splitread"
	"github.com/grailbio/pindel/window"
)

// Engine matches split reads against one chromosome.  All positions it
// handles are Pindel coordinates.  An Engine holds no per-read state and may
// be shared by the goroutines working on its chromosome.
type Engine struct {
	opts Opts
	chr  *genome.Chromosome
}

// NewEngine creates an engine for chr.
func NewEngine(opts Opts, chr *genome.Chromosome) *Engine {
	return &Engine{opts: opts, chr: chr}
}

// Chromosome returns the chromosome searched.
func (e *Engine) Chromosome() *genome.Chromosome { return e.chr }

// closeQuery returns the read bases in the order the close end is matched,
// and the direction the close-end match walks on the reference.
//
// A '+' mate puts the read downstream on the reverse strand, so the prefix
// of the reverse-complemented read is matched walking forward from the mate.
// A '-' mate puts the read upstream on the forward strand, so its suffix is
// matched walking backward towards the mate.
func closeQuery(read *splitread.SplitRead) (string, splitread.Direction) {
	s := read.CurrentReadSeq()
	if read.MatchedD == splitread.Forward {
		return s, splitread.Forward
	}
	return seq.Reverse(s), splitread.Backward
}

// farQuery returns the read bases in the order the far end is matched, i.e.,
// starting from the end of the read opposite the close end, and the
// direction a sense-strand far-end match walks.
func farQuery(read *splitread.SplitRead) (string, splitread.Direction) {
	s := read.CurrentReadSeq()
	if read.MatchedD == splitread.Forward {
		return seq.Reverse(s), splitread.Backward
	}
	return s, splitread.Forward
}

func opposite(d splitread.Direction) splitread.Direction {
	if d == splitread.Forward {
		return splitread.Backward
	}
	return splitread.Forward
}

// GetCloseEnd fills read.CloseEnd with the alignments of the read end next
// to its mapped mate.  Seeds are taken within three insert sizes of the mate,
// on the side the read is expected: [MatchedRelPos, +3*InsertSize] for a '+'
// mate and [MatchedRelPos-3*InsertSize, MatchedRelPos] for a '-' mate.  The
// result is cleaned with CleanUniquePoints.
func (e *Engine) GetCloseEnd(read *splitread.SplitRead, win window.Window) {
	read.CloseEnd.Clear()
	query, dir := closeQuery(read)
	if len(query) < e.opts.MinCloseLen || len(query) == 0 || query[0] == 'N' {
		return
	}
	from, to := read.MatchedRelPos, read.MatchedRelPos+3*read.InsertSize
	if dir == splitread.Backward {
		from, to = read.MatchedRelPos-3*read.InsertSize, read.MatchedRelPos
	}
	t := NewTrack(dir, splitread.Sense, read.TotalSNPErrorChecked())
	t.Seed(e.chr, win, query[0], from, to)
	e.CheckBoth(read, win, query, t, nil, e.opts.MinCloseLen, read.ReadLengthMinus(), &read.CloseEnd)
	CleanUniquePoints(&read.CloseEnd)
	if !read.CloseEnd.Empty() {
		read.CloseEndLength = read.CloseEnd.Last().LengthStr
	}
}

// farBounds returns the length bounds of a far-end match given the read's
// close end.
func (e *Engine) farBounds(read *splitread.SplitRead) (int, int) {
	return e.opts.MinFarLen, read.ReadLength() - read.CloseEnd.Last().LengthStr
}

// searchFar seeds a track on strand over [from, to], matches the far end of
// the read, and stores the cleaned points in read.FarEnd.  It returns whether
// any point was found.
func (e *Engine) searchFar(read *splitread.SplitRead, win window.Window, strand splitread.Strand, from, to int) bool {
	read.FarEnd.Clear()
	if !read.HasCloseEnd() {
		return false
	}
	bpStart, bpEnd := e.farBounds(read)
	query, dir := farQuery(read)
	if bpEnd < bpStart || len(query) == 0 || query[0] == 'N' {
		return false
	}
	var plus, minus *Track
	if strand == splitread.Sense {
		plus = NewTrack(dir, splitread.Sense, read.TotalSNPErrorChecked())
		plus.Seed(e.chr, win, query[0], from, to)
	} else {
		minus = NewTrack(opposite(dir), splitread.Antisense, read.TotalSNPErrorChecked())
		minus.Seed(e.chr, win, query[0], from, to)
	}
	e.CheckBoth(read, win, query, plus, minus, bpStart, bpEnd, &read.FarEnd)
	CleanUniquePoints(&read.FarEnd)
	return !read.FarEnd.Empty()
}

func rangeSize(rangeIndex int) int {
	if rangeIndex < 0 {
		rangeIndex = 0
	}
	if rangeIndex >= NumRanges {
		rangeIndex = NumRanges - 1
	}
	return DSizes[rangeIndex]
}

// beyond returns the seed interval extending span bases past the close end,
// away from the mate.
func beyond(read *splitread.SplitRead, span int) (int, int) {
	closeAbs := read.LastAbsLocCloseEnd()
	if read.MatchedD == splitread.Forward {
		return closeAbs + 1, closeAbs + span
	}
	return closeAbs - span, closeAbs - 1
}

// behind returns the seed interval extending span bases from the close end
// back towards the mate.
func behind(read *splitread.SplitRead, span int) (int, int) {
	closeAbs := read.LastAbsLocCloseEnd()
	if read.MatchedD == splitread.Forward {
		return closeAbs - span, closeAbs - 1
	}
	return closeAbs + 1, closeAbs + span
}

// GetFarEndDownstream looks for the far end on the same strand beyond the
// close end, up to DSizes[rangeIndex]+ReadLength bases away.  A hit
// indicates a deletion, or a short insertion when the far end abuts the
// close end.
func (e *Engine) GetFarEndDownstream(read *splitread.SplitRead, win window.Window, rangeIndex int) bool {
	if !read.HasCloseEnd() {
		return false
	}
	from, to := beyond(read, rangeSize(rangeIndex)+read.ReadLength())
	return e.searchFar(read, win, splitread.Sense, from, to)
}

// GetFarEndDownstreamInsertion looks for the far end on the same strand
// within one read length beyond the close end, where the far end of a read
// spanning a short insertion lies.
func (e *Engine) GetFarEndDownstreamInsertion(read *splitread.SplitRead, win window.Window) bool {
	if !read.HasCloseEnd() {
		return false
	}
	from, to := beyond(read, read.ReadLength()-read.CloseEnd.Last().LengthStr)
	return e.searchFar(read, win, splitread.Sense, from, to)
}

// GetFarEndUpstream looks for the far end on the same strand behind the close
// end, which indicates a tandem duplication.
func (e *Engine) GetFarEndUpstream(read *splitread.SplitRead, win window.Window, rangeIndex int) bool {
	if !read.HasCloseEnd() {
		return false
	}
	from, to := behind(read, rangeSize(rangeIndex)+read.ReadLength())
	return e.searchFar(read, win, splitread.Sense, from, to)
}

// GetFarEndOtherStrand looks for the far end on the opposite strand beyond
// the close end, which indicates an inversion.
func (e *Engine) GetFarEndOtherStrand(read *splitread.SplitRead, win window.Window, rangeIndex int) bool {
	if !read.HasCloseEnd() {
		return false
	}
	from, to := beyond(read, rangeSize(rangeIndex)+read.ReadLength())
	return e.searchFar(read, win, splitread.Antisense, from, to)
}
