// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/seq"
	"github.com/grailbio/pindel/splitread"
	"github.com/grailbio/pindel/window"
	"github.com/grailbio/testutil/expect"
)

const testSpacer = 1000

func randomSeq(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGT"[r.Intn(4)]
	}
	return b
}

// otherBase returns a base different from b.
func otherBase(b byte) byte {
	if b == 'A' {
		return 'C'
	}
	return 'A'
}

func newTestChr(ref []byte) *genome.Chromosome {
	g := genome.New(testSpacer)
	return g.AddChromosome("chr1", ref)
}

func exactOpts() Opts {
	o := DefaultOpts
	o.SplitRead = splitread.Opts{SeqErrorRate: 0, AdditionalMismatch: 1}
	o.MaxRangeIndex = 0
	return o
}

// newRead creates a read whose sequence, in the orientation of the reference
// strand, is s.  anchor is a biological position.
func newRead(mate splitread.Direction, anchor, isize int, s string, opts splitread.Opts) *splitread.SplitRead {
	r := &splitread.SplitRead{
		Name:          "r",
		FragName:      "chr1",
		MatchedD:      mate,
		MatchedRelPos: anchor + testSpacer,
		InsertSize:    isize,
		Tag:           "s1",
	}
	if mate == splitread.Forward {
		s = seq.ReverseComplement(s)
	}
	r.SetUnmatchedSeq(s, opts)
	return r
}

func concat(parts ...[]byte) string {
	var b strings.Builder
	for _, p := range parts {
		b.Write(p)
	}
	return b.String()
}

func wholeWindow(chr *genome.Chromosome) window.Window {
	return window.New(chr, 0, chr.BiolSize()-1)
}

func TestLoopAndFarEnd(t *testing.T) {
	ref := randomSeq(1000, 1)
	chr := newTestChr(ref)

	l := window.NewLooper(window.WholeChromosome("chr1"), chr, window.LoopOpts{BinSize: 200})
	for i := 0; i < 5; i++ {
		expect.False(t, l.Finished())
		l.Next()
	}
	expect.True(t, l.Finished())

	opts := DefaultOpts
	opts.SplitRead = splitread.Opts{SeqErrorRate: 0.05, AdditionalMismatch: 1}
	e := NewEngine(opts, chr)
	read := newRead(splitread.Forward, 50, 50, concat(ref[80:100], ref[150:170]), opts.SplitRead)
	expect.EQ(t, read.MaxSNPError(), 2)
	read.CloseEnd.Push(splitread.UniquePoint{
		LengthStr: 20,
		AbsLoc:    99 + testSpacer,
		Direction: splitread.Forward,
		Strand:    splitread.Sense,
	})
	expect.True(t, e.GetFarEndDownstream(read, wholeWindow(chr), 0))
	expect.EQ(t, read.FarEnd.Len(), 1)
	expect.EQ(t, read.FarEnd.At(0), splitread.UniquePoint{
		LengthStr:  20,
		AbsLoc:     150 + testSpacer,
		Direction:  splitread.Backward,
		Strand:     splitread.Sense,
		Mismatches: 0,
	})
}

func TestCloseEndAmbiguous(t *testing.T) {
	ref := randomSeq(2000, 2)
	// The same 30 bases at 500 and 600.
	copy(ref[600:630], ref[500:530])
	chr := newTestChr(ref)
	e := NewEngine(exactOpts(), chr)
	read := newRead(splitread.Forward, 450, 100, string(ref[500:530])+strings.Repeat("N", 10), exactOpts().SplitRead)
	typ, outcome := e.Investigate(read, wholeWindow(chr))
	expect.EQ(t, outcome, NoCloseEnd)
	expect.EQ(t, typ, EventType(0))
	expect.False(t, read.Investigated)
}

func TestContiguousAndEmpty(t *testing.T) {
	ref := randomSeq(2000, 4)
	chr := newTestChr(ref)
	e := NewEngine(exactOpts(), chr)

	read := newRead(splitread.Forward, 450, 100, string(ref[500:540]), exactOpts().SplitRead)
	_, outcome := e.Investigate(read, wholeWindow(chr))
	expect.EQ(t, outcome, Contiguous)
	expect.False(t, read.HasCloseEnd())

	empty := newRead(splitread.Forward, 450, 100, "", exactOpts().SplitRead)
	_, outcome = e.Investigate(empty, wholeWindow(chr))
	expect.EQ(t, outcome, Empty)
}

func TestInvestigate(t *testing.T) {
	ref := randomSeq(2000, 5)
	ins := randomSeq(6, 6)

	// Deletion of [520, 570), seen from a '+' mate.
	ref[520] = otherBase(ref[570])
	// Deletion of [1020, 1070), seen from a '-' mate.
	ref[1069] = otherBase(ref[1019])
	// Insertion of ins after 319.
	ins[0] = otherBase(ref[320])
	ins[5] = otherBase(ref[319])
	// Tandem duplication of [700, 760).
	ref[760] = otherBase(ref[700])
	// Inversion of [1400, 1480).
	ref[1400] = otherBase(seq.Complement(ref[1479]))

	chr := newTestChr(ref)
	opts := exactOpts()
	e := NewEngine(opts, chr)
	rc := func(b []byte) []byte {
		out := make([]byte, len(b))
		seq.ReverseComp8(out, b)
		return out
	}

	tests := []struct {
		name                string
		mate                splitread.Direction
		anchor              int
		s                   string
		typ                 EventType
		bpLeft, bpRight, sz int
		nt                  string
	}{
		{"plus deletion", splitread.Forward, 400, concat(ref[500:520], ref[570:590]),
			Deletion, 519, 570, 50, ""},
		{"minus deletion", splitread.Backward, 1200, concat(ref[1000:1020], ref[1070:1090]),
			Deletion, 1019, 1070, 50, ""},
		{"plus insertion", splitread.Forward, 250, concat(ref[300:320], ins, ref[320:334]),
			ShortInsertion, 319, 320, 6, string(ins)},
		{"plus tandem duplication", splitread.Forward, 650, concat(ref[740:760], ref[700:720]),
			TandemDuplication, 699, 760, 60, ""},
		{"plus inversion", splitread.Forward, 1300, concat(ref[1380:1400], rc(ref[1460:1480])),
			Inversion, 1399, 1480, 80, ""},
	}
	for _, tt := range tests {
		read := newRead(tt.mate, tt.anchor, 100, tt.s, opts.SplitRead)
		typ, outcome := e.Investigate(read, wholeWindow(chr))
		expect.EQ(t, outcome, Resolved, tt.name)
		expect.EQ(t, typ, tt.typ, tt.name)
		expect.True(t, read.Investigated, tt.name)
		expect.EQ(t, read.BPLeft, tt.bpLeft+testSpacer, tt.name)
		expect.EQ(t, read.BPRight, tt.bpRight+testSpacer, tt.name)
		expect.EQ(t, read.IndelSize, tt.sz, tt.name)
		expect.EQ(t, read.NTStr, tt.nt, tt.name)
		expect.EQ(t, read.InsertedStr, tt.nt, tt.name)
	}
}

func TestResolveMinusMate(t *testing.T) {
	chr := newTestChr(randomSeq(100, 7))
	e := NewEngine(exactOpts(), chr)
	s := string(randomSeq(40, 8))

	tests := []struct {
		name            string
		close, far      splitread.UniquePoint
		typ             EventType
		ok              bool
		bpLeft, bpRight int
	}{
		{
			"tandem duplication",
			splitread.UniquePoint{LengthStr: 20, AbsLoc: 500, Direction: splitread.Backward},
			splitread.UniquePoint{LengthStr: 20, AbsLoc: 560, Direction: splitread.Forward},
			TandemDuplication, true, 499, 561,
		},
		{
			"inversion",
			splitread.UniquePoint{LengthStr: 20, AbsLoc: 500, Direction: splitread.Backward},
			splitread.UniquePoint{LengthStr: 20, AbsLoc: 300, Direction: splitread.Backward, Strand: splitread.Antisense},
			Inversion, true, 299, 500,
		},
		{
			"too few matched bases",
			splitread.UniquePoint{LengthStr: 10, AbsLoc: 500, Direction: splitread.Backward},
			splitread.UniquePoint{LengthStr: 10, AbsLoc: 300, Direction: splitread.Forward},
			0, false, 0, 0,
		},
		{
			"adjacent ends",
			splitread.UniquePoint{LengthStr: 20, AbsLoc: 500, Direction: splitread.Backward},
			splitread.UniquePoint{LengthStr: 20, AbsLoc: 499, Direction: splitread.Forward},
			0, false, 0, 0,
		},
	}
	for _, tt := range tests {
		read := newRead(splitread.Backward, 700, 100, s, e.opts.SplitRead)
		read.CloseEnd.Push(tt.close)
		read.FarEnd.Push(tt.far)
		typ, ok := e.Resolve(read)
		expect.EQ(t, ok, tt.ok, tt.name)
		if !tt.ok {
			continue
		}
		expect.EQ(t, typ, tt.typ, tt.name)
		expect.EQ(t, read.BPLeft, tt.bpLeft, tt.name)
		expect.EQ(t, read.BPRight, tt.bpRight, tt.name)
		expect.EQ(t, read.IndelSize, tt.bpRight-tt.bpLeft-1, tt.name)
	}

	// Two far ends are ambiguous.
	read := newRead(splitread.Backward, 700, 100, s, e.opts.SplitRead)
	read.CloseEnd.Push(tests[0].close)
	read.FarEnd.Push(tests[0].far)
	read.FarEnd.Push(tests[1].far)
	_, ok := e.Resolve(read)
	expect.False(t, ok)
}

func TestCleanUniquePoints(t *testing.T) {
	var up splitread.SortedUniquePoints
	CleanUniquePoints(&up)
	expect.True(t, up.Empty())

	for _, p := range []splitread.UniquePoint{
		{LengthStr: 10, AbsLoc: 109},
		{LengthStr: 12, AbsLoc: 111, Mismatches: 1},
		{LengthStr: 12, AbsLoc: 111},
		{LengthStr: 11, AbsLoc: 210},
		{LengthStr: 12, AbsLoc: 300},
		{LengthStr: 12, AbsLoc: 300, Strand: splitread.Antisense},
	} {
		up.Push(p)
	}
	CleanUniquePoints(&up)
	expect.EQ(t, up.Points(), []splitread.UniquePoint{
		{LengthStr: 12, AbsLoc: 111},
		{LengthStr: 12, AbsLoc: 300},
		{LengthStr: 12, AbsLoc: 300, Strand: splitread.Antisense},
	})
}

func TestCheckBoth(t *testing.T) {
	ref := []byte("TTTTTACGTACGTTTTTGGCCAATTTTT")
	chr := newTestChr(ref)
	opts := exactOpts()
	e := NewEngine(opts, chr)
	win := wholeWindow(chr)
	read := newRead(splitread.Backward, 0, 10, "ACGTACG", opts.SplitRead)

	// "ACGT" occurs at 5 and 9: unique only once the match reaches "ACGTACG".
	plus := NewTrack(splitread.Forward, splitread.Sense, read.TotalSNPErrorChecked())
	plus.Seed(chr, win, 'A', testSpacer, testSpacer+len(ref)-1)
	var up splitread.SortedUniquePoints
	e.CheckBoth(read, win, "ACGTACG", plus, nil, 1, 7, &up)
	expect.False(t, up.Empty())
	expect.EQ(t, up.Last(), splitread.UniquePoint{LengthStr: 7, AbsLoc: testSpacer + 11, Direction: splitread.Forward})
	for _, p := range up.Points() {
		expect.EQ(t, p.AbsLoc-p.LengthStr+1, testSpacer+5)
	}

	// "GGCC" is its own reverse complement, so it is found on both strands
	// at the same place and never unique.
	plus = NewTrack(splitread.Forward, splitread.Sense, read.TotalSNPErrorChecked())
	plus.Seed(chr, win, 'G', testSpacer, testSpacer+len(ref)-1)
	minus := NewTrack(splitread.Backward, splitread.Antisense, read.TotalSNPErrorChecked())
	minus.Seed(chr, win, 'G', testSpacer, testSpacer+len(ref)-1)
	up.Clear()
	e.CheckBoth(read, win, "GGCC", plus, minus, 4, 4, &up)
	expect.True(t, up.Empty())
}
