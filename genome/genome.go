// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package genome holds the reference sequences a breakpoint search runs
// against.
//
// Two coordinate systems are used.  Biological coordinates are 0-based
// offsets into the sequence as it appears in the FASTA file.  Pindel
// coordinates add a fixed spacer to every position: each chromosome is
// conceptually padded with Spacer() 'N' bases on both ends, so window and
// search arithmetic can step past either end of the real sequence without
// bounds checks.  The padding is virtual; only the biological bases are
// stored.
package genome

import (
	"fmt"
)

// DefaultSpacer is the padding used by production runs.
const DefaultSpacer = 10000000

// NotFound is returned by ChrNameToChrIndex for unknown names.
const NotFound = -1

// Chromosome is one named reference sequence.  It is immutable once
// registered with a Genome.
type Chromosome struct {
	name   string
	seq    []byte
	spacer int
	index  int
}

// Dummy is the chromosome returned for out-of-range indices.  It has an empty
// name, an empty sequence and no padding.
var Dummy = &Chromosome{index: NotFound}

// Name returns the chromosome name.
func (c *Chromosome) Name() string { return c.name }

// Index returns the chromosome's index in its Genome, or NotFound for Dummy.
func (c *Chromosome) Index() int { return c.index }

// Spacer returns the padding on each end, in bases.
func (c *Chromosome) Spacer() int { return c.spacer }

// BiolSize returns the length of the real sequence.
func (c *Chromosome) BiolSize() int { return len(c.seq) }

// CompSize returns the padded length, i.e., BiolSize() + 2*Spacer().
func (c *Chromosome) CompSize() int { return len(c.seq) + 2*c.spacer }

// IsDummy reports whether c is the out-of-range sentinel.
func (c *Chromosome) IsDummy() bool { return c == Dummy }

// BiolSeq returns the unpadded sequence.  The caller must not modify it.
func (c *Chromosome) BiolSeq() []byte { return c.seq }

// Base returns the base at the given Pindel coordinate.  Positions in the
// spacer yield 'N'; positions outside [0, CompSize()) yield 0.
func (c *Chromosome) Base(pos int) byte {
	i := pos - c.spacer
	if i >= 0 && i < len(c.seq) {
		return c.seq[i]
	}
	if pos >= 0 && pos < len(c.seq)+2*c.spacer {
		return 'N'
	}
	return 0
}

// BiolStart returns the first Pindel coordinate holding a real base.
func (c *Chromosome) BiolStart() int { return c.spacer }

// BiolEnd returns one past the last Pindel coordinate holding a real base.
func (c *Chromosome) BiolEnd() int { return c.spacer + len(c.seq) }

// String implements fmt.Stringer.
func (c *Chromosome) String() string {
	return fmt.Sprintf("%s(%d bp)", c.name, len(c.seq))
}

// Genome is an arena of chromosomes addressed by stable index.  It is built
// once by a loader and is safe for concurrent reads afterwards.
type Genome struct {
	spacer int
	chrs   []*Chromosome
	index  map[string]int
}

// New creates an empty genome whose chromosomes are padded by spacer bases.
func New(spacer int) *Genome {
	if spacer < 0 {
		panic(fmt.Sprintf("genome.New: negative spacer %d", spacer))
	}
	return &Genome{spacer: spacer, index: map[string]int{}}
}

// Spacer returns the padding applied to every chromosome.
func (g *Genome) Spacer() int { return g.spacer }

// AddChromosome registers a new chromosome and returns the stored value.  The
// genome takes ownership of seq.  Duplicate names are the caller's
// responsibility: name lookups keep resolving to the first registration.
func (g *Genome) AddChromosome(name string, seq []byte) *Chromosome {
	c := &Chromosome{name: name, seq: seq, spacer: g.spacer, index: len(g.chrs)}
	g.chrs = append(g.chrs, c)
	if _, ok := g.index[name]; !ok {
		g.index[name] = c.index
	}
	return c
}

// ChrNameToChrIndex returns the index of the named chromosome, or NotFound.
func (g *Genome) ChrNameToChrIndex(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	return NotFound
}

// Chr returns the chromosome at index, or Dummy if index is out of range.
func (g *Genome) Chr(index int) *Chromosome {
	if c, ok := g.Lookup(index); ok {
		return c
	}
	return Dummy
}

// Lookup returns the chromosome at index.  ok is false if index is out of
// range.
func (g *Genome) Lookup(index int) (c *Chromosome, ok bool) {
	if index < 0 || index >= len(g.chrs) {
		return nil, false
	}
	return g.chrs[index], true
}

// LookupName returns the named chromosome and its index.
func (g *Genome) LookupName(name string) (*Chromosome, int, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, NotFound, false
	}
	return g.chrs[i], i, true
}

// NumChromosomes returns the number of registered chromosomes.
func (g *Genome) NumChromosomes() int { return len(g.chrs) }

// Chromosomes returns the chromosomes in registration order.  The caller
// must not modify the slice.
func (g *Genome) Chromosomes() []*Chromosome { return g.chrs }
