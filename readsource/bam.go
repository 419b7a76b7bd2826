// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package readsource

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/seq"
	"github.com/grailbio/pindel/splitread"
)

// skipFlags marks records that never contribute split reads.
const skipFlags = sam.Secondary | sam.Supplementary | sam.QCFail | sam.Duplicate

// anchor is the mapped mate of an unmapped read.
type anchor struct {
	chrName string
	// pos is the leftmost aligned base for a forward mate, the rightmost for
	// a reverse one.
	pos     int
	reverse bool
	mapq    int
}

// isAnchor reports whether r is a mapped read whose mate is not.
func isAnchor(r *sam.Record) bool {
	return r.Flags&sam.Paired != 0 && r.Flags&sam.Unmapped == 0 && r.Flags&sam.MateUnmapped != 0
}

// isOrphan reports whether r is an unmapped read whose mate is mapped.
func isOrphan(r *sam.Record) bool {
	return r.Flags&sam.Paired != 0 && r.Flags&sam.Unmapped != 0 && r.Flags&sam.MateUnmapped == 0
}

func newAnchor(r *sam.Record) anchor {
	a := anchor{chrName: r.Ref.Name(), pos: r.Pos, mapq: int(r.MapQ)}
	if r.Flags&sam.Reverse != 0 {
		a.reverse = true
		a.pos = r.End() - 1
	}
	return a
}

// orphanSeq returns the bases of an unmapped read as sequenced.
func orphanSeq(r *sam.Record) string {
	b := r.Seq.Expand()
	if r.Flags&sam.Reverse != 0 {
		seq.ReverseComp8Inplace(b)
	}
	return string(b)
}

// bamPairer matches anchors with orphans by read name.  Either may come
// first in the input.
type bamPairer struct {
	g       *genome.Genome
	opts    Opts
	m       *Memory
	stats   Stats
	anchors map[string]anchor
	orphans map[string]string
}

func (p *bamPairer) add(r *sam.Record) {
	if r.Flags&skipFlags != 0 {
		return
	}
	switch {
	case isAnchor(r):
		a := newAnchor(r)
		if s, ok := p.orphans[r.Name]; ok {
			delete(p.orphans, r.Name)
			p.emit(r.Name, a, s)
			return
		}
		p.anchors[r.Name] = a
	case isOrphan(r):
		s := orphanSeq(r)
		if a, ok := p.anchors[r.Name]; ok {
			delete(p.anchors, r.Name)
			p.emit(r.Name, a, s)
			return
		}
		p.orphans[r.Name] = s
	}
}

func (p *bamPairer) emit(name string, a anchor, s string) {
	if p.g.ChrNameToChrIndex(a.chrName) == genome.NotFound {
		p.stats.add(nil, false, p.opts, p.m)
		return
	}
	read := &splitread.SplitRead{
		Name:          name,
		FragName:      a.chrName,
		MatchedD:      splitread.Forward,
		MatchedRelPos: a.pos + p.g.Spacer(),
		MS:            a.mapq,
		InsertSize:    p.opts.InsertSize,
		Tag:           p.opts.Sample,
	}
	if a.reverse {
		read.MatchedD = splitread.Backward
	}
	read.SetUnmatchedSeq(seq.CleanString(s), p.opts.SplitRead)
	p.stats.add(read, true, p.opts, p.m)
}

// ReadBAM adds the one-end-anchored pairs of a BAM stream to m.  A pair
// contributes the unmapped read, anchored at its mapped mate.
func ReadBAM(r io.Reader, g *genome.Genome, opts Opts, m *Memory) (Stats, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return Stats{}, err
	}
	defer br.Close() // nolint: errcheck
	p := &bamPairer{
		g:       g,
		opts:    opts,
		m:       m,
		anchors: map[string]anchor{},
		orphans: map[string]string{},
	}
	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p.stats, err
		}
		p.add(rec)
	}
	p.stats.Unpaired = len(p.anchors) + len(p.orphans)
	return p.stats, nil
}

// LoadBAM adds the one-end-anchored pairs of a BAM file to m.
func LoadBAM(ctx context.Context, path string, g *genome.Genome, opts Opts, m *Memory) (stats Stats, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return stats, errors.E(err, "open bam", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if stats, err = ReadBAM(in.Reader(ctx), g, opts, m); err != nil {
		return stats, errors.E(err, "read bam", path)
	}
	if stats.Unpaired > 0 {
		log.Debug.Printf("%s: %d records without a matching mate", path, stats.Unpaired)
	}
	logStats(path, stats)
	return stats, nil
}
