// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/pindel/breakdancer"
	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/splitread"
	"github.com/grailbio/pindel/window"
)

// Input bundles the collaborators of a search.
type Input struct {
	Genome   *genome.Genome
	Feed     ReadFeed
	Reporter Reporter
	// BreakDancer, if non-nil, is checked for events confirmed by the search.
	BreakDancer *breakdancer.Index
	// Regions restricts the search.  If empty, every chromosome is searched.
	Regions []window.Region
	// Exclude, if non-nil, drops reads whose mate is anchored in it.
	Exclude Excluder
}

// Run searches every region for split-read events.  Regions are distributed
// over opts.Parallelism workers; each region is walked bin by bin by a single
// worker, which also owns the reads deferred between its cycles.
func Run(ctx context.Context, in Input, opts Opts) (Stats, error) {
	regions := in.Regions
	if len(regions) == 0 {
		for _, chr := range in.Genome.Chromosomes() {
			regions = append(regions, window.WholeChromosome(chr.Name()))
		}
	}
	for _, r := range regions {
		if in.Genome.ChrNameToChrIndex(r.ChrName) == genome.NotFound {
			return Stats{}, errors.E("search: unknown chromosome", r.ChrName)
		}
	}
	if len(regions) == 0 {
		return Stats{}, nil
	}
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > len(regions) {
		parallelism = len(regions)
	}
	jobStats := make([]Stats, parallelism)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(regions)) / parallelism
		endIdx := ((jobIdx + 1) * len(regions)) / parallelism
		for _, r := range regions[startIdx:endIdx] {
			st, err := searchRegion(ctx, &in, opts, r)
			jobStats[jobIdx] = jobStats[jobIdx].Merge(st)
			if err != nil {
				return err
			}
		}
		return nil
	})
	var stats Stats
	for _, st := range jobStats {
		stats = stats.Merge(st)
	}
	return stats, err
}

func searchRegion(ctx context.Context, in *Input, opts Opts, region window.Region) (Stats, error) {
	chr, chrIndex, _ := in.Genome.LookupName(region.ChrName)
	s := newChrSearch(NewEngine(opts, chr), in, chrIndex)
	l := window.NewLooper(region, chr, window.LoopOpts{BinSize: opts.BinSize, Margin: opts.Margin})
	var (
		deferred []*splitread.SplitRead
		last     = l.Window()
	)
	for ; !l.Finished(); l.Next() {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		last = l.Window()
		deferred = s.cycle(l, deferred)
	}
	if len(deferred) > 0 {
		// The region ended before the chromosome did; search what is left
		// without deferring.
		s.process(deferred, last, false)
	}
	if err := s.report(); err != nil {
		return s.stats, err
	}
	log.Printf("%s: %d cycles, %d reads, %d deferrals, %d events",
		region.ChrName, s.stats.Cycles, s.stats.Reads, s.stats.Deferred, sumEvents(s.stats))
	return s.stats, nil
}

func sumEvents(s Stats) int {
	var n int
	for _, c := range s.Events {
		n += c
	}
	return n
}
