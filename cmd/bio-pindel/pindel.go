// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/pindel/breakdancer"
	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/interval"
	"github.com/grailbio/pindel/readsource"
	"github.com/grailbio/pindel/search"
	"github.com/grailbio/pindel/window"
)

// config is the command line, parsed.
type config struct {
	fastaPath       string
	pindelPaths     []string
	bamPaths        []string
	regions         []string
	excludePath     string
	breakDancerPath string
	outPath         string
	bdOutPath       string
	dumpReadsPath   string
	readOpts        readsource.Opts
	searchOpts      search.Opts
}

func parseRegions(specs []string) ([]window.Region, error) {
	var regions []window.Region
	for _, spec := range specs {
		r, err := interval.ParseRegionString(spec)
		if err != nil {
			return nil, err
		}
		regions = append(regions, window.Region{
			ChrName: r.ChrName,
			Start:   r.Start0,
			End:     r.End - 1,
			Bounded: r.Bounded,
		})
	}
	return regions, nil
}

// loadReads reads every input file in parallel.
func loadReads(ctx context.Context, g *genome.Genome, cfg config) (*readsource.Memory, error) {
	type input struct {
		path string
		load func(context.Context, string, *genome.Genome, readsource.Opts, *readsource.Memory) (readsource.Stats, error)
	}
	var inputs []input
	for _, path := range cfg.pindelPaths {
		inputs = append(inputs, input{path, readsource.LoadPindel})
	}
	for _, path := range cfg.bamPaths {
		inputs = append(inputs, input{path, readsource.LoadBAM})
	}
	m := readsource.NewMemory()
	stats := make([]readsource.Stats, len(inputs))
	err := traverse.Each(len(inputs), func(i int) (err error) {
		stats[i], err = inputs[i].load(ctx, inputs[i].path, g, cfg.readOpts, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	var total readsource.Stats
	for _, s := range stats {
		total = total.Merge(s)
	}
	log.Printf("loaded %d reads from %d files", total.Loaded, len(inputs))
	m.Sort()
	return m, nil
}

func dumpReads(ctx context.Context, path string, g *genome.Genome, m *readsource.Memory) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w := readsource.NewWriter(out.Writer(ctx))
	for _, chr := range g.Chromosomes() {
		for _, r := range m.Reads(chr.Name()) {
			rec := readsource.NewRecord(r, g.Spacer())
			if err = w.Write(&rec); err != nil {
				return errors.E(err, "write", path)
			}
		}
	}
	return w.Flush()
}

func loadBreakDancer(ctx context.Context, path string, g *genome.Genome) (*breakdancer.Index, error) {
	events, err := breakdancer.ReadFile(ctx, path, g)
	if err != nil {
		return nil, err
	}
	merged := breakdancer.MergeEvents(events)
	log.Printf("%s: %d events, %d after merging", path, len(events), len(merged))
	return breakdancer.NewIndex(merged), nil
}

func runPindel(ctx context.Context, cfg config) (err error) {
	regions, err := parseRegions(cfg.regions)
	if err != nil {
		return err
	}
	loadOpts := genome.DefaultLoadOpts
	for _, r := range regions {
		loadOpts.Chromosomes = append(loadOpts.Chromosomes, r.ChrName)
	}
	g, err := genome.LoadFASTA(ctx, cfg.fastaPath, loadOpts)
	if err != nil {
		return err
	}
	reads, err := loadReads(ctx, g, cfg)
	if err != nil {
		return err
	}
	if cfg.dumpReadsPath != "" {
		if err = dumpReads(ctx, cfg.dumpReadsPath, g, reads); err != nil {
			return err
		}
	}

	in := search.Input{Genome: g, Feed: reads, Regions: regions}
	if cfg.excludePath != "" {
		exclude, err := interval.NewBEDUnionFromPath(ctx, cfg.excludePath, interval.NewBEDOpts{})
		if err != nil {
			return err
		}
		log.Printf("%s: excluding %d bases", cfg.excludePath, exclude.NumBases())
		in.Exclude = &exclude
	}
	if cfg.breakDancerPath != "" {
		if in.BreakDancer, err = loadBreakDancer(ctx, cfg.breakDancerPath, g); err != nil {
			return err
		}
	}

	out, err := file.Create(ctx, cfg.outPath)
	if err != nil {
		return errors.E(err, "create", cfg.outPath)
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	var bdWriter io.Writer
	if cfg.bdOutPath != "" {
		var bdOut file.File
		if bdOut, err = file.Create(ctx, cfg.bdOutPath); err != nil {
			return errors.E(err, "create", cfg.bdOutPath)
		}
		defer func() {
			if cerr := bdOut.Close(ctx); cerr != nil && err == nil {
				err = cerr
			}
		}()
		bdWriter = bdOut.Writer(ctx)
	}
	reporter, err := search.NewTSVReporter(out.Writer(ctx), bdWriter)
	if err != nil {
		return err
	}
	in.Reporter = reporter

	opts := cfg.searchOpts
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	stats, err := search.Run(ctx, in, opts)
	if err != nil {
		return err
	}
	log.Printf("search: %v", stats)
	return reporter.Flush()
}
