// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/pindel/readsource"
	"github.com/grailbio/pindel/search"
)

var (
	fastaPath       = flag.String("fasta", "", "Reference FASTA path (may be gzipped); required")
	pindelReads     = flag.String("reads", "", "Comma-separated Pindel text read files (may be gzipped)")
	bamPaths        = flag.String("bam", "", "Comma-separated BAM files; pairs with one unmapped end are used")
	insertSize      = flag.Int("insert-size", readsource.DefaultOpts.InsertSize, "Library insert size assumed for BAM reads")
	sample          = flag.String("sample", readsource.DefaultOpts.Sample, "Sample name of BAM reads, and of Pindel reads without one")
	minMapQ         = flag.Int("min-mapq", readsource.DefaultOpts.MinMapQ, "Reads whose mate has a lower MAPQ are skipped")
	chromosome      = flag.String("chromosome", "ALL", "Region to search: <contig>, <contig>:<1-based pos>, or <contig>:<first>-<last>; ALL searches every chromosome")
	excludePath     = flag.String("exclude", "", "BED file of regions whose reads are skipped")
	breakDancerPath = flag.String("breakdancer", "", "BreakDancer output to confirm")
	outPath         = flag.String("out", "bio-pindel.events.tsv", "Event output path")
	bdOutPath       = flag.String("bd-out", "", "Confirmed BreakDancer event output path; defaults to -out with a .breakdancer.tsv suffix")
	dumpReadsPath   = flag.String("dump-reads", "", "If set, write all loaded reads here in Pindel text format")
	binSize         = flag.Int("bin-size", search.DefaultOpts.BinSize, "Number of bases searched per cycle")
	margin          = flag.Int("margin", search.DefaultOpts.Margin, "Bases visible on either side of a bin")
	seqErrorRate    = flag.Float64("seq-error-rate", search.DefaultOpts.SplitRead.SeqErrorRate, "Expected fraction of mismatching bases in a read")
	additionalMM    = flag.Int("additional-mismatch", search.DefaultOpts.SplitRead.AdditionalMismatch, "Extra mismatches a second-best alignment needs for a match to count as unique")
	minCloseLen     = flag.Int("min-close-len", search.DefaultOpts.MinCloseLen, "Shortest match accepted next to the mapped mate")
	minFarLen       = flag.Int("min-far-len", search.DefaultOpts.MinFarLen, "Shortest match accepted for the far end of a read")
	minMatched      = flag.Int("min-matched-bases", search.DefaultOpts.MinNumMatchedBases, "Minimum number of read bases matched by both ends together")
	maxRangeIndex   = flag.Int("max-range-index", search.DefaultOpts.MaxRangeIndex, "Largest far-end search range; range i reaches 128*4^i bases")
	minSupport      = flag.Int("min-support", search.DefaultOpts.MinSupport, "Minimum number of unique reads supporting a reported event")
	parallelism     = flag.Int("parallelism", 0, "Number of chromosomes searched at once; 0 = runtime.NumCPU()")
)

// peakMem records the largest heap and process memory seen during a run.
type peakMem struct {
	mu        sync.Mutex
	heapInuse uint64
	sys       uint64
	numGC     uint32
}

func (p *peakMem) sample() {
	var s runtime.MemStats
	runtime.ReadMemStats(&s)
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.HeapInuse > p.heapInuse {
		p.heapInuse = s.HeapInuse
	}
	if s.Sys > p.sys {
		p.sys = s.Sys
	}
	p.numGC = s.NumGC
}

func (p *peakMem) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("peak heap in use %dMiB, peak sys %dMiB, %d GCs", p.heapInuse>>20, p.sys>>20, p.numGC)
}

// watch samples memory every interval until done is closed.
func (p *peakMem) watch(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.sample()
		case <-done:
			return
		}
	}
}

func usage() {
	fmt.Printf("Usage: %s -fasta ref.fa (-reads reads.txt | -bam reads.bam) [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *fastaPath == "" {
		log.Fatalf("-fasta is required")
	}
	if *pindelReads == "" && *bamPaths == "" {
		log.Fatalf("at least one of -reads and -bam is required")
	}
	var regions []string
	if *chromosome != "ALL" {
		regions = []string{*chromosome}
	}
	opts := search.DefaultOpts
	opts.SplitRead.SeqErrorRate = *seqErrorRate
	opts.SplitRead.AdditionalMismatch = *additionalMM
	opts.BinSize = *binSize
	opts.Margin = *margin
	opts.MinCloseLen = *minCloseLen
	opts.MinFarLen = *minFarLen
	opts.MinNumMatchedBases = *minMatched
	opts.MaxRangeIndex = *maxRangeIndex
	opts.MinSupport = *minSupport
	opts.Parallelism = *parallelism

	readOpts := readsource.DefaultOpts
	readOpts.SplitRead = opts.SplitRead
	readOpts.InsertSize = *insertSize
	readOpts.Sample = *sample
	readOpts.MinMapQ = *minMapQ

	cfg := config{
		fastaPath:       *fastaPath,
		pindelPaths:     splitList(*pindelReads),
		bamPaths:        splitList(*bamPaths),
		regions:         regions,
		excludePath:     *excludePath,
		breakDancerPath: *breakDancerPath,
		outPath:         *outPath,
		bdOutPath:       *bdOutPath,
		dumpReadsPath:   *dumpReadsPath,
		readOpts:        readOpts,
		searchOpts:      opts,
	}
	if cfg.bdOutPath == "" && cfg.breakDancerPath != "" {
		cfg.bdOutPath = strings.TrimSuffix(cfg.outPath, ".tsv") + ".breakdancer.tsv"
	}

	var mem peakMem
	done := make(chan struct{})
	go mem.watch(500*time.Millisecond, done)

	ctx := vcontext.Background()
	if err := runPindel(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
	close(done)
	mem.sample()
	log.Printf("memory: %v", &mem)
	log.Printf("All done")
}
