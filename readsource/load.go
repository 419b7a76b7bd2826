// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package readsource

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/splitread"
	"github.com/klauspost/compress/gzip"
)

// Opts controls read loading.
type Opts struct {
	SplitRead splitread.Opts
	// InsertSize is assigned to BAM reads.  Pindel text reads carry their own.
	InsertSize int
	// Sample tags BAM reads, and Pindel text reads without a tag.
	Sample string
	// MinMapQ drops reads whose mate maps with a lower quality.
	MinMapQ int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	SplitRead:  splitread.DefaultOpts,
	InsertSize: 500,
	Sample:     "sample",
}

// Stats counts the records seen while loading.
type Stats struct {
	// Loaded is the number of reads added.
	Loaded int
	// UnknownChromosome is the number of reads whose mate maps to a
	// chromosome that is not in the genome.
	UnknownChromosome int
	// LowMapQ is the number of reads dropped for MinMapQ.
	LowMapQ int
	// Unpaired is the number of BAM records whose mate was never found.
	Unpaired int
}

// Merge returns the sum of s and o.
func (s Stats) Merge(o Stats) Stats {
	s.Loaded += o.Loaded
	s.UnknownChromosome += o.UnknownChromosome
	s.LowMapQ += o.LowMapQ
	s.Unpaired += o.Unpaired
	return s
}

func (s *Stats) add(r *splitread.SplitRead, ok bool, opts Opts, m *Memory) {
	switch {
	case !ok:
		s.UnknownChromosome++
	case r.MS < opts.MinMapQ:
		s.LowMapQ++
	default:
		m.Add(r)
		s.Loaded++
	}
}

// ReadPindel adds the reads of a Pindel text stream to m.
func ReadPindel(r io.Reader, g *genome.Genome, opts Opts, m *Memory) (Stats, error) {
	var (
		stats Stats
		rec   Record
		sc    = NewScanner(r)
	)
	for sc.Scan(&rec) {
		if rec.Tag == "" {
			rec.Tag = opts.Sample
		}
		read, ok := rec.SplitRead(g, opts.SplitRead)
		if !ok {
			log.Debug.Printf("%s: unknown chromosome %s", rec.Name, rec.ChrName)
		}
		stats.add(read, ok, opts, m)
	}
	return stats, sc.Err()
}

// LoadPindel adds the reads of a (possibly gzipped) Pindel text file to m.
func LoadPindel(ctx context.Context, path string, g *genome.Genome, opts Opts, m *Memory) (stats Stats, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return stats, errors.E(err, "open reads", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return stats, errors.E(err, "open reads", path)
		}
	}
	if stats, err = ReadPindel(reader, g, opts, m); err != nil {
		return stats, errors.E(err, "read", path)
	}
	logStats(path, stats)
	return stats, nil
}

func logStats(path string, stats Stats) {
	log.Printf("%s: loaded %d reads; skipped %d on unknown chromosomes, %d below mapq, %d unpaired",
		path, stats.Loaded, stats.UnknownChromosome, stats.LowMapQ, stats.Unpaired)
}
