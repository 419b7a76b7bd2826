// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package genome

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/pindel/encoding/fasta"
	"github.com/klauspost/compress/gzip"
)

// LoadOpts controls LoadFASTA.
type LoadOpts struct {
	// Spacer is the padding applied to each chromosome.
	Spacer int
	// Chromosomes, if nonempty, restricts loading to the named sequences.
	// When the FASTA is uncompressed and has a "<path>.fai" index, only those
	// sequences are read from disk.
	Chromosomes []string
}

// DefaultLoadOpts loads every chromosome with the production spacer.
var DefaultLoadOpts = LoadOpts{Spacer: DefaultSpacer}

// LoadFASTA reads a (possibly gzipped) FASTA file into a new Genome.
// Sequences are capitalized and non-ACGT bases are replaced with 'N'.
func LoadFASTA(ctx context.Context, path string, opts LoadOpts) (g *Genome, err error) {
	g = New(opts.Spacer)
	compressed := fileio.DetermineType(path) == fileio.Gzip
	if len(opts.Chromosomes) > 0 && !compressed {
		if _, serr := file.Stat(ctx, path+".fai"); serr == nil {
			if err = loadIndexed(ctx, g, path, opts.Chromosomes); err != nil {
				return nil, err
			}
			logLoaded(path, g)
			return g, nil
		}
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open reference", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	if compressed {
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, "open reference", path)
		}
	}
	var want map[string]bool
	if len(opts.Chromosomes) > 0 {
		want = map[string]bool{}
		for _, name := range opts.Chromosomes {
			want[name] = true
		}
	}
	sc := fasta.NewScanner(reader, fasta.OptEncoding(fasta.CleanASCII))
	for sc.Scan() {
		if want != nil && !want[sc.Name()] {
			continue
		}
		if g.ChrNameToChrIndex(sc.Name()) != NotFound {
			log.Error.Printf("%s: duplicate sequence %s ignored", path, sc.Name())
			continue
		}
		s := make([]byte, len(sc.Seq()))
		copy(s, sc.Seq())
		g.AddChromosome(sc.Name(), s)
		log.Debug.Printf("%s: loaded %s, %d bases", path, sc.Name(), len(s))
	}
	if err = sc.Err(); err != nil {
		return nil, errors.E(err, "read reference", path)
	}
	if err = checkLoaded(g, path, opts.Chromosomes); err != nil {
		return nil, err
	}
	logLoaded(path, g)
	return g, nil
}

func loadIndexed(ctx context.Context, g *Genome, path string, names []string) (err error) {
	idx, err := file.Open(ctx, path+".fai")
	if err != nil {
		return errors.E(err, "open reference index", path)
	}
	defer idx.Close(ctx) // nolint: errcheck
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open reference", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	fa, err := fasta.NewIndexed(in.Reader(ctx), idx.Reader(ctx), fasta.OptEncoding(fasta.CleanASCII))
	if err != nil {
		return errors.E(err, "read reference index", path)
	}
	for _, name := range names {
		if g.ChrNameToChrIndex(name) != NotFound {
			continue
		}
		n, err := fa.Len(name)
		if err != nil {
			return errors.E(err, "reference", path)
		}
		s, err := fa.Get(name, 0, n)
		if err != nil {
			return errors.E(err, "reference", path)
		}
		g.AddChromosome(name, s)
	}
	return nil
}

func checkLoaded(g *Genome, path string, names []string) error {
	if g.NumChromosomes() == 0 {
		return errors.E("no sequences loaded from reference", path)
	}
	for _, name := range names {
		if g.ChrNameToChrIndex(name) == NotFound {
			return errors.E("sequence not found in reference", name, path)
		}
	}
	return nil
}

func logLoaded(path string, g *Genome) {
	var total int
	for _, c := range g.Chromosomes() {
		total += c.BiolSize()
	}
	log.Printf("%s: loaded %d sequences, %d bases", path, g.NumChromosomes(), total)
}
