// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package genome_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/pindel/encoding/fasta"
	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

func newTestGenome() *genome.Genome {
	g := genome.New(5)
	g.AddChromosome("chr1", []byte("ACGTACGTAC"))
	g.AddChromosome("chr2", []byte("GGGG"))
	g.AddChromosome("chrM", []byte("T"))
	return g
}

func TestRoundTrip(t *testing.T) {
	g := newTestGenome()
	for i, c := range g.Chromosomes() {
		expect.EQ(t, g.ChrNameToChrIndex(c.Name()), i)
		expect.True(t, g.Chr(g.ChrNameToChrIndex(c.Name())) == c)
		expect.EQ(t, c.Index(), i)
	}
	expect.EQ(t, g.NumChromosomes(), 3)
}

func TestOutOfRange(t *testing.T) {
	g := newTestGenome()
	for _, i := range []int{-1, genome.NotFound, 3, 1000} {
		c := g.Chr(i)
		expect.True(t, c == genome.Dummy)
		expect.True(t, c.IsDummy())
		expect.EQ(t, c.Name(), "")
		expect.EQ(t, c.BiolSize(), 0)
		expect.EQ(t, c.CompSize(), 0)
		_, ok := g.Lookup(i)
		expect.False(t, ok)
	}
	expect.EQ(t, g.ChrNameToChrIndex("chrX"), genome.NotFound)
	expect.True(t, g.Chr(g.ChrNameToChrIndex("chrX")).IsDummy())
	_, idx, ok := g.LookupName("chrX")
	expect.False(t, ok)
	expect.EQ(t, idx, genome.NotFound)

	c, idx, ok := g.LookupName("chr2")
	expect.True(t, ok)
	expect.EQ(t, idx, 1)
	expect.EQ(t, c.Name(), "chr2")
}

func TestDuplicateName(t *testing.T) {
	g := genome.New(0)
	first := g.AddChromosome("a", []byte("AC"))
	second := g.AddChromosome("a", []byte("GT"))
	expect.EQ(t, second.Index(), 1)
	expect.True(t, g.Chr(g.ChrNameToChrIndex("a")) == first)
}

func TestSpacer(t *testing.T) {
	g := newTestGenome()
	c := g.Chr(0)
	expect.EQ(t, c.Spacer(), 5)
	expect.EQ(t, c.BiolSize(), 10)
	expect.EQ(t, c.CompSize(), 20)
	expect.EQ(t, c.BiolStart(), 5)
	expect.EQ(t, c.BiolEnd(), 15)
	expect.EQ(t, c.Base(4), byte('N'))
	expect.EQ(t, c.Base(5), byte('A'))
	expect.EQ(t, c.Base(14), byte('C'))
	expect.EQ(t, c.Base(15), byte('N'))
	expect.EQ(t, c.Base(19), byte('N'))
	expect.EQ(t, c.Base(20), byte(0))
	expect.EQ(t, c.Base(-1), byte(0))
}

const testFASTA = ">chr1 first\nacgtNNrY\nACGT\n>chr2\nGGGG\n>chr3\nTT\n"

func writeFile(t *testing.T, path string, data []byte) {
	assert.NoError(t, ioutil.WriteFile(path, data, 0600))
}

func TestLoadFASTA(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	plain := filepath.Join(tempDir, "ref.fa")
	writeFile(t, plain, []byte(testFASTA))
	g, err := genome.LoadFASTA(ctx, plain, genome.LoadOpts{Spacer: 3})
	assert.NoError(t, err)
	expect.EQ(t, g.NumChromosomes(), 3)
	expect.EQ(t, string(g.Chr(0).BiolSeq()), "ACGTNNNNACGT")
	expect.EQ(t, g.Chr(0).Spacer(), 3)
	expect.EQ(t, g.Chr(2).Name(), "chr3")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(testFASTA))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	compressed := filepath.Join(tempDir, "ref.fa.gz")
	writeFile(t, compressed, buf.Bytes())
	g, err = genome.LoadFASTA(ctx, compressed, genome.LoadOpts{Chromosomes: []string{"chr2"}})
	assert.NoError(t, err)
	expect.EQ(t, g.NumChromosomes(), 1)
	expect.EQ(t, string(g.Chr(0).BiolSeq()), "GGGG")

	_, err = genome.LoadFASTA(ctx, plain, genome.LoadOpts{Chromosomes: []string{"chr9"}})
	expect.Regexp(t, err, "sequence not found")
	_, err = genome.LoadFASTA(ctx, filepath.Join(tempDir, "missing.fa"), genome.DefaultLoadOpts)
	expect.NotNil(t, err)
}

func TestLoadIndexed(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	path := filepath.Join(tempDir, "ref.fa")
	writeFile(t, path, []byte(testFASTA))
	var idx bytes.Buffer
	assert.NoError(t, fasta.GenerateIndex(&idx, bytes.NewReader([]byte(testFASTA))))
	writeFile(t, path+".fai", idx.Bytes())

	g, err := genome.LoadFASTA(ctx, path, genome.LoadOpts{Spacer: 2, Chromosomes: []string{"chr3", "chr1"}})
	assert.NoError(t, err)
	expect.EQ(t, g.NumChromosomes(), 2)
	expect.EQ(t, g.Chr(0).Name(), "chr3")
	expect.EQ(t, string(g.Chr(1).BiolSeq()), "ACGTNNNNACGT")

	_, err = genome.LoadFASTA(ctx, path, genome.LoadOpts{Chromosomes: []string{"chr9"}})
	expect.Regexp(t, err, "not found")
}
