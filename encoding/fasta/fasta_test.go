// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta_test

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/pindel/encoding/fasta"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const (
	fastaData  = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + "ACGT\n"
	fastaIndex = "seq1\t12\t6\t5\t6\n" + "seq2\t8\t44\t4\t5\n"
)

type record struct {
	name, seq string
}

func scanAll(t *testing.T, data string, opts ...fasta.Opt) ([]record, error) {
	var recs []record
	sc := fasta.NewScanner(strings.NewReader(data), opts...)
	for sc.Scan() {
		recs = append(recs, record{sc.Name(), string(sc.Seq())})
	}
	return recs, sc.Err()
}

func TestScanner(t *testing.T) {
	recs, err := scanAll(t, fastaData)
	assert.NoError(t, err)
	expect.EQ(t, recs, []record{{"seq1", "ACGTACGTACGT"}, {"seq2", "ACGTACGT"}})

	// Blank lines, CRLF terminators, no final newline.
	recs, err = scanAll(t, "\n>a\r\nAC\r\n\r\nGT\r\n>b\n>c x y\nTTT")
	assert.NoError(t, err)
	expect.EQ(t, recs, []record{{"a", "ACGT"}, {"b", ""}, {"c", "TTT"}})

	recs, err = scanAll(t, ">m\nacgtRYnx\n", fasta.OptEncoding(fasta.CleanASCII))
	assert.NoError(t, err)
	expect.EQ(t, recs, []record{{"m", "ACGTNNNN"}})

	recs, err = scanAll(t, "")
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 0)
}

func TestScannerMalformed(t *testing.T) {
	_, err := scanAll(t, "ACGT\n>a\nAC\n")
	assert.Regexp(t, err, "before the first header")
	_, err = scanAll(t, ">a\nAC\n> \nGT\n")
	assert.Regexp(t, err, "empty sequence name")
}

func TestGet(t *testing.T) {
	tests := []struct {
		seq        string
		start, end int64
		want       string
		err        string
	}{
		{"seq1", 1, 2, "C", ""},
		{"seq1", 1, 6, "CGTAC", ""},
		{"seq1", 0, 12, "ACGTACGTACGT", ""},
		{"seq1", 10, 12, "GT", ""},
		{"seq1", 3, 3, "", ""},
		{"seq2", 0, 8, "ACGTACGT", ""},
		{"seq2", 2, 5, "GTA", ""},
		{"seq0", 0, 1, "", "sequence not found in index: seq0"},
		{"seq1", 10, 13, "", "invalid range"},
		{"seq1", 4, 3, "", "invalid range"},
	}
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	assert.NoError(t, err)
	for _, tt := range tests {
		got, err := indexed.Get(tt.seq, tt.start, tt.end)
		if tt.err != "" {
			expect.Regexp(t, err, tt.err)
			continue
		}
		expect.NoError(t, err)
		expect.EQ(t, string(got), tt.want, "%s:%d-%d", tt.seq, tt.start, tt.end)
	}
}

func TestGetClean(t *testing.T) {
	indexed, err := fasta.NewIndexed(strings.NewReader(">x\nacgT\nrNcc\n"), strings.NewReader("x\t8\t3\t4\t5\n"),
		fasta.OptEncoding(fasta.CleanASCII))
	assert.NoError(t, err)
	got, err := indexed.Get("x", 2, 7)
	assert.NoError(t, err)
	expect.EQ(t, string(got), "GTNNC")
}

func TestLengthAndNames(t *testing.T) {
	indexed, err := fasta.NewIndexed(nil, strings.NewReader(fastaIndex))
	assert.NoError(t, err)
	expect.EQ(t, indexed.SeqNames(), []string{"seq1", "seq2"})
	n, err := indexed.Len("seq2")
	assert.NoError(t, err)
	expect.EQ(t, n, int64(8))
	_, err = indexed.Len("seq0")
	expect.Regexp(t, err, "not found")
	_, err = indexed.Get("seq1", 0, 1)
	expect.Regexp(t, err, "no FASTA data")
}

func TestBadIndex(t *testing.T) {
	_, err := fasta.NewIndexed(nil, strings.NewReader("seq1\t12\t6\t5\n"))
	expect.Regexp(t, err, "invalid index line")
	_, err = fasta.NewIndexed(nil, strings.NewReader("seq1\t12\tsix\t5\t6\n"))
	expect.Regexp(t, err, "invalid index line")
	_, err = fasta.NewIndexed(nil, strings.NewReader("a\t1\t3\t1\t2\na\t1\t7\t1\t2\n"))
	expect.Regexp(t, err, "duplicate sequence")
}

func TestFastaFaiToReferenceLengths(t *testing.T) {
	fai := "chr1\t250000000\t6\t60\t61\n" + "chr2\t199000000\t6\t60\t61\n"
	lengths, err := fasta.FaiToReferenceLengths(strings.NewReader(fai))
	assert.NoError(t, err)
	expect.EQ(t, lengths, map[string]int64{"chr1": 250000000, "chr2": 199000000})
}

func TestGenerateIndex(t *testing.T) {
	generateIndex := func(fa string) (faidx string) {
		idx := bytes.Buffer{}
		assert.NoError(t, fasta.GenerateIndex(&idx, strings.NewReader(fa)))
		return idx.String()
	}

	fa := `>E0
GGTGAAATC
CCTGAAATC
AAAATTGCT
>E1
GTCCCTCCCCAGACATGGCCCTGGGAGGC
>E2
CCGCGCCCGCGCCCCCGCCGCC
>E3
GTCAAGGTTGCACAG
>E4
ATGAATCATGTGGTAAAA
`
	fai := generateIndex(fa)
	assert.EQ(t, fai, `E0	27	4	9	10
E1	29	38	29	30
E2	22	72	22	23
E3	15	99	15	16
E4	18	119	18	19
`)
	indexed, err := fasta.NewIndexed(strings.NewReader(fa), strings.NewReader(fai))
	assert.NoError(t, err)
	l, err := indexed.Len("E3")
	assert.NoError(t, err)
	assert.EQ(t, l, int64(15))
	s, err := indexed.Get("E3", 0, l)
	assert.NoError(t, err)
	assert.EQ(t, string(s), "GTCAAGGTTGCACAG")
	s, err = indexed.Get("E0", 7, 20)
	assert.NoError(t, err)
	assert.EQ(t, string(s), "TCCCTGAAATCAA")

	// CRLF line terminators.
	assert.EQ(t, generateIndex(">E0\r\nGGGG\r\n>E1\r\nAAAAA\r\n"),
		`E0	4	5	4	6
E1	5	16	5	7
`)

	// No newline at the end.
	assert.EQ(t, generateIndex(">E0\nGGGG\n>E1\nCCCCC\nAAAAA"),
		`E0	4	4	4	5
E1	10	13	5	6
`)
	assert.EQ(t, generateIndex(">E0\nGGGG\n>E1\nAAAAA"),
		`E0	4	4	4	5
E1	5	13	5	5
`)

	idx := bytes.Buffer{}
	assert.Regexp(t, fasta.GenerateIndex(&idx, strings.NewReader("")), "empty FASTA")
	idx.Reset()
	assert.Regexp(t, fasta.GenerateIndex(&idx, strings.NewReader("ACGT\n")), "before the first header")
}

var pathFlag = flag.String("path", "", "FASTA file used by benchmarks")

func BenchmarkScan(b *testing.B) {
	if *pathFlag == "" {
		b.Skip("--path not set")
	}
	for i := 0; i < b.N; i++ {
		ctx := vcontext.Background()
		in, err := file.Open(ctx, *pathFlag)
		assert.NoError(b, err)
		sc := fasta.NewScanner(in.Reader(ctx), fasta.OptEncoding(fasta.CleanASCII))
		for sc.Scan() {
		}
		assert.NoError(b, sc.Err())
		assert.NoError(b, in.Close(ctx))
	}
}
