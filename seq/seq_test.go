// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seq_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/pindel/seq"
	"github.com/grailbio/testutil/expect"
)

func reverseComplementSlow(s string) string {
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'a': 'T', 'c': 'G', 'g': 'C', 't': 'A'}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := comp[s[len(s)-1-i]]
		if !ok {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}

func TestReverseComplement(t *testing.T) {
	expect.EQ(t, seq.ReverseComplement(""), "")
	expect.EQ(t, seq.ReverseComplement("A"), "T")
	expect.EQ(t, seq.ReverseComplement("ACGTN"), "NACGT")
	expect.EQ(t, seq.ReverseComplement("aacgx"), "NCGTT")

	alphabet := []byte("ACGTNacgtn0")
	for iter := 0; iter < 200; iter++ {
		buf := make([]byte, rand.Intn(300))
		for i := range buf {
			buf[i] = alphabet[rand.Intn(len(alphabet))]
		}
		want := reverseComplementSlow(string(buf))
		expect.EQ(t, seq.ReverseComplement(string(buf)), want)
		seq.ReverseComp8Inplace(buf)
		expect.EQ(t, string(buf), want)
	}
}

func TestComplementAndReverse(t *testing.T) {
	expect.EQ(t, seq.Complement('A'), byte('T'))
	expect.EQ(t, seq.Complement('g'), byte('C'))
	expect.EQ(t, seq.Complement('-'), byte('N'))
	expect.EQ(t, seq.Reverse("ACGGT"), "TGGCA")
}

func TestClean(t *testing.T) {
	buf := []byte("acgtRYNn*T")
	seq.CleanASCIISeqInplace(buf)
	expect.EQ(t, string(buf), "ACGTNNNNNT")
	expect.EQ(t, seq.CleanString("ggMa"), "GGNA")
}
