// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const testBED = `# comment
track name=test
chr1	2489165	2489273
chr1	2488104	2488172
chr1	2489200	2489907
chr2	100	200
chr2	200	300
chr3	50	50
`

func TestLoadBEDIntervals(t *testing.T) {
	u, err := NewBEDUnion(strings.NewReader(testBED), NewBEDOpts{})
	assert.NoError(t, err)
	expect.EQ(t, u.nameMap, map[string][]int{
		"chr1": {2488104, 2488172, 2489165, 2489907},
		"chr2": {100, 300},
	})
	expect.EQ(t, u.NumBases(), 68+742+200)
	expect.EQ(t, u.Entries("chr2"), []Entry{{"chr2", 100, 300}})
	expect.EQ(t, len(u.Entries("chr3")), 0)

	u, err = NewBEDUnion(strings.NewReader("chr1\t1\t10\n"), NewBEDOpts{OneBasedInput: true})
	assert.NoError(t, err)
	expect.EQ(t, u.nameMap["chr1"], []int{0, 10})

	_, err = NewBEDUnion(strings.NewReader("chr1\t10\n"), NewBEDOpts{})
	expect.Regexp(t, err, "fewer tokens")
	_, err = NewBEDUnion(strings.NewReader("chr1\t10\t5\n"), NewBEDOpts{})
	expect.Regexp(t, err, "invalid coordinate pair")
}

func TestContains(t *testing.T) {
	u, err := NewBEDUnion(strings.NewReader(testBED), NewBEDOpts{})
	assert.NoError(t, err)
	for _, tt := range []struct {
		chr  string
		pos  int
		want bool
	}{
		{"chr1", 2488103, false},
		{"chr1", 2488104, true},
		{"chr1", 2488171, true},
		{"chr1", 2488172, false},
		{"chr1", 2489906, true},
		{"chr2", 299, true},
		{"chr2", 300, false},
		{"chr3", 50, false},
		{"chrX", 1, false},
	} {
		expect.EQ(t, u.ContainsByName(tt.chr, tt.pos), tt.want, "%s:%d", tt.chr, tt.pos)
	}
	expect.True(t, u.IntersectsByName("chr2", 0, 101))
	expect.False(t, u.IntersectsByName("chr2", 0, 100))
	expect.True(t, u.IntersectsByName("chr2", 250, 260))
	expect.False(t, u.IntersectsByName("chr2", 300, 400))
	expect.False(t, u.IntersectsByName("chrX", 0, 400))
}

func TestLoadFromPath(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(testBED))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	path := filepath.Join(tempDir, "test.bed.gz")
	assert.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0600))

	u, err := NewBEDUnionFromPath(vcontext.Background(), path, NewBEDOpts{})
	assert.NoError(t, err)
	expect.True(t, u.ContainsByName("chr2", 150))
}

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		region  string
		chrName string
		start0  int
		end     int
		bounded bool
	}{
		{"chr1:1-1000", "chr1", 0, 1000, true},
		{"chr1:1,001-2,000", "chr1", 1000, 2000, true},
		{"chr1:1000", "chr1", 999, 1000, true},
		{"chr1", "chr1", 0, 0, false},
		{"HLA-A*01:01:01:01:5-6", "HLA-A*01:01:01:01", 4, 6, true},
	}
	for _, tt := range tests {
		result, err := ParseRegionString(tt.region)
		expect.NoError(t, err)
		expect.EQ(t, result.ChrName, tt.chrName)
		expect.EQ(t, result.Start0, tt.start0)
		expect.EQ(t, result.End, tt.end)
		expect.EQ(t, result.Bounded, tt.bounded)
	}
	for _, bad := range []string{"", ":1-2", "chr1:0-5", "chr1:9-5", "chr1:x"} {
		_, err := ParseRegionString(bad)
		expect.NotNil(t, err, bad)
	}
}
