// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// NewBEDOpts defines behavior of this package's BED-loading function(s).
type NewBEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// BEDUnion is a collection of length-2N sequences, one per chromosome, where
// N is the number of intervals, the (0-based) start position of interval #k
// is in element [2k] and the end position is in element [2k+1], and the
// intervals are disjoint and stored in increasing order.  A position is
// covered iff the number of endpoints <= pos is odd.
type BEDUnion struct {
	nameMap map[string][]int
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  int
	End     int
}

// ContainsByName checks whether the (0-based) interval [pos, pos+1) is
// contained within the BEDUnion.
func (u *BEDUnion) ContainsByName(chrName string, pos int) bool {
	endpoints := u.nameMap[chrName]
	if endpoints == nil {
		return false
	}
	return sort.SearchInts(endpoints, pos+1)&1 == 1
}

// IntersectsByName checks whether [start, limit) on the named chromosome
// overlaps the union.
func (u *BEDUnion) IntersectsByName(chrName string, start, limit int) bool {
	endpoints := u.nameMap[chrName]
	if endpoints == nil || limit <= start {
		return false
	}
	idx := sort.SearchInts(endpoints, start+1)
	if idx&1 == 1 {
		return true
	}
	return idx != len(endpoints) && limit > endpoints[idx]
}

// Entries returns the merged intervals of one chromosome.
func (u *BEDUnion) Entries(chrName string) []Entry {
	endpoints := u.nameMap[chrName]
	entries := make([]Entry, 0, len(endpoints)/2)
	for i := 0; i+1 < len(endpoints); i += 2 {
		entries = append(entries, Entry{ChrName: chrName, Start0: endpoints[i], End: endpoints[i+1]})
	}
	return entries
}

// NumBases returns the number of positions covered.
func (u *BEDUnion) NumBases() int {
	var n int
	for _, endpoints := range u.nameMap {
		for i := 0; i+1 < len(endpoints); i += 2 {
			n += endpoints[i+1] - endpoints[i]
		}
	}
	return n
}

// NewBEDUnionFromEntries builds a BEDUnion from intervals in any order,
// merging touching/overlapping intervals and eliminating empty ones.
func NewBEDUnionFromEntries(entries []Entry) (bedUnion BEDUnion, err error) {
	byChr := map[string][]Entry{}
	for _, e := range entries {
		if e.Start0 < 0 {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: negative start coordinate %d", e.Start0)
			return
		}
		if e.End < e.Start0 {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: invalid coordinate pair [%d, %d)", e.Start0, e.End)
			return
		}
		if e.End == e.Start0 {
			continue
		}
		byChr[e.ChrName] = append(byChr[e.ChrName], e)
	}
	bedUnion.nameMap = make(map[string][]int, len(byChr))
	for chr, chrEntries := range byChr {
		sort.Slice(chrEntries, func(i, j int) bool { return chrEntries[i].Start0 < chrEntries[j].Start0 })
		var endpoints []int
		for _, e := range chrEntries {
			if n := len(endpoints); n > 0 && e.Start0 <= endpoints[n-1] {
				if e.End > endpoints[n-1] {
					endpoints[n-1] = e.End
				}
				continue
			}
			endpoints = append(endpoints, e.Start0, e.End)
		}
		bedUnion.nameMap[chr] = endpoints
	}
	return
}

func scanBEDUnion(scanner *bufio.Scanner, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	var (
		tokens  [3][]byte
		entries []Entry
		lineIdx int
	)
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || tokens[0][0] == '#' {
			continue
		}
		if nToken != 3 {
			err = fmt.Errorf("interval.scanBEDUnion: line %d has fewer tokens than expected", lineIdx)
			return
		}
		if s := gunsafe.BytesToString(tokens[0]); s == "track" || s == "browser" {
			continue
		}
		var start, end int
		if start, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		start -= startSubtract
		if start < 0 {
			err = fmt.Errorf("interval.scanBEDUnion: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}
		if end, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if end < start {
			err = fmt.Errorf("interval.scanBEDUnion: invalid coordinate pair on line %d", lineIdx)
			return
		}
		// Copy the name: tokens[0] aliases the scanner's buffer.
		entries = append(entries, Entry{ChrName: string(tokens[0]), Start0: start, End: end})
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if bedUnion, err = NewBEDUnionFromEntries(entries); err != nil {
		return
	}
	log.Printf("BED loaded, %d base(s) covered.", bedUnion.NumBases())
	return
}

// NewBEDUnion loads the intervals from an interval-BED, merging
// touching/overlapping intervals and eliminating empty ones in the process.
// Comment, "track" and "browser" lines are skipped.
func NewBEDUnion(reader io.Reader, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	return scanBEDUnion(bufio.NewScanner(reader), opts)
}

// NewBEDUnionFromPath is a wrapper for NewBEDUnion that takes a (possibly
// gzipped) path instead of an io.Reader.
func NewBEDUnionFromPath(ctx context.Context, path string, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return NewBEDUnion(reader, opts)
}
