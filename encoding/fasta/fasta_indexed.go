// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bytes"
	"io"
	"sync"

	"github.com/grailbio/pindel/seq"
	"github.com/pkg/errors"
)

// Indexed performs random lookups into a FASTA file using its .fai index,
// without reading the whole file into memory.  It is safe for concurrent
// use.
type Indexed struct {
	opts    opts
	entries []IndexEntry
	byName  map[string]int

	mu     sync.Mutex
	reader io.ReadSeeker
	buf    []byte
}

// NewIndexed creates an Indexed reader.  fasta may be nil when only the
// sequence names and lengths are needed.
func NewIndexed(fasta io.ReadSeeker, index io.Reader, userOpts ...Opt) (*Indexed, error) {
	entries, err := ReadIndex(index)
	if err != nil {
		return nil, err
	}
	f := &Indexed{
		opts:    makeOpts(userOpts),
		entries: entries,
		byName:  make(map[string]int, len(entries)),
		reader:  fasta,
	}
	for i, e := range entries {
		if _, ok := f.byName[e.Name]; ok {
			return nil, errors.Errorf("duplicate sequence in index: %s", e.Name)
		}
		f.byName[e.Name] = i
	}
	return f, nil
}

// SeqNames returns the sequence names in file order.
func (f *Indexed) SeqNames() []string {
	names := make([]string, len(f.entries))
	for i, e := range f.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the length of the named sequence.
func (f *Indexed) Len(seqName string) (int64, error) {
	i, ok := f.byName[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found in index: %s", seqName)
	}
	return f.entries[i].Length, nil
}

// Get returns the bases of seqName in [start, end).
func (f *Indexed) Get(seqName string, start, end int64) ([]byte, error) {
	i, ok := f.byName[seqName]
	if !ok {
		return nil, errors.Errorf("sequence not found in index: %s", seqName)
	}
	ent := f.entries[i]
	if start < 0 || end < start || end > ent.Length {
		return nil, errors.Errorf("invalid range [%d, %d) for %s of length %d", start, end, seqName, ent.Length)
	}
	if f.reader == nil {
		return nil, errors.Errorf("no FASTA data for %s", seqName)
	}
	result := make([]byte, 0, end-start)
	if start == end {
		return result, nil
	}
	first, last := ent.fileOffset(start), ent.fileOffset(end-1)+1

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.reader.Seek(first, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seek to %s:%d", seqName, start)
	}
	if n := int(last - first); cap(f.buf) < n {
		f.buf = make([]byte, n)
	} else {
		f.buf = f.buf[:n]
	}
	if _, err := io.ReadFull(f.reader, f.buf); err != nil {
		return nil, errors.Wrapf(err, "read %s:%d-%d", seqName, start, end)
	}
	for _, line := range bytes.Split(f.buf, []byte{'\n'}) {
		result = append(result, bytes.TrimRight(line, "\r")...)
	}
	if int64(len(result)) != end-start {
		return nil, errors.Errorf("FASTA data for %s does not match its index", seqName)
	}
	if f.opts.Enc == CleanASCII {
		seq.CleanASCIISeqInplace(result)
	}
	return result, nil
}

// FaiToReferenceLengths reads in a fasta fai file and returns a map of
// reference name to reference length. This doesn't require reading in the fasta
// itself.
func FaiToReferenceLengths(index io.Reader) (map[string]int64, error) {
	entries, err := ReadIndex(index)
	if err != nil {
		return nil, err
	}
	lengths := make(map[string]int64, len(entries))
	for _, e := range entries {
		lengths[e.Name] = e.Length
	}
	return lengths, nil
}
