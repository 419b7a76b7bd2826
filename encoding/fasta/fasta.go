// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fasta contains code for parsing (optionally indexed) FASTA files.
// See http://www.htslib.org/doc/faidx.html.  Briefly, FASTA files consist of a
// number of named sequences that may be interrupted by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
//
// Reference genomes are large, so the package never materializes a whole file
// at once: Scanner streams one sequence at a time, and Indexed reads single
// sequences (or parts of them) through a .fai index.
package fasta

import (
	"bufio"
	"bytes"
	"io"

	"github.com/grailbio/pindel/seq"
	"github.com/pkg/errors"
)

const (
	readerBufSize = 1024 * 1024
)

// Encoding selects how sequence bytes are returned.
type Encoding int

const (
	// Raw returns the bytes as they appear in the file, minus line
	// terminators.
	Raw Encoding = iota
	// CleanASCII capitalizes a/c/g/t and replaces every other byte with 'N'.
	CleanASCII
)

type opts struct {
	Enc Encoding
}

// Opt is an optional argument to NewScanner and NewIndexed.
type Opt func(*opts)

// OptEncoding sets the sequence encoding.  The default is Raw.
func OptEncoding(enc Encoding) Opt {
	return func(o *opts) { o.Enc = enc }
}

func makeOpts(userOpts []Opt) opts {
	parsed := opts{Enc: Raw}
	for _, o := range userOpts {
		o(&parsed)
	}
	return parsed
}

// Scanner reads the sequences of a FASTA file one at a time, in file order.
//
//	sc := fasta.NewScanner(r)
//	for sc.Scan() {
//	  name, s := sc.Name(), sc.Seq()
//	  ...
//	}
//	if err := sc.Err(); err != nil { ... }
type Scanner struct {
	r        *bufio.Reader
	opts     opts
	name     string
	nextName string
	seq      []byte
	eof      bool
	err      error
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader, userOpts ...Opt) *Scanner {
	return &Scanner{
		r:    bufio.NewReaderSize(r, readerBufSize),
		opts: makeOpts(userOpts),
	}
}

// readLine returns the next line stripped of its terminator.  It sets s.eof
// after consuming the final line.
func (s *Scanner) readLine() []byte {
	line, err := s.r.ReadBytes('\n')
	if err == io.EOF {
		s.eof = true
	} else if err != nil {
		s.err = errors.Wrap(err, "couldn't read FASTA data")
		return nil
	}
	return bytes.TrimRight(line, "\r\n")
}

// header extracts the sequence name from a '>' line.  An empty name is an
// error.
func (s *Scanner) header(line []byte) (string, bool) {
	fields := bytes.Fields(line[1:])
	if len(fields) == 0 {
		s.err = errors.Errorf("malformed FASTA file: empty sequence name")
		return "", false
	}
	return string(fields[0]), true
}

// Scan advances to the next sequence.  It returns false at the end of the
// input or on error; call Err to distinguish the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if s.name = s.nextName; s.name == "" {
		// Looking for the first header.
		for !s.eof {
			line := s.readLine()
			if s.err != nil {
				return false
			}
			if len(line) == 0 {
				continue
			}
			if line[0] != '>' {
				s.err = errors.Errorf("malformed FASTA file: sequence data before the first header")
				return false
			}
			var ok bool
			if s.name, ok = s.header(line); !ok {
				return false
			}
			break
		}
		if s.name == "" {
			return false
		}
	}
	s.nextName = ""
	s.seq = s.seq[:0]
	for !s.eof {
		line := s.readLine()
		if s.err != nil {
			return false
		}
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			var ok bool
			if s.nextName, ok = s.header(line); !ok {
				return false
			}
			break
		}
		s.seq = append(s.seq, line...)
	}
	if s.opts.Enc == CleanASCII {
		seq.CleanASCIISeqInplace(s.seq)
	}
	return true
}

// Name returns the name of the current sequence.
func (s *Scanner) Name() string { return s.name }

// Seq returns the current sequence.  The slice is only valid until the next
// call to Scan.
func (s *Scanner) Seq() []byte { return s.seq }

// Err returns the first error encountered, or nil.
func (s *Scanner) Err() error { return s.err }
