// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package readsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/pindel/genome"
	"github.com/grailbio/pindel/seq"
	"github.com/grailbio/pindel/splitread"
)

var (
	// ErrShort is returned when a truncated Pindel read file is encountered.
	ErrShort = errors.New("short Pindel read file")
	// ErrInvalid is returned when an invalid Pindel read file is encountered.
	ErrInvalid = errors.New("invalid Pindel read file")
)

// Record is one read in Pindel text format:
//
//	@name
//	SEQUENCE
//	strand chromosome position mapq insertsize [sample]
//
// The third line describes the mapped mate.  Position is 1-based.
type Record struct {
	Name string
	Seq  string
	// Strand is '+' or '-'.
	Strand     byte
	ChrName    string
	Pos        int
	MapQ       int
	InsertSize int
	Tag        string
}

// SplitRead converts rec to a read anchored on g.  It returns false if the
// mate's chromosome is not in g.
func (rec *Record) SplitRead(g *genome.Genome, opts splitread.Opts) (*splitread.SplitRead, bool) {
	if g.ChrNameToChrIndex(rec.ChrName) == genome.NotFound {
		return nil, false
	}
	r := &splitread.SplitRead{
		Name:          rec.Name,
		FragName:      rec.ChrName,
		MatchedD:      splitread.Forward,
		MatchedRelPos: rec.Pos - 1 + g.Spacer(),
		MS:            rec.MapQ,
		InsertSize:    rec.InsertSize,
		Tag:           rec.Tag,
	}
	if rec.Strand == '-' {
		r.MatchedD = splitread.Backward
	}
	r.SetUnmatchedSeq(seq.CleanString(rec.Seq), opts)
	return r, true
}

// NewRecord converts a read back to Pindel text format.  spacer is the
// padding of the genome the read is anchored on.
func NewRecord(r *splitread.SplitRead, spacer int) Record {
	rec := Record{
		Name:       r.Name,
		Seq:        r.UnmatchedSeq(),
		Strand:     '+',
		ChrName:    r.FragName,
		Pos:        r.MatchedRelPos - spacer + 1,
		MapQ:       r.MS,
		InsertSize: r.InsertSize,
		Tag:        r.Tag,
	}
	if r.MatchedD == splitread.Backward {
		rec.Strand = '-'
	}
	return rec
}

var errEOF = errors.New("eof")

// Scanner reads Pindel text records.  Scanners are not threadsafe.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner constructs a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 64<<10), 16<<20)
	return &Scanner{b: b}
}

// Scan reads the next record into rec.  Once Scan returns false, it never
// returns true again; Err tells whether the end of the stream was reached.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	// Blank lines between records are tolerated.
	for {
		if !s.b.Scan() {
			if s.err = s.b.Err(); s.err == nil {
				s.err = errEOF
			}
			return false
		}
		if len(s.b.Bytes()) > 0 {
			break
		}
	}
	name := s.b.Bytes()
	if name[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	rec.Name = string(name[1:])
	if !s.scan() {
		return false
	}
	rec.Seq = s.b.Text()
	if !s.scan() {
		return false
	}
	if s.err = parseMate(s.b.Text(), rec); s.err != nil {
		return false
	}
	return true
}

func parseMate(line string, rec *Record) error {
	fields := strings.Fields(line)
	if len(fields) < 5 || len(fields) > 6 {
		return fmt.Errorf("%v: %d fields in %q", ErrInvalid, len(fields), line)
	}
	if fields[0] != "+" && fields[0] != "-" {
		return fmt.Errorf("%v: bad strand in %q", ErrInvalid, line)
	}
	rec.Strand = fields[0][0]
	rec.ChrName = fields[1]
	var err error
	for i, dst := range []*int{&rec.Pos, &rec.MapQ, &rec.InsertSize} {
		if *dst, err = strconv.Atoi(fields[i+2]); err != nil {
			return fmt.Errorf("%v: bad number in %q", ErrInvalid, line)
		}
	}
	rec.Tag = ""
	if len(fields) == 6 {
		rec.Tag = fields[5]
	}
	return nil
}

func (s *Scanner) scan() bool {
	ok := s.b.Scan()
	if !ok {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// Writer writes Pindel text records.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter constructs a Writer writing to w.  Flush must be called once
// all records are written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes rec.
func (w *Writer) Write(rec *Record) error {
	if w.err != nil {
		return w.err
	}
	if rec.Tag == "" {
		_, w.err = fmt.Fprintf(w.w, "@%s\n%s\n%c\t%s\t%d\t%d\t%d\n",
			rec.Name, rec.Seq, rec.Strand, rec.ChrName, rec.Pos, rec.MapQ, rec.InsertSize)
	} else {
		_, w.err = fmt.Fprintf(w.w, "@%s\n%s\n%c\t%s\t%d\t%d\t%d\t%s\n",
			rec.Name, rec.Seq, rec.Strand, rec.ChrName, rec.Pos, rec.MapQ, rec.InsertSize, rec.Tag)
	}
	return w.err
}

// Flush writes buffered records.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
