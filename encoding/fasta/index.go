// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// IndexEntry is one line of a .fai file.
type IndexEntry struct {
	Name string
	// Length is the number of bases in the sequence.
	Length int64
	// Offset is the byte offset of the first base.
	Offset int64
	// LineBases is the number of bases per line.
	LineBases int64
	// LineWidth is the number of bytes per line, including the terminator.
	LineWidth int64
}

// fileOffset returns the byte offset of base pos.
func (e IndexEntry) fileOffset(pos int64) int64 {
	return e.Offset + (pos/e.LineBases)*e.LineWidth + pos%e.LineBases
}

// ReadIndex parses a .fai index.  Entries are returned in file order.
func ReadIndex(in io.Reader) ([]IndexEntry, error) {
	var entries []IndexEntry
	sc := bufio.NewScanner(in)
	for lineno := 1; sc.Scan(); lineno++ {
		line := sc.Text()
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 5 {
			return nil, errors.E("invalid index line", lineno, line)
		}
		ent := IndexEntry{Name: cols[0]}
		for i, dst := range []*int64{&ent.Length, &ent.Offset, &ent.LineBases, &ent.LineWidth} {
			v, err := strconv.ParseInt(cols[i+1], 10, 64)
			if err != nil {
				return nil, errors.E(err, "invalid index line", lineno, line)
			}
			*dst = v
		}
		if ent.Length > 0 && (ent.LineBases <= 0 || ent.LineWidth < ent.LineBases) {
			return nil, errors.E("invalid line geometry in index", lineno, line)
		}
		entries = append(entries, ent)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E(err, "read fasta index")
	}
	return entries, nil
}

// GenerateIndex generates an index (*.fai) from FASTA.  The index can be later
// passed to NewIndexed() to random-access the FASTA file quickly.
//
// The index format is defined by "samtool faidx"
// (http://www.htslib.org/doc/faidx.html).
func GenerateIndex(out io.Writer, in io.Reader) (err error) {
	var (
		w       = tsv.NewWriter(out)
		r       = bufio.NewReaderSize(in, readerBufSize)
		cur     IndexEntry
		started bool
		byteOff int64
		eof     bool
	)
	setErr := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	emit := func() {
		w.WriteString(cur.Name)
		w.WriteInt64(cur.Length)
		w.WriteInt64(cur.Offset)
		w.WriteInt64(cur.LineBases)
		w.WriteInt64(cur.LineWidth)
		setErr(w.EndLine())
	}
	for !eof && err == nil {
		raw, e := r.ReadBytes('\n')
		if e == io.EOF {
			eof = true
		} else if e != nil {
			setErr(e)
		}
		byteOff += int64(len(raw))
		line := bytes.TrimRight(raw, "\r\n")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if started {
				emit()
			}
			fields := bytes.Fields(line[1:])
			if len(fields) == 0 {
				setErr(errors.E("malformed FASTA file: empty sequence name"))
				break
			}
			cur = IndexEntry{Name: string(fields[0]), Offset: byteOff}
			started = true
			continue
		}
		if !started {
			setErr(errors.E("malformed FASTA file: sequence data before the first header"))
			break
		}
		if cur.LineWidth == 0 {
			cur.LineWidth = int64(len(raw))
			cur.LineBases = int64(len(line))
		}
		cur.Length += int64(len(line))
	}
	if started && err == nil {
		emit()
	}
	setErr(w.Flush())
	if byteOff == 0 {
		setErr(errors.E("empty FASTA file"))
	}
	return
}
