// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package breakdancer

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/pindel/genome"
	"github.com/klauspost/compress/gzip"
)

// Read parses BreakDancer output.  Each non-comment line has at least the
// columns
//
//	Chr1 Pos1 Orientation1 Chr2 Pos2 Orientation2 Type Size
//
// with 1-based positions.  Lines starting with '#' are comments.
// Inter-chromosomal events and events on chromosomes absent from g are
// skipped.
func Read(r io.Reader, g *genome.Genome) ([]Event, error) {
	var (
		events  []Event
		scanner = bufio.NewScanner(r)
		lineno  int
		skipped int
	)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) < 8 {
			return nil, errors.E("breakdancer: too few columns", lineno, line)
		}
		pos1, err := strconv.Atoi(cols[1])
		if err != nil {
			return nil, errors.E(err, "breakdancer: bad position", lineno)
		}
		pos2, err := strconv.Atoi(cols[4])
		if err != nil {
			return nil, errors.E(err, "breakdancer: bad position", lineno)
		}
		size, err := strconv.Atoi(cols[7])
		if err != nil {
			return nil, errors.E(err, "breakdancer: bad size", lineno)
		}
		if size < 0 {
			size = -size
		}
		if cols[0] != cols[3] {
			skipped++
			continue
		}
		first := NewCoordinate(g, cols[0], pos1-1)
		if !first.Valid() {
			log.Debug.Printf("breakdancer: line %d: unknown chromosome %s", lineno, cols[0])
			skipped++
			continue
		}
		second := NewCoordinate(g, cols[3], pos2-1)
		if second.Less(first) {
			first, second = second, first
		}
		events = append(events, Event{
			First:  first,
			Second: second,
			Type:   cols[6],
			Size:   size,
			ID:     len(events) + 1,
			Count:  1,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "breakdancer: read")
	}
	log.Printf("breakdancer: read %d events, skipped %d", len(events), skipped)
	return events, nil
}

// ReadFile is a wrapper for Read that takes a (possibly gzipped) path.
func ReadFile(ctx context.Context, path string, g *genome.Genome) (events []Event, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "breakdancer: open", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, "breakdancer: open", path)
		}
	}
	return Read(reader, g)
}
