// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"sort"

	"github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/pindel/breakdancer"
	"github.com/grailbio/pindel/splitread"
	"github.com/grailbio/pindel/window"
)

// ReadFeed supplies reads by anchor position.  Implementations must be safe
// for concurrent use: every region worker pulls its reads independently.
type ReadFeed interface {
	// ReadsIn returns the reads whose mate is mapped to chrName at a Pindel
	// coordinate in [start, end].  Every read must have had SetUnmatchedSeq
	// called.  Each read is returned by at most one call.
	ReadsIn(chrName string, start, end int) []*splitread.SplitRead
}

// Excluder tells whether a biological position should be skipped.
type Excluder interface {
	ContainsByName(chrName string, pos int) bool
}

// chrSearch is the per-region worker state.
type chrSearch struct {
	engine   *Engine
	in       *Input
	chrIndex int
	stats    Stats
	// seen holds the fingerprints of the reads investigated so far in the
	// region.
	seen map[uint64]bool
	// events accumulates the region's events.  Reads of one event may be
	// investigated in different cycles, so events are reported only once the
	// region is done.
	events map[eventKey]*Event
}

func newChrSearch(engine *Engine, in *Input, chrIndex int) *chrSearch {
	return &chrSearch{
		engine:   engine,
		in:       in,
		chrIndex: chrIndex,
		seen:     map[uint64]bool{},
		events:   map[eventKey]*Event{},
	}
}

type eventKey struct {
	typ         EventType
	left, right int
	inserted    string
}

// readFingerprint identifies reads with the same sequence and anchor.
func readFingerprint(read *splitread.SplitRead) uint64 {
	seed := uint64(read.MatchedRelPos) << 1
	if read.MatchedD == splitread.Backward {
		seed |= 1
	}
	return farm.Hash64WithSeed(gunsafe.StringToBytes(read.UnmatchedSeq()), seed)
}

// cycle processes the reads deferred by the previous cycle plus the reads
// anchored in the looper's official range, and returns the reads deferred to
// the next one.
func (s *chrSearch) cycle(l *window.Looper, deferred []*splitread.SplitRead) []*splitread.SplitRead {
	official := l.Official().PindelCoordinates()
	fresh := s.in.Feed.ReadsIn(s.engine.chr.Name(), official.Start(), official.End())
	s.stats.Cycles++
	s.stats.Reads += len(fresh)
	reads := make([]*splitread.SplitRead, 0, len(deferred)+len(fresh))
	reads = append(reads, deferred...)
	reads = append(reads, fresh...)
	future := s.process(reads, l.Window(), true)
	log.Debug.Printf("%v: %d reads (%d deferred in), %d deferred out", l, len(reads), len(deferred), len(future))
	return future
}

// searchWindow widens the biological window win so that it holds the
// sequence the search for read may look at before its anchor.  With
// extendEnd, the sequence after the anchor is covered too.
func (s *chrSearch) searchWindow(read *splitread.SplitRead, win window.Window, extendEnd bool) window.Window {
	reach := s.engine.opts.MaxReach(read)
	anchor := read.MatchedRelPos - s.engine.chr.Spacer()
	if start := anchor - reach; start < win.Start() {
		if start < 0 {
			start = 0
		}
		win.SetStart(start)
	}
	if extendEnd {
		end := anchor + reach
		if last := s.engine.chr.BiolSize() - 1; end > last {
			end = last
		}
		if end > win.End() {
			win.SetEnd(end)
		}
	}
	return win
}

// process investigates reads against win and adds the events they support
// to the region's events.  With allowDefer, reads needing sequence beyond win
// are returned untouched instead; without it, win is extended as far as each
// read needs.
func (s *chrSearch) process(reads []*splitread.SplitRead, win window.Window, allowDefer bool) []*splitread.SplitRead {
	var (
		future   []*splitread.SplitRead
		chrName  = s.engine.chr.Name()
		spacer   = s.engine.chr.Spacer()
		excluder = s.in.Exclude
	)
	for _, read := range reads {
		if allowDefer && s.engine.Transgresses(read, win) {
			future = SaveReadForNextCycle(read, future)
			s.stats.Deferred++
			continue
		}
		if excluder != nil && excluder.ContainsByName(chrName, read.MatchedRelPos-spacer) {
			s.stats.Excluded++
			continue
		}
		fp := readFingerprint(read)
		read.UniqueRead = !s.seen[fp]
		if !read.UniqueRead {
			s.stats.Duplicates++
		}
		s.seen[fp] = true

		typ, outcome := s.engine.Investigate(read, s.searchWindow(read, win, !allowDefer))
		switch outcome {
		case Empty:
			s.stats.Empty++
		case NoCloseEnd:
			s.stats.NoCloseEnd++
		case Contiguous:
			s.stats.Contiguous++
		case NoFarEnd:
			s.stats.NoFarEnd++
		case Ambiguous:
			s.stats.Ambiguous++
		case Unresolved:
			s.stats.Unresolved++
		case Resolved:
			s.stats.Resolved[typ]++
			s.addRead(typ, read)
		}
	}
	return future
}

func (s *chrSearch) addRead(typ EventType, read *splitread.SplitRead) {
	k := eventKey{typ, read.BPLeft, read.BPRight, read.InsertedStr}
	ev := s.events[k]
	if ev == nil {
		spacer := s.engine.chr.Spacer()
		ev = &Event{
			Type:               typ,
			ChrName:            s.engine.chr.Name(),
			BPLeft:             read.BPLeft - spacer + 1,
			BPRight:            read.BPRight - spacer + 1,
			Size:               read.IndelSize,
			NTStr:              read.NTStr,
			ReadCountPerSample: map[string]int{},
		}
		s.events[k] = ev
	}
	ev.Support++
	if read.UniqueRead {
		ev.UniqueSupport++
	}
	if read.MatchedD == splitread.Forward {
		ev.PlusSupport++
	} else {
		ev.MinusSupport++
	}
	ev.ReadCountPerSample[read.Tag]++
	read.CountSample()
	ev.Reads = append(ev.Reads, read)
}

// report sends the region's events with enough support to the reporter, in
// position order, together with the BreakDancer events they confirm.
func (s *chrSearch) report() error {
	sorted := make([]*Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.UniqueSupport >= s.engine.opts.MinSupport {
			sorted = append(sorted, ev)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.BPLeft != b.BPLeft {
			return a.BPLeft < b.BPLeft
		}
		if a.BPRight != b.BPRight {
			return a.BPRight < b.BPRight
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.NTStr < b.NTStr
	})
	for _, ev := range sorted {
		for _, read := range ev.Reads {
			read.Used = true
		}
		s.stats.Events[ev.Type]++
		if err := s.in.Reporter.ReportEvent(*ev); err != nil {
			return errors.E(err, "report event", ev.ChrName, ev.BPLeft)
		}
		for _, bd := range s.confirmed(ev) {
			s.stats.BreakDancerConfirmed++
			if err := s.in.Reporter.ReportBreakDancerEvent(ev.ChrName, ev.BPLeft, ev.BPRight, ev.Size, ev.Type.String(), bd.ID); err != nil {
				return errors.E(err, "report breakdancer event", bd.ID)
			}
		}
	}
	return nil
}

// confirmed returns the imported events whose windows hold both breakpoints
// of ev.
func (s *chrSearch) confirmed(ev *Event) []*breakdancer.Event {
	if s.in.BreakDancer == nil {
		return nil
	}
	return s.in.BreakDancer.Confirming(s.chrIndex, ev.BPLeft-1, ev.BPRight-1)
}
