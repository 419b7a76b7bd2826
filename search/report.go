// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package search

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/pindel/splitread"
)

// Event is a structural variant supported by one or more reads.
type Event struct {
	Type    EventType
	ChrName string
	// BPLeft is the 1-based position of the last reference base before the
	// event; BPRight the first one after it.
	BPLeft  int
	BPRight int
	// Size is the number of affected reference bases, or of inserted bases
	// for a short insertion.
	Size int
	// NTStr holds the read bases between the two ends of the first
	// supporting read.
	NTStr string
	// Support counts all supporting reads; UniqueSupport excludes duplicates.
	Support       int
	UniqueSupport int
	// PlusSupport and MinusSupport split Support by the strand of the mate.
	PlusSupport        int
	MinusSupport       int
	ReadCountPerSample map[string]int
	Reads              []*splitread.SplitRead
}

// Samples renders ReadCountPerSample as "name:count" pairs sorted by name.
func (e *Event) Samples() string {
	names := make([]string, 0, len(e.ReadCountPerSample))
	for name := range e.ReadCountPerSample {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + strconv.Itoa(e.ReadCountPerSample[name])
	}
	return strings.Join(parts, ",")
}

// Reporter receives the results of a search.  Implementations must be safe
// for concurrent use: every chromosome worker reports independently.
type Reporter interface {
	// ReportEvent is called once per event that passes the support
	// threshold.
	ReportEvent(ev Event) error
	// ReportBreakDancerEvent is called when an event confirms an imported
	// BreakDancer event.  Positions are 1-based.
	ReportBreakDancerEvent(chrName string, left, right, svSize int, svType string, svCounter int) error
}

// TSVReporter writes events and BreakDancer confirmations as TSV.
type TSVReporter struct {
	mu     sync.Mutex
	events *tsv.Writer
	bd     *tsv.Writer
}

// NewTSVReporter creates a reporter writing events to events and
// BreakDancer confirmations to bd.  bd may be nil, in which case
// confirmations are dropped.  Header lines are written immediately.
func NewTSVReporter(events, bd io.Writer) (*TSVReporter, error) {
	r := &TSVReporter{events: tsv.NewWriter(events)}
	r.events.WriteString("#TYPE\tCHROM\tBP_LEFT\tBP_RIGHT\tSIZE\tNT\tSUPPORT\tUNIQUE\tPLUS\tMINUS\tSAMPLES")
	if err := r.events.EndLine(); err != nil {
		return nil, err
	}
	if bd != nil {
		r.bd = tsv.NewWriter(bd)
		r.bd.WriteString("#CHROM\tLEFT\tRIGHT\tSIZE\tTYPE\tBD_ID")
		if err := r.bd.EndLine(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ReportEvent implements Reporter.
func (r *TSVReporter) ReportEvent(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.events
	w.WriteString(ev.Type.String())
	w.WriteString(ev.ChrName)
	w.WriteInt64(int64(ev.BPLeft))
	w.WriteInt64(int64(ev.BPRight))
	w.WriteInt64(int64(ev.Size))
	if ev.NTStr == "" {
		w.WriteString(".")
	} else {
		w.WriteString(ev.NTStr)
	}
	w.WriteInt64(int64(ev.Support))
	w.WriteInt64(int64(ev.UniqueSupport))
	w.WriteInt64(int64(ev.PlusSupport))
	w.WriteInt64(int64(ev.MinusSupport))
	w.WriteString(ev.Samples())
	return w.EndLine()
}

// ReportBreakDancerEvent implements Reporter.
func (r *TSVReporter) ReportBreakDancerEvent(chrName string, left, right, svSize int, svType string, svCounter int) error {
	if r.bd == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.bd
	w.WriteString(chrName)
	w.WriteInt64(int64(left))
	w.WriteInt64(int64(right))
	w.WriteInt64(int64(svSize))
	w.WriteString(svType)
	w.WriteInt64(int64(svCounter))
	return w.EndLine()
}

// Flush writes buffered output.
func (r *TSVReporter) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.events.Flush()
	if r.bd != nil {
		if e := r.bd.Flush(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// BreakDancerHit is one confirmation recorded by Collector.
type BreakDancerHit struct {
	ChrName     string
	Left, Right int
	Size        int
	Type        string
	ID          int
}

// Collector is a Reporter that keeps everything in memory.
type Collector struct {
	mu          sync.Mutex
	Events      []Event
	BreakDancer []BreakDancerHit
}

// ReportEvent implements Reporter.
func (c *Collector) ReportEvent(ev Event) error {
	c.mu.Lock()
	c.Events = append(c.Events, ev)
	c.mu.Unlock()
	return nil
}

// ReportBreakDancerEvent implements Reporter.
func (c *Collector) ReportBreakDancerEvent(chrName string, left, right, svSize int, svType string, svCounter int) error {
	c.mu.Lock()
	c.BreakDancer = append(c.BreakDancer, BreakDancerHit{chrName, left, right, svSize, svType, svCounter})
	c.mu.Unlock()
	return nil
}
