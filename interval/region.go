// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a parsed region string.  Bounded is false when the string names
// only a chromosome.
type Region struct {
	Entry
	Bounded bool
}

func parsePos(s string) (int, error) {
	pos, err := strconv.Atoi(strings.Replace(s, ",", "", -1))
	if err != nil {
		return 0, fmt.Errorf("interval.ParseRegionString: bad position %q", s)
	}
	if pos <= 0 {
		return 0, fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", s)
	}
	return pos, nil
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based [Start0, End) boundaries.  Positions may
// contain thousands separators, e.g. "chr1:1,000-2,000".  Bounded is false
// if there is no positional restriction.
func ParseRegionString(region string) (result Region, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[:colonPos]
	result.Bounded = true
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int
		if pos1, err = parsePos(rangeStr); err != nil {
			return
		}
		result.Start0 = pos1 - 1
		result.End = pos1
		return
	}
	var start1, end int
	if start1, err = parsePos(rangeStr[:dashPos]); err != nil {
		return
	}
	if end, err = parsePos(rangeStr[dashPos+1:]); err != nil {
		return
	}
	if end < start1 {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
		return
	}
	result.Start0 = start1 - 1
	result.End = end
	return
}
