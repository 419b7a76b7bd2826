// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seq provides the small set of ASCII nucleotide transformations
// needed by the breakpoint search: reverse complement, complement of a single
// base, and normalization of reference sequence to A/C/G/T/N.
package seq
