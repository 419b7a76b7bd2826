// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package interval implements interval-union operations in a manner optimized
  for sets of genomic coordinates represented by BED files, plus parsing of
  samtools-style region strings.
  (Note the 'union'.  Overlapping intervals are merged, not tracked
  separately.)
  A BEDUnion is immutable once loaded, so one instance may be queried from
  many goroutines.
*/
package interval
