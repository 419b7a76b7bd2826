// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-pindel detects deletions, short insertions, tandem duplications and
inversions from split reads: reads whose mate maps to the reference while
they themselves do not.  The mapped mate anchors the search; the read is
then matched against the nearby reference in two pieces, and the distance
and orientation between the pieces tells the kind of event.

Reads come from Pindel text files (-reads) or from BAM files (-bam), from
which pairs with exactly one mapped end are extracted.  Each chromosome is
walked in bins of -bin-size bases; -margin bases on either side of a bin are
visible to the search.

Sample usage:
bio-pindel \
    -fasta hg19.fa \
    -bam tumor.bam -insert-size 350 -sample tumor \
    -chromosome chr20:1-10,000,000 \
    -breakdancer tumor.breakdancer.txt \
    -out tumor.events.tsv -bd-out tumor.breakdancer.confirmed.tsv

The event output has one line per event:

	#TYPE CHROM BP_LEFT BP_RIGHT SIZE NT SUPPORT UNIQUE PLUS MINUS SAMPLES

BP_LEFT is the 1-based position of the last reference base before the event
and BP_RIGHT the first one after it.  NT is the read sequence found between
the two breakpoints (the inserted sequence of a short insertion), or "." if
none.  SAMPLES lists the supporting reads per sample.
*/
package main
