// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seq

import (
	gunsafe "github.com/grailbio/base/unsafe"
)

// revComp8Table maps 'A'/'a' to 'T', 'C'/'c' to 'G', 'G'/'g' to 'C', 'T'/'t'
// to 'A', and everything else to 'N'.
var revComp8Table [256]byte

// cleanTable capitalizes 'a'/'c'/'g'/'t' and maps everything else to 'N'.
var cleanTable [256]byte

func init() {
	for i := range revComp8Table {
		revComp8Table[i] = 'N'
		cleanTable[i] = 'N'
	}
	for _, pair := range [...][2]byte{{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}} {
		revComp8Table[pair[0]] = pair[1]
		revComp8Table[pair[0]+'a'-'A'] = pair[1]
		cleanTable[pair[0]] = pair[0]
		cleanTable[pair[0]+'a'-'A'] = pair[0]
	}
}

// Complement returns the complement of a single ASCII base.  Anything that is
// not A/C/G/T (either case) becomes 'N'.
func Complement(base byte) byte {
	return revComp8Table[base]
}

// ReverseComp8Inplace reverse-complements ascii8[], assuming that it's using
// ASCII encoding.  More precisely, it maps 'A'/'a' to 'T', 'C'/'c' to 'G',
// 'G'/'g' to 'C', 'T'/'t' to 'A', and everything else to 'N'.
func ReverseComp8Inplace(ascii8 []byte) {
	nByte := len(ascii8)
	nByteDiv2 := nByte >> 1
	for idx, invIdx := 0, nByte-1; idx != nByteDiv2; idx, invIdx = idx+1, invIdx-1 {
		ascii8[idx], ascii8[invIdx] = revComp8Table[ascii8[invIdx]], revComp8Table[ascii8[idx]]
	}
	if nByte&1 == 1 {
		ascii8[nByteDiv2] = revComp8Table[ascii8[nByteDiv2]]
	}
}

// ReverseComp8 writes the reverse-complement of src[] to dst[].
//
// It panics if len(dst) != len(src).
func ReverseComp8(dst, src []byte) {
	nByte := len(src)
	if len(dst) != nByte {
		panic("ReverseComp8 requires len(dst) == len(src).")
	}
	for idx, invIdx := 0, nByte-1; idx != nByte; idx, invIdx = idx+1, invIdx-1 {
		dst[idx] = revComp8Table[src[invIdx]]
	}
}

// ReverseComplement computes the reverse complement of the given DNA string.
func ReverseComplement(s string) string {
	buf := make([]byte, len(s))
	ReverseComp8(buf, gunsafe.StringToBytes(s))
	return gunsafe.BytesToString(buf)
}

// Reverse returns s with its bytes in reverse order.
func Reverse(s string) string {
	nByte := len(s)
	buf := make([]byte, nByte)
	for idx := 0; idx != nByte; idx++ {
		buf[idx] = s[nByte-1-idx]
	}
	return gunsafe.BytesToString(buf)
}

// CleanASCIISeqInplace capitalizes 'a'/'c'/'g'/'t', and replaces everything
// non-ACGT with 'N'.
func CleanASCIISeqInplace(ascii8 []byte) {
	for pos, ascii8Byte := range ascii8 {
		ascii8[pos] = cleanTable[ascii8Byte]
	}
}

// CleanString returns a cleaned copy of s; see CleanASCIISeqInplace.
func CleanString(s string) string {
	buf := []byte(s)
	CleanASCIISeqInplace(buf)
	return gunsafe.BytesToString(buf)
}
