// Package bitlabel implements the index arithmetic behind bit-interleaved
// labeling: symbol i of a 2^m-point constellation carries the m-bit label i,
// and the coset (k, b) is the set of labels whose bit k equals b.
package bitlabel

import "math/bits"

// InsertZero spreads the (m-1)-bit index i over m bits by inserting a zero
// at bit position k. Bits of i below k stay in place, bits at or above k
// move up by one.
//
// As i ranges over [0, 2^(m-1)), InsertZero(i, k, m) visits every m-bit
// value with bit k cleared exactly once.
func InsertZero(i, k, m uint) uint {
	low := i & (1<<k - 1)
	high := (i >> k) << (k + 1)
	return (high | low) & (1<<m - 1)
}

// CosetIndex returns the i-th member of the coset of labels whose bit k
// equals b (b is 0 or 1).
func CosetIndex(i, k, b, m uint) uint {
	return InsertZero(i, k, m) | (b&1)<<k
}

// Bit returns bit k of label.
func Bit(label, k uint) uint {
	return (label >> k) & 1
}

// Log2 returns m such that size == 2^m. ok is false if size is not a
// positive power of two.
func Log2(size int) (m int, ok bool) {
	if size <= 0 || size&(size-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros(uint(size)), true
}
