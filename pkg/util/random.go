package util

import "math/rand/v2"

// GenerateRandomInputs generates n random inputs in the range 0..m.
func GenerateRandomInputs(n, m uint) []uint {
	items := make([]uint, n)

	for i := uint(0); i < n; i++ {
		items[i] = rand.UintN(m)
	}

	return items
}

// GenerateRandomPowers generates n random powers of two in the range 1..2^m
// (inclusive).
func GenerateRandomPowers(n, m uint) []uint32 {
	items := make([]uint32, n)

	for i := uint(0); i < n; i++ {
		items[i] = uint32(1) << rand.UintN(m+1)
	}

	return items
}

// GenerateRandomPointer generates a random pointer p such that p+size does not
// exceed 2^bits.  When aligned is set, p is additionally a multiple of size.
func GenerateRandomPointer(size uint32, bits uint, aligned bool) uint32 {
	var n = (uint32(1) << bits) - size + 1
	//
	if aligned {
		return rand.Uint32N((uint32(1)<<bits)/size) * size
	}
	//
	return rand.Uint32N(n)
}
