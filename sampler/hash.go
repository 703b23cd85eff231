// Package sampler selects a deterministic, mutation-robust subset of
// a k-mer stream for insertion into an IBLT: syncmers, minimizers, and
// a thin dedup layer over either.
package sampler

// Mix64 is the 64-bit seed-parameterised integer hash the syncmer and
// minimizer samplers use to rank k-mers. Its bit sequence is required
// verbatim by every implementation of this scheme; do not replace it
// with a general-purpose hash function, even a faster one, since two
// parties must rank identically to sample the same keys.
func Mix64(x, seed uint64) uint64 {
	k := (x + seed)
	k = (^k) + (k << 21)
	k = k ^ (k >> 24)
	k = k + (k << 3) + (k << 8)
	k = k ^ (k >> 14)
	k = k + (k << 2) + (k << 4)
	k = k ^ (k >> 28)
	k = k + (k << 31)
	return k
}
