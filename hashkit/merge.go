package hashkit

// Merge mixes a node digest with a key digest into an affinity value.
// The finalizer is the 64-bit avalanche step of MurmurHash3, so a single
// flipped input bit flips about half of the output bits.
func Merge(a, b uint64) uint64 {
	d := a ^ b
	d ^= d >> 33
	d *= 0xff51afd7ed558ccd
	d ^= d >> 33
	d *= 0xc4ceb9fe1a85ec53
	d ^= d >> 33
	return d
}
