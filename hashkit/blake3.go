package hashkit

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Blake3 returns the first 8 bytes of the BLAKE3-256 digest read as big endian.
// Slower than the non-cryptographic functions, but node identities that differ
// in a single character still spread evenly.
func Blake3(key []byte) uint64 {
	digest := blake3.Sum256(key)
	return binary.BigEndian.Uint64(digest[:8])
}
