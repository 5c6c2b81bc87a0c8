package hashkit

import "github.com/spaolacci/murmur3"

// Murmur3 is the first half of MurmurHash3 x64_128 with a zero seed.
func Murmur3(key []byte) uint64 {
	return murmur3.Sum64(key)
}
