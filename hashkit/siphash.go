package hashkit

import "github.com/dchest/siphash"

// SipHash returns SipHash-2-4 keyed with (k0, k1). Use it when keys come from
// untrusted input and placement must not be predictable without the key.
func SipHash(k0, k1 uint64) Func {
	return func(key []byte) uint64 {
		return siphash.Hash(k0, k1, key)
	}
}
