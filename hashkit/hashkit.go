package hashkit

import (
	"errors"
	"fmt"
)

// ErrUnknownHash is returned by ByName for unsupported hash function names.
var ErrUnknownHash = errors.New("hashkit: unknown hash function")

// Hasher digests nodes and keys into 64-bit values. Implementations must
// return the same digest for equal inputs across processes and platforms.
type Hasher interface {
	Hash(v any) uint64
}

// Func digests raw bytes.
type Func func(key []byte) uint64

// Hash encodes v with AppendValue and digests the encoding.
func (fn Func) Hash(v any) uint64 {
	return fn(AppendValue(nil, v))
}

// Default is XXH64 with a zero seed over the AppendValue encoding.
var Default Hasher = Func(XXHash64)

// ByName returns the unkeyed hash function registered under name.
func ByName(name string) (Func, error) {
	switch name {
	case "", "xxhash":
		return XXHash64, nil
	case "xxh3":
		return Xxh3, nil
	case "murmur3":
		return Murmur3, nil
	case "blake3":
		return Blake3, nil
	case "fnv":
		return Fnv1a64, nil
	case "md5":
		return MD5, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHash, name)
}
