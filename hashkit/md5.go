package hashkit

import (
	"crypto/md5"
	"encoding/binary"
)

// MD5 returns the first 8 bytes of the MD5 digest read as little endian.
func MD5(key []byte) uint64 {
	digest := md5.Sum(key)
	return binary.LittleEndian.Uint64(digest[:8])
}
