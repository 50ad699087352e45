// Package util contains internal helpers for the product cache
// (key hashing, shard sizing, padded counters).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashPair spreads an ordered pair of operand hashes over 64 bits for shard
// selection. The operand hashes themselves are weak and cluster on small
// values, so they are never used as shard indexes directly.
func HashPair(left, right int64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(left))
	binary.LittleEndian.PutUint64(buf[8:], uint64(right))
	return xxhash.Sum64(buf[:])
}
