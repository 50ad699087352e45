package util

import "runtime"

// MaxShards caps the automatic and requested shard counts.
const MaxShards = 256

// NextPow2 returns the smallest power of two >= x (1 for x <= 1).
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 { // wrapped
		return 1 << 63
	}
	return x
}

// ShardCount resolves a requested shard count: non-positive means
// nextPow2(2*GOMAXPROCS); the result is always a power of two in
// [1..MaxShards].
func ShardCount(requested int) int {
	n := requested
	if n <= 0 {
		n = 2 * runtime.GOMAXPROCS(0)
	}
	if n > MaxShards {
		return MaxShards
	}
	return int(NextPow2(uint64(n)))
}

// ShardIndex maps a 64-bit hash to a shard. shards must be a power of two.
func ShardIndex(hash uint64, shards int) int {
	return int(hash & uint64(shards-1))
}
