package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a reasonable default for most modern CPUs.
const CacheLineSize = 64

// CacheLinePad separates hot fields into distinct cache lines.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedCounter is an atomic uint64 occupying exactly one cache line, so
// per-shard hit/miss counters bumped by different goroutines do not
// false-share.
type PaddedCounter struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

// compile-time size check
var _ [CacheLineSize - int(unsafe.Sizeof(PaddedCounter{}))]byte
