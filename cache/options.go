package cache

import (
	"time"

	"github.com/IvanBrykalov/matcache/matrix"
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Compute reports one product computation, its duration and outcome.
	Compute(d time.Duration, err error)
	Size(entries int)
}

// Options configures the cache. Zero values are safe; New applies defaults:
//   - Shards <= 0  => auto (≈ 2*GOMAXPROCS, power of two, at most 256)
//   - nil Metrics  => NoopMetrics
type Options struct {
	// Shards defines the number of shards, rounded up to a power of two.
	Shards int

	// SizeHint pre-sizes the shard maps for the expected number of distinct
	// keys. It is not a limit.
	SizeHint int

	Metrics Metrics

	// OnStore is called under the shard lock after a new product is stored;
	// keep it lightweight.
	OnStore func(k Key, v *matrix.Matrix)
}
