// Package cache provides the sharded in-memory store behind memoized matrix
// multiplication: products keyed by the ordered pair of operand hashes.
//
// Design
//
//   - Concurrency: the store is split into shards, each protected by an
//     RWMutex. The default shard count is 2*GOMAXPROCS rounded up to a power
//     of two (at most 256). Keys are spread with xxhash because operand
//     hashes are small, clustered integers.
//
//   - Growth: entries are never evicted and never expire. The store grows
//     monotonically until Purge.
//
//   - Trust: a Key is the whole identity of an entry. Two different operand
//     pairs with colliding hashes share one product; the store neither
//     detects nor reports it.
//
//   - GetOrCompute: probe, compute and insert are one critical section per
//     key. Concurrent misses on the same key join a single flight
//     (golang.org/x/sync/singleflight), so the product is computed once and
//     inserted once.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Compute/Size signals.
//     By default NoopMetrics is used; see metrics/prom and
//     metrics/otelmetric for exporters.
//
// Basic usage
//
//	c := cache.New(cache.Options{})
//	k := cache.Key{Left: ha, Right: hb}
//	p, hit, err := c.GetOrCompute(ctx, k, func(context.Context) (*matrix.Matrix, error) {
//	    return a.MatMul(b)
//	})
//
// Inspection
//
//	c.Len()      // resident entries
//	c.Keys()     // sorted keys
//	c.Stats()    // hits, misses, computes
//	c.Purge()    // drop everything
package cache
