package cache

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/matcache/internal/util"
	"github.com/IvanBrykalov/matcache/matrix"
)

// ErrClosed is returned by GetOrCompute after Close.
var ErrClosed = errors.New("cache: closed")

// ErrNilCompute is returned by GetOrCompute when fn is nil and the key is absent.
var ErrNilCompute = errors.New("cache: nil compute func")

// cache is a sharded product store.
// All methods are safe for concurrent use by multiple goroutines.
type cache struct {
	shards  []*shard
	closed  atomic.Bool
	entries atomic.Int64

	opt Options

	// coalesces concurrent computations of the same key in GetOrCompute.
	sf singleflight.Group
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - Shards <= 0  -> auto, rounded up to the next power of two
func New(opt Options) Cache {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	sh := util.ShardCount(opt.Shards)
	opt.Shards = sh

	perShard := 0
	if opt.SizeHint > 0 {
		perShard = (opt.SizeHint + sh - 1) / sh
	}
	cs := make([]*shard, sh)
	for i := range cs {
		cs[i] = newShard(perShard, opt)
	}
	return &cache{shards: cs, opt: opt}
}

// ---- Cache implementation ----

// Get returns the product stored under k and a presence flag.
func (c *cache) Get(k Key) (*matrix.Matrix, bool) {
	if c.closed.Load() {
		return nil, false
	}
	return c.getShard(k).Get(k)
}

// Add stores k→v only if absent.
func (c *cache) Add(k Key, v *matrix.Matrix) bool {
	if c.closed.Load() {
		return false
	}
	_, stored := c.store(c.getShard(k), k, v)
	return stored
}

// flight is the shared result of one coalesced computation.
type flight struct {
	val *matrix.Matrix
	// resident is true when the value was already stored, so the flight
	// leader did not compute it either.
	resident bool
}

// GetOrCompute returns the product for k, computing it with fn on a miss.
//
// Probe, compute and insert form one critical section per key: concurrent
// callers that miss on the same key join a single flight, and the flight
// re-checks the shard before computing. A caller whose ctx is cancelled
// stops waiting and returns ctx.Err(); the computation itself is not
// cancelled and its result is still stored.
func (c *cache) GetOrCompute(ctx context.Context, k Key, fn ComputeFunc) (*matrix.Matrix, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	s := c.getShard(k)

	// fast path
	if v, ok := s.Get(k); ok {
		return v, true, nil
	}
	if fn == nil {
		return nil, false, ErrNilCompute
	}

	ran := false // set only when this caller leads the flight
	ch := c.sf.DoChan(k.String(), func() (any, error) {
		ran = true
		// double-check after joining: an earlier flight may have stored it
		if v, ok := s.peek(k); ok {
			return flight{val: v, resident: true}, nil
		}
		start := time.Now()
		v, err := fn(context.WithoutCancel(ctx))
		c.opt.Metrics.Compute(time.Since(start), err)
		if err != nil {
			return nil, err
		}
		s.computes.Add(1)
		v, stored := c.store(s, k, v)
		return flight{val: v, resident: !stored}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		f := res.Val.(flight)
		return f.val, !ran || f.resident, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Len returns the total number of resident entries across all shards.
func (c *cache) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Keys returns the resident keys ordered by (Left, Right).
func (c *cache) Keys() []Key {
	es := c.Entries()
	keys := make([]Key, len(es))
	for i, e := range es {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a snapshot of resident entries ordered by key.
// Shards are visited one at a time, so the snapshot is not atomic with
// respect to concurrent inserts.
func (c *cache) Entries() []Entry {
	var out []Entry
	for _, s := range c.shards {
		out = s.appendEntries(out)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if r := cmp.Compare(a.Key.Left, b.Key.Left); r != 0 {
			return r
		}
		return cmp.Compare(a.Key.Right, b.Key.Right)
	})
	return out
}

// Purge drops every entry. Counters in Stats are kept.
func (c *cache) Purge() int {
	n := 0
	for _, s := range c.shards {
		n += s.purge()
	}
	c.opt.Metrics.Size(int(c.entries.Add(-int64(n))))
	return n
}

// Stats sums the per-shard counters.
func (c *cache) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Computes += s.computes.Load()
	}
	st.Entries = c.Len()
	return st
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache) Close() error {
	c.closed.Store(true)
	return nil
}

// ---- helpers ----

// store inserts into s and keeps the entry gauge current.
func (c *cache) store(s *shard, k Key, v *matrix.Matrix) (*matrix.Matrix, bool) {
	resident, stored := s.Add(k, v)
	if stored {
		c.opt.Metrics.Size(int(c.entries.Add(1)))
	}
	return resident, stored
}

// getShard picks a shard by hashing the key pair and masking with len-1.
// len(c.shards) is guaranteed to be a power of two.
func (c *cache) getShard(k Key) *shard {
	return c.shards[util.ShardIndex(util.HashPair(k.Left, k.Right), len(c.shards))]
}
