package cache

import (
	"context"
	"strconv"

	"github.com/IvanBrykalov/matcache/matrix"
)

// Key identifies a cached product by the ordered pair of operand hashes.
// Order matters: (hash(A), hash(B)) and (hash(B), hash(A)) are different keys.
type Key struct {
	Left  int64
	Right int64
}

// String renders the key as "left:right". It is also the coalescing key
// for concurrent computations.
func (k Key) String() string {
	return strconv.FormatInt(k.Left, 10) + ":" + strconv.FormatInt(k.Right, 10)
}

// ComputeFunc produces the product for a key on a miss.
type ComputeFunc func(ctx context.Context) (*matrix.Matrix, error)

// Cache is a sharded, in-memory store of matrix products keyed by operand
// hash pairs. All methods are safe for concurrent use by multiple goroutines.
//
// Entries are never evicted and never expire: the cache only grows until
// Purge is called. Lookups trust the key completely; a value stored for one
// operand pair is served to every other pair whose hashes collide with it.
type Cache interface {
	// Get returns the product stored under k and a presence flag.
	Get(k Key) (*matrix.Matrix, bool)

	// Add stores k→v only if k is absent.
	// Returns false if the key already exists (the stored value wins).
	Add(k Key, v *matrix.Matrix) bool

	// GetOrCompute returns the product for k, running fn on a miss and
	// storing its result. Concurrent misses on the same key are coalesced so
	// fn runs once; hit reports whether this caller got a value it did not
	// compute itself. Errors from fn are returned and nothing is stored.
	GetOrCompute(ctx context.Context, k Key, fn ComputeFunc) (v *matrix.Matrix, hit bool, err error)

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Keys returns the resident keys ordered by (Left, Right).
	Keys() []Key

	// Entries returns a snapshot of resident entries ordered by key.
	Entries() []Entry

	// Purge drops every entry and returns how many were removed.
	Purge() int

	// Stats returns cumulative counters since construction.
	Stats() Stats

	// Close marks the cache closed. Later calls miss, Add returns false and
	// GetOrCompute returns ErrClosed. Close is soft and returns nil.
	Close() error
}

// Entry is a point-in-time view of one cached product.
type Entry struct {
	Key     Key
	Product *matrix.Matrix
	// Served counts how many lookups returned this entry after it was stored.
	Served uint64
}

// Stats aggregates the per-shard counters.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Computes uint64
	Entries  int
}
