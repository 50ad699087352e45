package cache

import (
	"sync"

	"github.com/IvanBrykalov/matcache/internal/util"
	"github.com/IvanBrykalov/matcache/matrix"
)

// entry is a stored product plus the number of times it was served.
type entry struct {
	val    *matrix.Matrix
	served uint64 // guarded by the shard lock
}

// shard is an independent partition of the cache with its own lock and map.
type shard struct {
	// ---- guarded by mu ----
	mu sync.RWMutex
	m  map[Key]*entry

	opt Options

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_        util.CacheLinePad
	hits     util.PaddedCounter
	misses   util.PaddedCounter
	computes util.PaddedCounter
}

func newShard(sizeHint int, opt Options) *shard {
	return &shard{
		m:   make(map[Key]*entry, sizeHint),
		opt: opt,
	}
}

// Get returns the stored product and bumps its served count.
func (s *shard) Get(k Key) (*matrix.Matrix, bool) {
	s.mu.Lock()
	e, ok := s.m[k]
	if ok {
		e.served++
	}
	s.mu.Unlock()

	if !ok {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		return nil, false
	}
	s.hits.Add(1)
	s.opt.Metrics.Hit()
	return e.val, true
}

// peek is Get without counters; used for the re-check inside a flight.
func (s *shard) peek(k Key) (*matrix.Matrix, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[k]
	if !ok {
		return nil, false
	}
	e.served++
	return e.val, true
}

// Add inserts k→v if absent. It returns the resident value and whether this
// call stored it.
func (s *shard) Add(k Key, v *matrix.Matrix) (*matrix.Matrix, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.m[k]; exists {
		return e.val, false
	}
	s.m[k] = &entry{val: v}
	if cb := s.opt.OnStore; cb != nil {
		cb(k, v)
	}
	return v, true
}

// Len returns the number of resident entries in this shard.
func (s *shard) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// appendEntries copies this shard's entries into dst.
func (s *shard) appendEntries(dst []Entry) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, e := range s.m {
		dst = append(dst, Entry{Key: k, Product: e.val, Served: e.served})
	}
	return dst
}

// purge drops all entries and returns how many there were.
func (s *shard) purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.m)
	s.m = make(map[Key]*entry, len(s.m))
	return n
}
