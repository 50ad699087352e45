// Package memo memoizes matrix multiplication behind a content-addressed
// product cache.
//
// A Multiplier keys every product by the ordered pair of operand hashes and
// trusts that key completely: once (hash(A), hash(B)) has a stored product,
// every later Multiply whose operands hash to the same pair returns that
// same *matrix.Matrix, even when the operands differ. With the default
// RowXOR policy this is easy to trigger, e.g. by swapping two elements of a
// row. Collisions are not errors and are never reported.
package memo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IvanBrykalov/matcache/cache"
	"github.com/IvanBrykalov/matcache/matrix"
)

// Options configures a Multiplier. Zero values are safe:
//   - nil Hasher => matrix.RowXOR
//   - nil Logger => slog.Default()
type Options struct {
	// Hasher maps each operand to its half of the cache key.
	Hasher matrix.Hasher

	// Cache configures the owned product store (shards, metrics, callbacks).
	Cache cache.Options

	Logger *slog.Logger
}

// Multiplier is a memoized matrix multiplier. It owns its product cache;
// create one per session and share it between goroutines.
type Multiplier struct {
	hasher matrix.Hasher
	store  cache.Cache
	log    *slog.Logger
}

// New constructs a Multiplier with an empty product cache.
func New(opt Options) *Multiplier {
	if opt.Hasher == nil {
		opt.Hasher = matrix.RowXOR{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Multiplier{
		hasher: opt.Hasher,
		store:  cache.New(opt.Cache),
		log:    opt.Logger.With(slog.String("component", "memo")),
	}
}

// Multiply returns a·b, served from the cache when the operand hash pair was
// seen before.
//
// Steps:
//  1. shape check (ErrType for nil operands, ErrShape when a.Cols != b.Rows)
//  2. key = (hash(a), hash(b)); hash errors such as ErrEmptyRow abort here
//  3. hit: the stored product is returned as is, operands are not compared
//  4. miss: a.MatMul(b) is computed, stored and returned
//
// Validation and hashing happen before the cache is touched, so a failed
// call never changes it. Concurrent misses on one key compute once.
func (m *Multiplier) Multiply(ctx context.Context, a, b *matrix.Matrix) (*matrix.Matrix, error) {
	if err := matrix.MulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("memo.Multiply: %w", err)
	}
	key, err := m.Key(a, b)
	if err != nil {
		return nil, err
	}

	p, hit, err := m.store.GetOrCompute(ctx, key, func(context.Context) (*matrix.Matrix, error) {
		return a.MatMul(b)
	})
	if err != nil {
		return nil, fmt.Errorf("memo.Multiply %s: %w", key, err)
	}
	if hit {
		m.log.DebugContext(ctx, "product cache hit",
			slog.Int64("left", key.Left), slog.Int64("right", key.Right))
	} else {
		m.log.DebugContext(ctx, "product computed",
			slog.Int64("left", key.Left), slog.Int64("right", key.Right),
			slog.Int("rows", p.Rows()), slog.Int("cols", p.Cols()))
	}
	return p, nil
}

// Key returns the cache key Multiply would use for a·b.
func (m *Multiplier) Key(a, b *matrix.Matrix) (cache.Key, error) {
	ha, err := m.hasher.Hash(a)
	if err != nil {
		return cache.Key{}, fmt.Errorf("memo.Key: left operand: %w", err)
	}
	hb, err := m.hasher.Hash(b)
	if err != nil {
		return cache.Key{}, fmt.Errorf("memo.Key: right operand: %w", err)
	}
	return cache.Key{Left: ha, Right: hb}, nil
}

// Cache exposes the owned product cache for inspection.
func (m *Multiplier) Cache() cache.Cache { return m.store }

// Stats returns the product cache counters.
func (m *Multiplier) Stats() cache.Stats { return m.store.Stats() }

// Purge clears the product cache and returns how many products were dropped.
func (m *Multiplier) Purge() int {
	n := m.store.Purge()
	m.log.Info("product cache purged", slog.Int("entries", n))
	return n
}

// Close closes the product cache; later Multiply calls fail with
// cache.ErrClosed.
func (m *Multiplier) Close() error { return m.store.Close() }
