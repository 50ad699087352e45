package memo_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/matcache/cache"
	"github.com/IvanBrykalov/matcache/matrix"
	"github.com/IvanBrykalov/matcache/memo"
)

func ints(t *testing.T, table [][]int) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromSlices(table)
	require.NoError(t, err)
	return m
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// The literal collision scenario: A and C differ but share row XORs, so the
// memoized product for C·B is the one cached for A·B.
func TestMultiply_CollisionReturnsCachedObject(t *testing.T) {
	ctx := context.Background()
	a := ints(t, [][]int{{0, 1}, {2, 3}})
	c := ints(t, [][]int{{1, 0}, {3, 2}})
	b := ints(t, [][]int{{1, 2}, {3, 4}})

	require.False(t, a.Equal(c))
	ha, err := a.Hash()
	require.NoError(t, err)
	hc, err := c.Hash()
	require.NoError(t, err)
	require.Equal(t, ha, hc)

	rawAB, err := a.MatMul(b)
	require.NoError(t, err)
	rawCB, err := c.MatMul(b)
	require.NoError(t, err)
	require.False(t, rawAB.Equal(rawCB))
	require.Equal(t, "[3 4]\n[11 16]", rawAB.Text())
	require.Equal(t, "[1 2]\n[9 14]", rawCB.Text())

	m := memo.New(memo.Options{Logger: quiet()})
	t.Cleanup(func() { _ = m.Close() })

	ab, err := m.Multiply(ctx, a, b)
	require.NoError(t, err)
	cb, err := m.Multiply(ctx, c, b)
	require.NoError(t, err)

	require.Same(t, ab, cb)
	require.True(t, cb.Equal(rawAB))
	require.False(t, cb.Equal(rawCB))
	require.Equal(t, 1, m.Cache().Len())
	require.Equal(t, uint64(1), m.Stats().Computes)
}

func TestMultiply_DistinctKeysComputeIndependently(t *testing.T) {
	ctx := context.Background()
	m := memo.New(memo.Options{Logger: quiet()})
	t.Cleanup(func() { _ = m.Close() })

	a := ints(t, [][]int{{1, 2}, {3, 4}}) // hash 3 + 7 = 10
	b := ints(t, [][]int{{5, 6}, {7, 8}}) // hash 3 + 15 = 18

	ab, err := m.Multiply(ctx, a, b)
	require.NoError(t, err)
	ba, err := m.Multiply(ctx, b, a)
	require.NoError(t, err)
	require.NotSame(t, ab, ba)
	require.Equal(t, 2, m.Cache().Len())
	require.Equal(t, []cache.Key{{Left: 10, Right: 18}, {Left: 18, Right: 10}}, m.Cache().Keys())

	again, err := m.Multiply(ctx, a, b)
	require.NoError(t, err)
	require.True(t, again.Equal(ab))
	require.Same(t, ab, again)

	st := m.Stats()
	require.Equal(t, uint64(2), st.Computes)
	require.Equal(t, uint64(1), st.Hits)
}

func TestMultiply_ShapeErrorLeavesCacheUntouched(t *testing.T) {
	m := memo.New(memo.Options{Logger: quiet()})
	t.Cleanup(func() { _ = m.Close() })

	// (2,3)·(4,5)
	a := ints(t, [][]int{{1, 2, 3}, {4, 5, 6}})
	b := ints(t, [][]int{{1, 2, 3, 4, 5}, {1, 2, 3, 4, 5}, {1, 2, 3, 4, 5}, {0, 0, 0, 0, 0}})

	_, err := m.Multiply(context.Background(), a, b)
	require.ErrorIs(t, err, matrix.ErrShape)
	_, err = m.Multiply(context.Background(), a, nil)
	require.ErrorIs(t, err, matrix.ErrType)

	require.Zero(t, m.Cache().Len())
	require.Zero(t, m.Stats().Misses, "validation must fail before the cache is probed")
}

func TestMultiply_HashErrors(t *testing.T) {
	m := memo.New(memo.Options{Logger: quiet()})
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	empty, err := matrix.New([][]matrix.Number{{}}) // 1x0
	require.NoError(t, err)
	_, err = m.Multiply(ctx, ints(t, [][]int{{1}}), empty)
	require.ErrorIs(t, err, matrix.ErrEmptyRow)

	floats, err := matrix.FromSlices([][]float64{{1.5}})
	require.NoError(t, err)
	_, err = m.Multiply(ctx, floats, ints(t, [][]int{{2}}))
	require.ErrorIs(t, err, matrix.ErrType)

	require.Zero(t, m.Cache().Len())
}

func TestMultiply_CustomHasher(t *testing.T) {
	// A hasher that only looks at the shape collides far more than RowXOR.
	byShape := matrix.HasherFunc(func(x *matrix.Matrix) (int64, error) {
		return int64(x.Rows()*1000 + x.Cols()), nil
	})
	m := memo.New(memo.Options{Hasher: byShape, Logger: quiet()})
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	p1, err := m.Multiply(ctx, ints(t, [][]int{{1}}), ints(t, [][]int{{2}}))
	require.NoError(t, err)
	p2, err := m.Multiply(ctx, ints(t, [][]int{{7}}), ints(t, [][]int{{9}}))
	require.NoError(t, err)
	require.Same(t, p1, p2)
	require.Equal(t, "[2]", p2.Text())
}

func TestMultiply_ConcurrentSameKeyComputesOnce(t *testing.T) {
	var stored atomic.Int64
	m := memo.New(memo.Options{
		Logger: quiet(),
		Cache: cache.Options{
			OnStore: func(cache.Key, *matrix.Matrix) { stored.Add(1) },
		},
	})
	t.Cleanup(func() { _ = m.Close() })

	a := ints(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	b := ints(t, [][]int{{9, 8, 7}, {6, 5, 4}, {3, 2, 1}})
	want, err := a.MatMul(b)
	require.NoError(t, err)

	var g errgroup.Group
	results := make([]*matrix.Matrix, 32)
	for i := range results {
		g.Go(func() error {
			p, err := m.Multiply(context.Background(), a, b)
			results[i] = p
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, p := range results {
		require.Same(t, results[0], p)
	}
	require.True(t, results[0].Equal(want))
	require.Equal(t, int64(1), stored.Load())
	require.Equal(t, uint64(1), m.Stats().Computes)
}

func TestPurge(t *testing.T) {
	var logs bytes.Buffer
	m := memo.New(memo.Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	a := ints(t, [][]int{{1, 1}, {0, 1}})
	first, err := m.Multiply(ctx, a, a)
	require.NoError(t, err)
	require.Equal(t, 1, m.Purge())
	require.Zero(t, m.Cache().Len())
	require.Contains(t, logs.String(), "product cache purged")

	second, err := m.Multiply(ctx, a, a)
	require.NoError(t, err)
	require.NotSame(t, first, second, "purged products are recomputed")
	require.True(t, first.Equal(second))
}

func TestMultiply_DebugLogging(t *testing.T) {
	var logs bytes.Buffer
	lg := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := memo.New(memo.Options{Logger: lg})
	t.Cleanup(func() { _ = m.Close() })

	a := ints(t, [][]int{{2}})
	_, err := m.Multiply(context.Background(), a, a)
	require.NoError(t, err)
	_, err = m.Multiply(context.Background(), a, a)
	require.NoError(t, err)

	out := logs.String()
	require.Contains(t, out, "product computed")
	require.Contains(t, out, "product cache hit")
	require.Contains(t, out, "component=memo")
}

func TestMultiply_Closed(t *testing.T) {
	m := memo.New(memo.Options{Logger: quiet()})
	require.NoError(t, m.Close())
	a := ints(t, [][]int{{1}})
	_, err := m.Multiply(context.Background(), a, a)
	require.True(t, errors.Is(err, cache.ErrClosed))
}
