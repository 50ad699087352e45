package cache

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/IvanBrykalov/matcache/matrix"
)

// benchmarkMix exercises a hit-heavy GetOrCompute workload against a warm
// cache, the way memoized multiplication uses it. Parallel workers draw keys
// from a hot keyspace; a miss stores a shared product.
func benchmarkMix(b *testing.B, keyspace int) {
	c := New(Options{SizeHint: keyspace})
	b.Cleanup(func() { _ = c.Close() })

	p, err := matrix.FromSlices([][]int{{1, 2}, {3, 4}})
	if err != nil {
		b.Fatal(err)
	}
	compute := func(context.Context) (*matrix.Matrix, error) { return p, nil }

	// Preload half the keyspace.
	for i := 0; i < keyspace/2; i++ {
		c.Add(Key{Left: int64(i), Right: int64(i)}, p)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		ctx := context.Background()
		for pb.Next() {
			i := int64(r.Intn(keyspace))
			_, _, _ = c.GetOrCompute(ctx, Key{Left: i, Right: i}, compute)
		}
	})
}

func BenchmarkCache_GetOrCompute_1k(b *testing.B)  { benchmarkMix(b, 1<<10) }
func BenchmarkCache_GetOrCompute_64k(b *testing.B) { benchmarkMix(b, 1<<16) }

func BenchmarkCache_Get(b *testing.B) {
	c := New(Options{})
	b.Cleanup(func() { _ = c.Close() })
	p, _ := matrix.FromSlices([][]int{{1}})
	for i := 0; i < 1024; i++ {
		c.Add(Key{Left: int64(i)}, p)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Get(Key{Left: int64(i & 1023)})
			i++
		}
	})
}
