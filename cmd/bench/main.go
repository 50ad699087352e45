// Command bench runs a synthetic memoized multiply workload and exposes optional pprof/metrics endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/IvanBrykalov/matcache/cache"
	"github.com/IvanBrykalov/matcache/internal/artifacts"
	"github.com/IvanBrykalov/matcache/matrix"
	"github.com/IvanBrykalov/matcache/memo"
	"github.com/IvanBrykalov/matcache/metrics/otelmetric"
	pmet "github.com/IvanBrykalov/matcache/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		shards = flag.Int("shards", 0, "number of shards (0=auto)")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")

		pool  = flag.Int("pool", 1_000, "number of distinct operands")
		size  = flag.Int("size", 16, "side of the square operands")
		maxV  = flag.Int("max", 4, "operand elements are drawn from [0, max); small values collide more")
		zipfS = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		rateLimit = flag.Float64("rate", 0, "cap total multiplies per second (0 = unlimited)")
		verify    = flag.Bool("verify", false, "recompute every product and count wrong (collided) results")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsKind = flag.String("metrics", "prom", "metrics backend: prom | otel | otelprom | none")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr (prom and otelprom)")
	)
	flag.Parse()

	if *pool <= 0 || *size <= 0 || *maxV <= 0 {
		log.Fatalf("pool, size and max must be positive")
	}

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Metrics ----
	var metrics cache.Metrics
	switch *metricsKind {
	case "prom":
		metrics = pmet.New(nil, "matcache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	case "otelprom":
		// OTel instruments exported through a Prometheus registry.
		reg := prometheus.NewRegistry()
		exp, err := otelprom.New(otelprom.WithRegisterer(reg))
		if err != nil {
			log.Fatalf("otel prometheus exporter: %v", err)
		}
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
		defer func() { _ = mp.Shutdown(context.Background()) }()
		a, err := otelmetric.New(mp, otelmetric.DefaultScope)
		if err != nil {
			log.Fatalf("otel metrics: %v", err)
		}
		metrics = a
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			log.Printf("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	case "otel":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
		if err != nil {
			log.Fatalf("otel exporter: %v", err)
		}
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(5*time.Second)),
		))
		defer func() {
			// Shutdown flushes the last collection to the exporter.
			if err := mp.Shutdown(context.Background()); err != nil {
				log.Printf("otel shutdown: %v", err)
			}
		}()
		a, err := otelmetric.New(mp, otelmetric.DefaultScope)
		if err != nil {
			log.Fatalf("otel metrics: %v", err)
		}
		metrics = a
	case "none":
	default:
		log.Fatalf("unknown metrics backend: %q (use prom, otel, otelprom or none)", *metricsKind)
	}

	// ---- Build multiplier ----
	m := memo.New(memo.Options{
		Cache: cache.Options{
			Shards:  *shards,
			Metrics: metrics,
		},
	})
	defer func() { _ = m.Close() }()

	// ---- Operand pool ----
	r := rand.New(rand.NewSource(*seed))
	operands := make([]*matrix.Matrix, *pool)
	for i := range operands {
		operands[i] = artifacts.Random(r, *size, *size, *maxV)
	}

	// ---- Snapshot flags for goroutines ----
	poolMax := uint64(*pool - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	verifyVal := *verify
	// One limiter shared by all workers; nil means unlimited.
	var limiter *rate.Limiter
	if *rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(*rateLimit), 1)
	}
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var total, wrong uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, poolMax)

			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				if limiter != nil {
					if err := limiter.Wait(gctx); err != nil {
						return nil // deadline reached
					}
				}

				a := operands[localZipf.Uint64()]
				b := operands[localZipf.Uint64()]
				p, err := m.Multiply(gctx, a, b)
				if err != nil {
					if gctx.Err() != nil {
						return nil
					}
					return err
				}
				atomic.AddUint64(&total, 1)
				if verifyVal {
					// A served product that differs from the true one came from a colliding key.
					if want, _ := a.MatMul(b); !want.Equal(p) {
						atomic.AddUint64(&wrong, 1)
					}
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("workload: %v", err)
	}
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	st := m.Stats()
	hitRate := 0.0
	if st.Hits+st.Misses > 0 {
		hitRate = float64(st.Hits) / float64(st.Hits+st.Misses) * 100
	}

	fmt.Printf("shards=%d workers=%d pool=%d size=%d max=%d dur=%v seed=%d\n",
		*shards, workersN, *pool, *size, *maxV, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  computes=%d  entries=%d\n",
		ops, float64(ops)/elapsed.Seconds(), st.Computes, st.Entries)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", st.Hits, st.Misses, hitRate)
	if verifyVal {
		fmt.Printf("wrong-products=%d\n", atomic.LoadUint64(&wrong))
	}
}
