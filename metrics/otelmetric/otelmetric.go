// Package otelmetric exports product cache metrics through OpenTelemetry.
package otelmetric

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/IvanBrykalov/matcache/cache"
)

// DefaultScope is the instrumentation scope used when New gets an empty name.
const DefaultScope = "matcache.cache"

var (
	resultOK  = metric.WithAttributes(attribute.String("result", "ok"))
	resultErr = metric.WithAttributes(attribute.String("result", "error"))
)

// Adapter implements cache.Metrics on top of an OpenTelemetry meter.
// Instruments are goroutine-safe, so the adapter is too.
type Adapter struct {
	hits     metric.Int64Counter
	misses   metric.Int64Counter
	computes metric.Int64Counter
	duration metric.Float64Histogram
	size     metric.Int64Gauge
}

// New creates the instruments on mp (nil => otel.GetMeterProvider()).
func New(mp metric.MeterProvider, scope string) (*Adapter, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if scope == "" {
		scope = DefaultScope
	}
	meter := mp.Meter(scope)

	var (
		a   Adapter
		err error
	)
	if a.hits, err = meter.Int64Counter("matcache_hits_total",
		metric.WithDescription("Product cache hits")); err != nil {
		return nil, err
	}
	if a.misses, err = meter.Int64Counter("matcache_misses_total",
		metric.WithDescription("Product cache misses")); err != nil {
		return nil, err
	}
	if a.computes, err = meter.Int64Counter("matcache_computes_total",
		metric.WithDescription("Matrix products computed on a miss, by result")); err != nil {
		return nil, err
	}
	if a.duration, err = meter.Float64Histogram("matcache_compute_duration_seconds",
		metric.WithDescription("Time spent computing products on a miss"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if a.size, err = meter.Int64Gauge("matcache_size_entries",
		metric.WithDescription("Number of resident products")); err != nil {
		return nil, err
	}
	return &a, nil
}

// Hit implements cache.Metrics.
func (a *Adapter) Hit() { a.hits.Add(context.Background(), 1) }

// Miss implements cache.Metrics.
func (a *Adapter) Miss() { a.misses.Add(context.Background(), 1) }

// Compute implements cache.Metrics.
func (a *Adapter) Compute(d time.Duration, err error) {
	ctx := context.Background()
	attrs := resultOK
	if err != nil {
		attrs = resultErr
	}
	a.computes.Add(ctx, 1, attrs)
	a.duration.Record(ctx, d.Seconds(), attrs)
}

// Size implements cache.Metrics.
func (a *Adapter) Size(entries int) { a.size.Record(context.Background(), int64(entries)) }

var _ cache.Metrics = (*Adapter)(nil)
