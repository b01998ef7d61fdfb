// Package metrics exposes Prometheus metrics for sanitization and the
// execution cache.
//
// Metrics:
//   - phpsandbox_sanitize_total: sanitizations by result
//   - phpsandbox_violations_total: policy violations by kind
//   - phpsandbox_sanitize_duration_seconds: time spent parsing and emitting
//   - phpsandbox_cache_writes_total: cached units written to disk
//   - phpsandbox_cache_hits_total: cached units reused unchanged
//
// All methods are safe to call on a nil *Collector, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/risor-io/phpsandbox/errz"
)

// Namespace prefixes every metric name.
const Namespace = "phpsandbox"

// Sanitize results.
const (
	ResultOK         = "ok"
	ResultViolation  = "violation"
	ResultParseError = "parse_error"
	ResultError      = "error"
)

// Collector records sanitizer and cache metrics.
type Collector struct {
	registry *prometheus.Registry

	sanitizeTotal    *prometheus.CounterVec
	violationsTotal  *prometheus.CounterVec
	sanitizeDuration prometheus.Histogram
	cacheWrites      prometheus.Counter
	cacheHits        prometheus.Counter
}

// New creates a Collector and registers its metrics with registry. A nil
// registry gets a fresh one, available from Registry.
func New(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	c := &Collector{
		registry: registry,
		sanitizeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "sanitize_total",
				Help:      "Total number of sanitizations by result.",
			},
			[]string{"result"},
		),
		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "violations_total",
				Help:      "Total number of policy violations by kind.",
			},
			[]string{"kind"},
		),
		sanitizeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "sanitize_duration_seconds",
				Help:      "Time spent parsing and emitting a program, in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to 2.6s
			},
		),
		cacheWrites: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_writes_total",
				Help:      "Total number of cached units written to disk.",
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cached units reused without a write.",
			},
		),
	}
	registry.MustRegister(
		c.sanitizeTotal,
		c.violationsTotal,
		c.sanitizeDuration,
		c.cacheWrites,
		c.cacheHits,
	)
	// Pre-create label values so that every series is exported from the start.
	for _, result := range []string{ResultOK, ResultViolation, ResultParseError, ResultError} {
		c.sanitizeTotal.WithLabelValues(result)
	}
	for _, kind := range errz.Kinds() {
		c.violationsTotal.WithLabelValues(kind.String())
	}
	return c
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordSanitize records the outcome of one sanitization.
func (c *Collector) RecordSanitize(d time.Duration, err error) {
	if c == nil {
		return
	}
	c.sanitizeDuration.Observe(d.Seconds())
	c.sanitizeTotal.WithLabelValues(Result(err)).Inc()
	if v, ok := errz.AsViolation(err); ok {
		c.violationsTotal.WithLabelValues(v.Kind.String()).Inc()
	}
}

// RecordCacheWrite counts a cached unit written to disk.
func (c *Collector) RecordCacheWrite() {
	if c == nil {
		return
	}
	c.cacheWrites.Inc()
}

// RecordCacheHit counts a cached unit reused unchanged.
func (c *Collector) RecordCacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
}

// Result classifies a sanitization error as a result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errz.IsParseFailure(err):
		return ResultParseError
	}
	if _, ok := errz.AsViolation(err); ok {
		return ResultViolation
	}
	return ResultError
}
