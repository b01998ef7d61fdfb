package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/internal/token"
	"github.com/stretchr/testify/require"
)

func TestRecordSanitize(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := New(registry)
	require.Same(t, registry, c.Registry())

	c.RecordSanitize(time.Millisecond, nil)
	c.RecordSanitize(time.Millisecond, nil)
	c.RecordSanitize(time.Millisecond, errz.Violationf(errz.DisallowedCallable, token.NoPos, "nope"))
	c.RecordSanitize(time.Millisecond, &errz.ParseFailure{Message: "Found no tokens"})
	c.RecordSanitize(time.Millisecond, errors.New("boom"))

	require.Equal(t, 2.0, testutil.ToFloat64(c.sanitizeTotal.WithLabelValues(ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.sanitizeTotal.WithLabelValues(ResultViolation)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.sanitizeTotal.WithLabelValues(ResultParseError)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.sanitizeTotal.WithLabelValues(ResultError)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.violationsTotal.WithLabelValues("disallowed-callable")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.violationsTotal.WithLabelValues("disallowed-type")))
	require.Equal(t, 1, testutil.CollectAndCount(c.sanitizeDuration))
}

func TestRecordCache(t *testing.T) {
	c := New(nil)
	require.NotNil(t, c.Registry())
	c.RecordCacheWrite()
	c.RecordCacheHit()
	c.RecordCacheHit()
	require.Equal(t, 1.0, testutil.ToFloat64(c.cacheWrites))
	require.Equal(t, 2.0, testutil.ToFloat64(c.cacheHits))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.RecordSanitize(time.Second, nil)
		c.RecordCacheWrite()
		c.RecordCacheHit()
	})
	require.Nil(t, c.Registry())
}

func TestResult(t *testing.T) {
	require.Equal(t, ResultOK, Result(nil))
	require.Equal(t, ResultViolation, Result(errz.Violationf(errz.NamespaceScope, token.NoPos, "x")))
	require.Equal(t, ResultParseError, Result(errz.NewParseFailure(errors.New("syntax"))))
	require.Equal(t, ResultError, Result(errors.New("io")))
}
