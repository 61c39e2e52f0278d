package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingMetrics(t *testing.T) {
	m := NewMetrics("test")
	p := NewPricingMetrics(m)

	p.ObserveQuote("price", ResultOK, time.Millisecond)
	p.ObserveQuote("price", ResultRejected, 0)
	p.Clamp("call")
	p.ParityFailure()
	p.CacheEvent(CacheHit)
	p.CacheEvent(CacheHit)

	assert.InDelta(t, 1, testutil.ToFloat64(p.QuotesTotal.WithLabelValues("price", ResultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.QuotesTotal.WithLabelValues("price", ResultRejected)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.ClampsTotal.WithLabelValues("call")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.ParityFailures), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(p.CacheEvents.WithLabelValues(CacheHit)), 0)

	var nilMetrics *PricingMetrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveQuote("price", ResultOK, 0)
		nilMetrics.Clamp("put")
		nilMetrics.ParityFailure()
		nilMetrics.CacheEvent(CacheMiss)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics("test")
	m.RegisterBuildInfo("bspricer", "v1")
	m.RegisterBuildInfo("ignored", "v2")
	m.RegisterRequestSizeMetrics()
	m.HTTPRequestSizeBytes.WithLabelValues("POST", "/x").Observe(256)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `build_info{service="bspricer",version="v1"} 1`)
	assert.NotContains(t, body, "ignored")
	assert.Contains(t, body, "http_server_request_size_bytes")
}
