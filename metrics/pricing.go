package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 报价结果标签。
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// 缓存事件标签。
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheSet  = "set"
)

// PricingMetrics 定价服务的业务指标。nil 接收者上的方法均为空操作。
type PricingMetrics struct {
	QuotesTotal    *prometheus.CounterVec   // 维度: kind, result
	ClampsTotal    *prometheus.CounterVec   // 维度: leg
	ParityFailures prometheus.Counter       // 平价校验失败次数
	QuoteDuration  *prometheus.HistogramVec // 维度: kind
	CacheEvents    *prometheus.CounterVec   // 维度: event
}

// NewPricingMetrics 在给定注册表上注册定价指标。
func NewPricingMetrics(m *Metrics) *PricingMetrics {
	return &PricingMetrics{
		QuotesTotal: m.NewCounterVec(prometheus.CounterOpts{
			Name: "bs_quotes_total",
			Help: "Black-Scholes quotes served",
		}, []string{"kind", "result"}),
		ClampsTotal: m.NewCounterVec(prometheus.CounterOpts{
			Name: "bs_clamps_total",
			Help: "Option legs clamped to zero after fixed-point underflow",
		}, []string{"leg"}),
		ParityFailures: m.NewCounter(prometheus.CounterOpts{
			Name: "bs_parity_failures_total",
			Help: "Quotes whose put-call parity gap exceeded tolerance",
		}),
		QuoteDuration: m.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bs_quote_duration_seconds",
			Help:    "Engine time per quote",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"kind"}),
		CacheEvents: m.NewCounterVec(prometheus.CounterOpts{
			Name: "bs_cache_events_total",
			Help: "Quote cache hits, misses and writes",
		}, []string{"event"}),
	}
}

// ObserveQuote 记录一次报价的结果与耗时。
func (p *PricingMetrics) ObserveQuote(kind, result string, elapsed time.Duration) {
	if p == nil {
		return
	}
	p.QuotesTotal.WithLabelValues(kind, result).Inc()
	if result == ResultOK {
		p.QuoteDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// Clamp 记录一次截断。
func (p *PricingMetrics) Clamp(leg string) {
	if p == nil {
		return
	}
	p.ClampsTotal.WithLabelValues(leg).Inc()
}

// ParityFailure 记录一次平价校验失败。
func (p *PricingMetrics) ParityFailure() {
	if p == nil {
		return
	}
	p.ParityFailures.Inc()
}

// CacheEvent 记录缓存事件。
func (p *PricingMetrics) CacheEvent(event string) {
	if p == nil {
		return
	}
	p.CacheEvents.WithLabelValues(event).Inc()
}
