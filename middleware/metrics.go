// Package middleware 提供了 Gin 的通用中间件实现。
package middleware

import (
	"strconv"
	"time"

	"github.com/wyfcoding/bsengine/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsOptions 定义指标中间件的可选参数。
type MetricsOptions struct {
	SkipPaths []string
}

// HTTPMetricsMiddleware 返回一个用于采集 HTTP 请求指标的 Gin 中间件。
func HTTPMetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return HTTPMetricsMiddlewareWithOptions(m, MetricsOptions{})
}

// HTTPMetricsMiddlewareWithOptions 返回一个可配置的 HTTP 指标采集中间件。
func HTTPMetricsMiddlewareWithOptions(m *metrics.Metrics, opts MetricsOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, path := range opts.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		path := routePath(c)
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		inFlight := m.HTTPInFlight.WithLabelValues(c.Request.Method, path)
		inFlight.Inc()
		defer inFlight.Dec()

		start := time.Now()
		c.Next()

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func routePath(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	if c.Request.URL.Path != "" {
		return c.Request.URL.Path
	}
	return "unknown"
}
