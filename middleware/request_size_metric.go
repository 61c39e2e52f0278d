package middleware

import (
	"github.com/wyfcoding/bsengine/metrics"

	"github.com/gin-gonic/gin"
)

// HTTPRequestSizeMiddleware 记录请求体大小指标。
func HTTPRequestSizeMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	if m != nil {
		m.RegisterRequestSizeMetrics()
	}
	return func(c *gin.Context) {
		c.Next()

		if m == nil || c.Request.ContentLength <= 0 {
			return
		}
		m.HTTPRequestSizeBytes.WithLabelValues(c.Request.Method, routePath(c)).Observe(float64(c.Request.ContentLength))
	}
}
