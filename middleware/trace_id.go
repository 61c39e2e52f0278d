package middleware

import (
	"github.com/wyfcoding/bsengine/tracing"

	"github.com/gin-gonic/gin"
)

// HeaderXTraceID 定义 Trace ID 响应头名称。
const HeaderXTraceID = "X-Trace-ID"

// TraceIDHeader 返回一个 Gin 中间件，用于注入 Trace ID 响应头。
func TraceIDHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := tracing.GetTraceID(c.Request.Context())
		if traceID != "" {
			c.Header(HeaderXTraceID, traceID)
		}

		c.Next()

		if traceID == "" {
			traceID = tracing.GetTraceID(c.Request.Context())
			if traceID != "" && !c.Writer.Written() {
				c.Header(HeaderXTraceID, traceID)
			}
		}
	}
}
