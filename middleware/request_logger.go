package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/bsengine/contextx"
)

// Logger 访问日志中间件。trace_id 由 logging.TraceHandler 注入。
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.InfoContext(c.Request.Context(), "http request",
			"request_id", contextx.GetRequestID(c.Request.Context()),
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"cost", time.Since(start),
		)
	}
}
