package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/wyfcoding/bsengine/response"

	"github.com/gin-gonic/gin"
)

// Recovery 结构化异常恢复中间件。定点运算的溢出与除零以 panic 报告，在此统一转换为 500。
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "an unexpected error occurred")
				c.Abort()
			}
		}()
		c.Next()
	}
}
