package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/bsengine/contextx"
	"github.com/wyfcoding/bsengine/idgen"
)

// HeaderXRequestID 请求 ID 头。
const HeaderXRequestID = "X-Request-ID"

// RequestID 返回一个用于生成或传递请求 ID 的 Gin 中间件。
func RequestID(gen idgen.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" {
			requestID = idgen.Format(gen, "R")
		}

		ctx := contextx.WithRequestID(c.Request.Context(), requestID)
		ctx = contextx.WithIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderXRequestID, requestID)

		c.Next()
	}
}
