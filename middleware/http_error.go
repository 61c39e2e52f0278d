package middleware

import (
	"github.com/wyfcoding/bsengine/response"

	"github.com/gin-gonic/gin"
)

// HTTPErrorHandler 返回一个 Gin 中间件，用于统一处理业务错误。
func HTTPErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		if last == nil {
			return
		}

		response.Error(c, last.Err)
	}
}
