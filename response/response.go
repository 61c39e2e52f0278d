// Package response 提供了统一的 HTTP 响应封装，支持业务错误码映射及 gRPC 状态码转换。
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/bsengine/xerrors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HTTPStatusProvider 定义了能够提供 HTTP 状态码的错误接口。
type HTTPStatusProvider interface {
	HTTPStatus() int // 返回对应的 HTTP 标准状态码
}

// Success 发送一个标准的成功响应。
// 默认：HTTP 200，业务码 0，消息 "success"。
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"msg":  "success",
		"data": data,
	})
}

// SuccessWithStatus 发送一个带有指定 HTTP 状态码和消息的成功响应。
func SuccessWithStatus(c *gin.Context, status int, msg string, data any) {
	c.JSON(status, gin.H{
		"code": 0,
		"msg":  msg,
		"data": data,
	})
}

// Error 发送智能错误响应。
// 优先识别 xerrors 业务错误并返回其业务码，其次识别 gRPC Status，兜底返回 500。
func Error(c *gin.Context, err error) {
	if err == nil {
		Success(c, nil)
		return
	}

	if xe, ok := xerrors.FromError(err); ok {
		c.JSON(xe.HTTPStatus(), gin.H{
			"code":   xe.Code,
			"msg":    xe.Message,
			"detail": xe.Detail,
		})
		return
	}

	statusCode := http.StatusInternalServerError
	msg := err.Error()

	var sp HTTPStatusProvider
	if errors.As(err, &sp) {
		statusCode = sp.HTTPStatus()
	} else if st, ok := status.FromError(err); ok {
		statusCode = grpcCodeToHTTP(st.Code())
		msg = st.Message()
	}

	c.JSON(statusCode, gin.H{
		"code":   statusCode,
		"msg":    msg,
		"detail": "",
	})
}

// ErrorWithStatus 发送一个带有指定 HTTP 状态码、消息和详情的错误响应。
func ErrorWithStatus(c *gin.Context, status int, msg string, detail string) {
	c.JSON(status, gin.H{
		"code":   status,
		"msg":    msg,
		"detail": detail,
	})
}

// grpcCodeToHTTP 执行 gRPC 到 HTTP 的标准协议映射。
func grpcCodeToHTTP(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.Canceled:
		return 499 // Client Closed Request
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
