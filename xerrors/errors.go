// Package xerrors 提供带错误码、堆栈与上下文的结构化错误，并映射到 HTTP / gRPC 状态码.
package xerrors

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"runtime"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorType 错误的大类
type ErrorType uint

const (
	ErrUnknown ErrorType = iota
	ErrInternal
	ErrInvalidArg
	ErrNotFound
	ErrLimitExceeded
)

// Error 增强型错误结构
type Error struct {
	Type    ErrorType      `json:"type"`
	Code    int            `json:"code"`    // 业务自定义错误码
	Message string         `json:"message"` // 对外展示的友好消息
	Detail  string         `json:"detail"`  // 对内调试的详细信息
	Cause   error          `json:"-"`       // 原始错误
	Stack   []string       `json:"stack,omitempty"`
	Context map[string]any `json:"context,omitempty"` // 上下文数据 (请求 ID、参数等)
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %d: %s (Cause: %v)", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %d: %s", e.Type, e.Code, e.Message)
}

// Unwrap 实现 Go 1.13 解包接口
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误码匹配，使包装后的副本仍能与哨兵错误比较.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

func (t ErrorType) String() string {
	names := [...]string{"Unknown", "Internal", "InvalidArg", "NotFound", "LimitExceeded"}
	if int(t) >= len(names) {
		return "Unknown"
	}
	return names[t]
}

// New 创建新错误并自动捕获堆栈
func New(errType ErrorType, code int, message string, detail string, cause error) *Error {
	e := &Error{
		Type:    errType,
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
		Context: make(map[string]any),
	}
	e.captureStack(3)
	return e
}

// newSentinel 创建包级哨兵错误，不捕获堆栈.
func newSentinel(errType ErrorType, code int, message, detail string) *Error {
	return &Error{Type: errType, Code: code, Message: message, Detail: detail}
}

// captureStack 捕获当前调用栈 (深度限制 10 层)
func (e *Error) captureStack(skip int) {
	const depth = 10
	var pcs [depth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		e.Stack = append(e.Stack, fmt.Sprintf("%s:%d (%s)", frame.File, frame.Line, frame.Function))
		if !more || len(e.Stack) >= depth {
			break
		}
	}
}

// clone 复制错误，上下文独立，堆栈在调用点重新捕获.
func (e *Error) clone() *Error {
	c := *e
	c.Context = make(map[string]any, len(e.Context))
	maps.Copy(c.Context, e.Context)
	c.Stack = nil
	c.captureStack(4)
	return &c
}

// WithContext 返回附加了上下文键值的副本，原错误 (通常是哨兵) 保持不变.
func (e *Error) WithContext(key string, value any) *Error {
	c := e.clone()
	c.Context[key] = value
	return c
}

// WithDetail 返回替换了调试详情的副本.
func (e *Error) WithDetail(format string, args ...any) *Error {
	c := e.clone()
	c.Detail = fmt.Sprintf(format, args...)
	return c
}

func Internal(msg string, cause error) *Error {
	return New(ErrInternal, 500, msg, "", cause)
}

func InvalidArg(msg string) *Error {
	return New(ErrInvalidArg, 400, msg, "", nil)
}

// Wrap 包装现有错误. 若 err 链中已有 *Error，则继承其类型与错误码.
func Wrap(err error, errType ErrorType, msg string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		w := e.clone()
		w.Message = msg
		w.Cause = err
		return w
	}
	return New(errType, int(errType), msg, "", err)
}

// WrapInternal 快速包装内部错误
func WrapInternal(err error, msg string) *Error {
	return Wrap(err, ErrInternal, msg)
}

// HTTPStatus 自动映射 HTTP 状态码
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case ErrInvalidArg:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode 自动映射 gRPC 状态码
func (e *Error) GRPCCode() codes.Code {
	switch e.Type {
	case ErrInvalidArg:
		return codes.InvalidArgument
	case ErrNotFound:
		return codes.NotFound
	case ErrLimitExceeded:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

// ToGRPCStatus 将 Error 转换为 gRPC Status
func (e *Error) ToGRPCStatus() *status.Status {
	return status.New(e.GRPCCode(), e.Message)
}

// FromError 沿错误链查找 *Error
func FromError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
