package server

import (
	"context"
	"time"
)

// DefaultShutdownTimeout 优雅关闭的默认等待时间。
const DefaultShutdownTimeout = 5 * time.Second

// Server 服务器生命周期契约。
type Server interface {
	// Start 阻塞运行，直到 ctx 取消或监听失败。
	Start(ctx context.Context) error
	// Stop 等待进行中的请求完成后关闭。
	Stop(ctx context.Context) error
}

// Options HTTP 服务器运行参数，零值字段使用 net/http 默认行为。
type Options struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}
