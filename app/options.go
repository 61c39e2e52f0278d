package app

import (
	"time"

	"github.com/wyfcoding/bsengine/server"
)

// Option 应用选项。
type Option func(*options)

type options struct {
	servers         []server.Server
	cleanups        []func()
	shutdownTimeout time.Duration
}

// WithServer 注册随应用启停的服务器。
func WithServer(servers ...server.Server) Option {
	return func(o *options) {
		o.servers = append(o.servers, servers...)
	}
}

// WithCleanup 注册关闭时执行的清理函数，按注册的逆序执行。
func WithCleanup(cleanup func()) Option {
	return func(o *options) {
		if cleanup != nil {
			o.cleanups = append(o.cleanups, cleanup)
		}
	}
}

// WithShutdownTimeout 设置服务器优雅关闭的总等待时间。
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		o.shutdownTimeout = d
	}
}
