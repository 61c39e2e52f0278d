// Package server 提供 HTTP 服务器的启动与优雅关闭封装。
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinServer 以 http.Server 运行 Gin 引擎。
type GinServer struct {
	server *http.Server
	addr   string
	logger *slog.Logger
	opts   Options
}

// NewGinServer 创建服务器，options 至多取第一个。
func NewGinServer(engine *gin.Engine, addr string, logger *slog.Logger, options ...Options) *GinServer {
	opts := Options{ShutdownTimeout: DefaultShutdownTimeout}
	if len(options) > 0 {
		opts = options[0]
		if opts.ShutdownTimeout <= 0 {
			opts.ShutdownTimeout = DefaultShutdownTimeout
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GinServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       opts.IdleTimeout,
		},
		addr:   addr,
		logger: logger,
		opts:   opts,
	}
}

// Start 监听并服务，ctx 取消后在 ShutdownTimeout 内优雅关闭。
func (s *GinServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve 在给定监听器上服务，便于测试使用随机端口。
func (s *GinServer) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting gin server", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("gin server stopping due to context cancellation")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Stop 优雅关闭。
func (s *GinServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping gin server gracefully")
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
