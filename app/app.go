// Package app 管理应用的启动、信号处理与优雅关闭。
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// App 应用容器。
type App struct {
	name   string
	logger *slog.Logger
	opts   options
}

// New 创建应用。
func New(name string, logger *slog.Logger, opts ...Option) *App {
	o := options{shutdownTimeout: defaultShutdownTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{name: name, logger: logger, opts: o}
}

// Run 启动全部服务器并阻塞到收到 SIGINT/SIGTERM 或任一服务器失败。
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext 与 Run 相同，但由调用方的 ctx 控制退出。
func (a *App) RunContext(ctx context.Context) error {
	a.logger.Info("application starting", "name", a.name, "pid", os.Getpid())

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range a.opts.servers {
		g.Go(func() error {
			return srv.Start(gctx)
		})
	}

	<-gctx.Done()
	a.logger.Info("shutting down application", "name", a.name)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.opts.shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range a.opts.servers {
		if err := srv.Stop(shutdownCtx); err != nil {
			a.logger.Error("server failed to stop", "error", err)
			errs = append(errs, err)
		}
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("server exited with error", "error", err)
		errs = append(errs, err)
	}

	for i := len(a.opts.cleanups) - 1; i >= 0; i-- {
		a.opts.cleanups[i]()
	}

	a.logger.Info("application shut down", "name", a.name)
	return errors.Join(errs...)
}
