package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/wyfcoding/bsengine/cache"
	"github.com/wyfcoding/bsengine/config"
	"github.com/wyfcoding/bsengine/health"
	"github.com/wyfcoding/bsengine/idgen"
	"github.com/wyfcoding/bsengine/limiter"
	"github.com/wyfcoding/bsengine/logging"
	"github.com/wyfcoding/bsengine/metrics"
	"github.com/wyfcoding/bsengine/middleware"
	"github.com/wyfcoding/bsengine/quote"
	"github.com/wyfcoding/bsengine/response"
	"github.com/wyfcoding/bsengine/server"
	"github.com/wyfcoding/bsengine/tracing"
	"golang.org/x/time/rate"
)

const (
	defaultMetricsPath = "/metrics"
	sweepInterval      = time.Minute
)

// Builder 按配置组装报价服务。
type Builder struct {
	serviceName   string
	version       string
	configPath    string
	cfg           *config.Config
	ginMiddleware []gin.HandlerFunc
	appOpts       []Option
}

// NewBuilder 创建构建器。
func NewBuilder(serviceName string) *Builder {
	return &Builder{serviceName: serviceName, version: "dev"}
}

// WithConfigPath 从 TOML 文件加载配置并启用热更新。
func (b *Builder) WithConfigPath(path string) *Builder {
	b.configPath = path
	return b
}

// WithConfig 直接使用已加载的配置，不监听文件变更。
func (b *Builder) WithConfig(cfg *config.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithVersion 设置写入 build_info 指标的版本号。
func (b *Builder) WithVersion(version string) *Builder {
	b.version = version
	return b
}

// WithGinMiddleware 追加业务中间件，位于内置中间件之后。
func (b *Builder) WithGinMiddleware(mw ...gin.HandlerFunc) *Builder {
	b.ginMiddleware = append(b.ginMiddleware, mw...)
	return b
}

// Build 组装 App。失败时已创建的资源会被释放。
func (b *Builder) Build(ctx context.Context) (_ *App, err error) {
	cfg, err := b.loadConfig()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			b.cleanup()
		}
	}()

	logger := b.initLogger(cfg)
	config.PrintWithMask(cfg)

	if err := b.initTracing(ctx, cfg, logger); err != nil {
		return nil, err
	}
	m := b.initMetrics(cfg)

	ids, err := idgen.NewGenerator(cfg.IDGen)
	if err != nil {
		return nil, fmt.Errorf("init id generator: %w", err)
	}

	checks := health.NewRegistry(0)
	checks.Register("engine", health.EngineChecker())

	svcOpts := []quote.Option{
		quote.WithLogger(logger),
		quote.WithMetrics(metrics.NewPricingMetrics(m)),
		quote.WithSink(quote.NewLogSink(logger)),
	}
	if cfg.Cache.Enabled {
		c, err := cache.NewBigCache(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		b.appOpts = append(b.appOpts, WithCleanup(func() { _ = c.Close() }))
		svcOpts = append(svcOpts, quote.WithCache(c))
		checks.Register("cache", health.CacheChecker(c))
	}
	svc := quote.NewService(cfg.Pricing, ids, svcOpts...)

	rl, err := b.initRateLimit(cfg, logger)
	if err != nil {
		return nil, err
	}

	config.RegisterReloadHook(func(next *config.Config) {
		svc.UpdateConfig(next.Pricing)
		if rl != nil && next.RateLimit.Rate > 0 {
			rl.SetLimit(rate.Limit(next.RateLimit.Rate), next.RateLimit.Burst)
		}
		logger.Info("pricing config reloaded",
			"batch_concurrency", next.Pricing.BatchConcurrency,
			"max_batch_size", next.Pricing.MaxBatchSize)
	})

	engine := b.newEngine(cfg, logger, m, ids, rl, checks)
	quote.NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))

	addr := net.JoinHostPort(cfg.Server.HTTP.Addr, strconv.Itoa(cfg.Server.HTTP.Port))
	srv := server.NewGinServer(engine, addr, logger.Logger, server.Options{
		ReadTimeout:       cfg.Server.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:       cfg.Server.HTTP.IdleTimeout,
	})
	b.appOpts = append(b.appOpts, WithServer(srv))

	return New(b.serviceName, logger.Logger, b.appOpts...), nil
}

func (b *Builder) loadConfig() (*config.Config, error) {
	if b.cfg != nil {
		return b.cfg, nil
	}
	if b.configPath == "" {
		return nil, errors.New("config path is empty")
	}
	cfg := new(config.Config)
	if err := config.Load(b.configPath, cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (b *Builder) initLogger(cfg *config.Config) *logging.Logger {
	return logging.Init(logging.Config{
		Service:    b.serviceName,
		Module:     "bspricer",
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Console:    cfg.Log.Console,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
}

func (b *Builder) initTracing(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	if !cfg.Tracing.Enabled {
		return nil
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = b.serviceName
	}
	shutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	b.appOpts = append(b.appOpts, WithCleanup(func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", "error", err)
		}
	}))
	b.ginMiddleware = append([]gin.HandlerFunc{
		middleware.TracingMiddleware(cfg.Tracing.ServiceName),
		middleware.TraceIDHeader(),
	}, b.ginMiddleware...)
	return nil
}

func (b *Builder) initMetrics(cfg *config.Config) *metrics.Metrics {
	m := metrics.NewMetrics(b.serviceName)
	m.RegisterBuildInfo(b.serviceName, b.version)
	m.RegisterRequestSizeMetrics()
	if cfg.Metrics.Enabled && cfg.Metrics.Port != "" {
		b.appOpts = append(b.appOpts, WithCleanup(m.ExposeHTTP(cfg.Metrics.Port, cfg.Metrics.Path)))
	}
	return m
}

func (b *Builder) initRateLimit(cfg *config.Config, logger *logging.Logger) (*limiter.KeyedLimiter, error) {
	rl := limiter.NewKeyedLimiterFromConfig(cfg.RateLimit)
	if rl == nil {
		return nil, nil
	}
	sched := cron.New()
	if _, err := rl.ScheduleSweep(sched, sweepInterval); err != nil {
		return nil, fmt.Errorf("schedule limiter sweep: %w", err)
	}
	sched.Start()
	b.appOpts = append(b.appOpts, WithCleanup(func() {
		<-sched.Stop().Done()
		logger.Debug("limiter sweep scheduler stopped")
	}))
	return rl, nil
}

func (b *Builder) newEngine(cfg *config.Config, logger *logging.Logger, m *metrics.Metrics, ids idgen.Generator, rl *limiter.KeyedLimiter, checks *health.Registry) *gin.Engine {
	if cfg.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	mw := []gin.HandlerFunc{
		middleware.Recovery(logger.Logger),
		middleware.RequestID(ids),
	}
	mw = append(mw, b.ginMiddleware...)
	mw = append(mw,
		middleware.Logger(logger.Logger),
		middleware.HTTPMetricsMiddlewareWithOptions(m, middleware.MetricsOptions{SkipPaths: []string{"/sys/health"}}),
		middleware.HTTPRequestSizeMiddleware(m),
		middleware.MaxBodyBytes(cfg.Server.HTTP.MaxBodyBytes),
	)
	if rl != nil {
		mw = append(mw, middleware.RateLimitMiddleware(rl))
	}
	mw = append(mw, middleware.HTTPErrorHandler())

	engine := server.NewDefaultGinEngine(mw...)
	b.registerAdminRoutes(engine, cfg, m, checks)
	return engine
}

func (b *Builder) registerAdminRoutes(engine *gin.Engine, cfg *config.Config, m *metrics.Metrics, checks *health.Registry) {
	sys := engine.Group("/sys")
	sys.GET("/health", func(c *gin.Context) {
		rep := checks.Check(c.Request.Context())
		data := gin.H{
			"status":    rep.Status,
			"details":   rep.Details,
			"service":   b.serviceName,
			"version":   b.version,
			"timestamp": time.Now().Unix(),
		}
		if !rep.Healthy() {
			response.SuccessWithStatus(c, http.StatusServiceUnavailable, "unhealthy", data)
			return
		}
		response.Success(c, data)
	})

	// 未单独暴露指标端口时挂载到业务端口。
	if cfg.Metrics.Enabled && cfg.Metrics.Port == "" {
		path := cfg.Metrics.Path
		if path == "" {
			path = defaultMetricsPath
		}
		engine.GET(path, gin.WrapH(m.Handler()))
	}
}

func (b *Builder) cleanup() {
	var o options
	for _, opt := range b.appOpts {
		opt(&o)
	}
	for i := len(o.cleanups) - 1; i >= 0; i-- {
		o.cleanups[i]()
	}
	b.appOpts = nil
}
