// Package quote 将定点 Black-Scholes 引擎包装为可观测的报价服务：
// 输入解析、缓存、指标、追踪与记录输出都在这一层完成，引擎本身保持纯函数。
package quote

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/wyfcoding/bsengine/algorithm/finance"
	"github.com/wyfcoding/bsengine/algorithm/types"
	"github.com/wyfcoding/bsengine/cache"
	"github.com/wyfcoding/bsengine/config"
	"github.com/wyfcoding/bsengine/contextx"
	"github.com/wyfcoding/bsengine/idgen"
	"github.com/wyfcoding/bsengine/logging"
	"github.com/wyfcoding/bsengine/metrics"
	"github.com/wyfcoding/bsengine/tracing"
	"github.com/wyfcoding/bsengine/xerrors"
	"golang.org/x/sync/errgroup"
)

// Service 报价服务，可并发调用。
type Service struct {
	cfg     atomic.Pointer[config.PricingConfig]
	ids     idgen.Generator
	cache   cache.Cache
	metrics *metrics.PricingMetrics
	sink    Sink
	logger  *logging.Logger
	now     func() time.Time
}

// Option 服务选项。
type Option func(*Service)

// WithCache 启用报价缓存。
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics 启用业务指标。
func WithMetrics(m *metrics.PricingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSink 设置记录输出。
func WithSink(sink Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithLogger 设置日志记录器。
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock 替换时钟，用于测试。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService 创建报价服务。
func NewService(cfg config.PricingConfig, ids idgen.Generator, opts ...Option) *Service {
	s := &Service{
		ids:  ids,
		sink: discardSink{},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 原子替换服务参数，配置热更新时调用。
func (s *Service) UpdateConfig(cfg config.PricingConfig) {
	if cfg.BatchConcurrency < 1 {
		cfg.BatchConcurrency = 1
	}
	if cfg.MaxBatchSize < 1 {
		cfg.MaxBatchSize = 1
	}
	s.cfg.Store(&cfg)
}

// Config 返回当前服务参数。
func (s *Service) Config() config.PricingConfig {
	return *s.cfg.Load()
}

// Price 计算看涨与看跌价格、内在价值并校验平价。
func (s *Service) Price(ctx context.Context, req Request) (*PriceRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "quote.Price")
	defer span.End()
	start := time.Now()

	params, err := req.Params()
	if err != nil {
		return nil, s.fail(ctx, KindPrice, err)
	}

	key := cache.QuoteKey(KindPrice, params.Spot, params.Strike, params.TimeToExpiry, params.Rate, params.Volatility)
	var rec PriceRecord
	cached := s.lookup(ctx, key, &rec)
	if !cached {
		p, err := finance.ComputePrices(params.Spot, params.Strike, params.TimeToExpiry, params.Rate, params.Volatility)
		if err != nil {
			return nil, s.fail(ctx, KindPrice, err)
		}
		rec = PriceRecord{
			Params:         params,
			Call:           p.Call,
			Put:            p.Put,
			Discount:       p.Discount,
			D1:             p.D1,
			D2:             p.D2,
			CallIntrinsic:  finance.CallIntrinsic(params.Spot, params.Strike),
			PutIntrinsic:   finance.PutIntrinsic(params.Spot, params.Strike),
			ParityVerified: finance.ParityGap(p, params.Spot, params.Strike).Lte(finance.ParityTolerance),
			CallClamped:    p.CallClamped,
			PutClamped:     p.PutClamped,
		}
		s.store(ctx, key, rec)
	}
	s.inspect(ctx, &rec)

	rec.Meta = s.meta(ctx, KindPrice, cached)
	tracing.AddTag(ctx, "quote.cached", cached)
	if err := s.emit(ctx, &rec); err != nil {
		return nil, s.fail(ctx, KindPrice, err)
	}
	s.metrics.ObserveQuote(KindPrice, metrics.ResultOK, time.Since(start))
	return &rec, nil
}

// inspect 对截断与平价失败告警。两者对合法输入都不应出现。
func (s *Service) inspect(ctx context.Context, rec *PriceRecord) {
	args := []any{
		"spot", rec.Params.Spot, "strike", rec.Params.Strike, "t", rec.Params.TimeToExpiry,
		"rate", rec.Params.Rate, "vol", rec.Params.Volatility,
	}
	if rec.CallClamped {
		s.metrics.Clamp("call")
		s.logger.WarnContext(ctx, "call price clamped to zero", args...)
	}
	if rec.PutClamped {
		s.metrics.Clamp("put")
		s.logger.WarnContext(ctx, "put price clamped to zero", args...)
	}
	if !rec.ParityVerified {
		s.metrics.ParityFailure()
		s.logger.WarnContext(ctx, "put-call parity check failed", args...)
	}
}

// Greeks 计算指定期权类型的全部希腊字母。
func (s *Service) Greeks(ctx context.Context, req GreeksRequest) (*GreeksRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "quote.Greeks")
	defer span.End()
	start := time.Now()

	optType, ok := types.ParseOptionType(req.OptionType)
	if !ok {
		return nil, s.fail(ctx, KindGreeks, xerrors.ErrInvalidOptionType.WithContext("option_type", req.OptionType))
	}
	params, err := req.Params()
	if err != nil {
		return nil, s.fail(ctx, KindGreeks, err)
	}
	tracing.AddTag(ctx, "quote.option_type", string(optType))

	key := cache.QuoteKey(KindGreeks+":"+string(optType), params.Spot, params.Strike, params.TimeToExpiry, params.Rate, params.Volatility)
	var rec GreeksRecord
	cached := s.lookup(ctx, key, &rec)
	if !cached {
		g, err := finance.ComputeGreeks(optType, params.Spot, params.Strike, params.TimeToExpiry, params.Rate, params.Volatility)
		if err != nil {
			return nil, s.fail(ctx, KindGreeks, err)
		}
		rec = GreeksRecord{
			OptionType: optType,
			Moneyness:  types.ClassifyMoneyness(optType, params.Spot, params.Strike),
			Params:     params,
			Greeks:     g,
		}
		s.store(ctx, key, rec)
	}

	rec.Meta = s.meta(ctx, KindGreeks, cached)
	if s.Config().RecordGreeks {
		if err := s.emit(ctx, &rec); err != nil {
			return nil, s.fail(ctx, KindGreeks, err)
		}
	}
	s.metrics.ObserveQuote(KindGreeks, metrics.ResultOK, time.Since(start))
	return &rec, nil
}

// DValues 计算 d1、d2 与 σ√T。结果廉价，不经过缓存。
func (s *Service) DValues(ctx context.Context, req Request) (*DValuesRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "quote.DValues")
	defer span.End()
	start := time.Now()

	params, err := req.Params()
	if err != nil {
		return nil, s.fail(ctx, KindDValues, err)
	}
	d1, d2, err := finance.ComputeDValues(params.Spot, params.Strike, params.TimeToExpiry, params.Rate, params.Volatility)
	if err != nil {
		return nil, s.fail(ctx, KindDValues, err)
	}
	vst, err := finance.ComputeVolSqrtT(params.TimeToExpiry, params.Volatility)
	if err != nil {
		return nil, s.fail(ctx, KindDValues, err)
	}

	rec := &DValuesRecord{
		Meta:     s.meta(ctx, KindDValues, false),
		Params:   params,
		D1:       d1,
		D2:       d2,
		VolSqrtT: vst,
	}
	if err := s.emit(ctx, rec); err != nil {
		return nil, s.fail(ctx, KindDValues, err)
	}
	s.metrics.ObserveQuote(KindDValues, metrics.ResultOK, time.Since(start))
	return rec, nil
}

// PriceBatch 并发定价，结果顺序与输入一致；任一请求失败时整批失败并返回首个错误。
func (s *Service) PriceBatch(ctx context.Context, reqs []Request) ([]*PriceRecord, error) {
	cfg := s.Config()
	if len(reqs) > cfg.MaxBatchSize {
		return nil, xerrors.ErrBatchTooLarge.WithContext("size", len(reqs)).WithContext("max", cfg.MaxBatchSize)
	}

	ctx, span := tracing.StartSpan(ctx, "quote.PriceBatch")
	defer span.End()
	tracing.AddTag(ctx, "quote.batch_size", len(reqs))

	out := make([]*PriceRecord, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.BatchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := s.Price(gctx, req)
			if err != nil {
				if xe, ok := xerrors.FromError(err); ok {
					return xe.WithContext("index", i)
				}
				return err
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracing.SetError(ctx, err)
		return nil, err
	}
	return out, nil
}

func (s *Service) meta(ctx context.Context, kind string, cached bool) Meta {
	return Meta{
		ID:         idgen.Format(s.ids, "Q"),
		Kind:       kind,
		RequestID:  contextx.GetRequestID(ctx),
		ComputedAt: s.now().UTC(),
		Cached:     cached,
	}
}

func (s *Service) lookup(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dst)
	switch {
	case err == nil:
		s.metrics.CacheEvent(metrics.CacheHit)
		return true
	case errors.Is(err, xerrors.ErrCacheMiss):
		s.metrics.CacheEvent(metrics.CacheMiss)
	default:
		s.logger.WarnContext(ctx, "quote cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "quote cache write failed", "key", key, "error", err)
		return
	}
	s.metrics.CacheEvent(metrics.CacheSet)
}

func (s *Service) emit(ctx context.Context, rec Record) error {
	if err := s.sink.Emit(ctx, rec); err != nil {
		return xerrors.WrapInternal(err, "emit quote record")
	}
	return nil
}

// fail 记录失败：参数错误记为 rejected 并以 INFO 输出，其余记为 error。
func (s *Service) fail(ctx context.Context, kind string, err error) error {
	tracing.SetError(ctx, err)
	if xe, ok := xerrors.FromError(err); ok && xe.Type == xerrors.ErrInvalidArg {
		s.metrics.ObserveQuote(kind, metrics.ResultRejected, 0)
		s.logger.InfoContext(ctx, "quote rejected", "kind", kind, "code", xe.Code, "error", err)
		return err
	}
	s.metrics.ObserveQuote(kind, metrics.ResultError, 0)
	s.logger.ErrorContext(ctx, "quote failed", "kind", kind, "error", err)
	return err
}
