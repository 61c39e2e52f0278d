// Package limiter 提供基于令牌桶的本地限流器。
package limiter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/wyfcoding/bsengine/config"
	"golang.org/x/time/rate"
)

// ErrSweepInterval 回收间隔非法。
var ErrSweepInterval = errors.New("sweep interval must be at least one second")

// Limiter 接口定义了限流器的通用行为。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error) // 检查是否允许请求通过。
}

// KeyedLimiter 为每个 key（通常是客户端 IP）维护独立的令牌桶，空闲超过 ttl 的桶被回收。
type KeyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	r       rate.Limit
	b       int
	ttl     time.Duration
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter 创建按 key 限流的限流器。
func NewKeyedLimiter(r rate.Limit, b int, ttl time.Duration) *KeyedLimiter {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &KeyedLimiter{
		buckets: make(map[string]*bucket),
		r:       r,
		b:       b,
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewKeyedLimiterFromConfig 按配置创建按 IP 限流的限流器，未启用或速率为零时返回 nil。
func NewKeyedLimiterFromConfig(cfg config.RateLimitConfig) *KeyedLimiter {
	if !cfg.Enabled || cfg.Rate <= 0 {
		return nil
	}
	return NewKeyedLimiter(rate.Limit(cfg.Rate), cfg.Burst, 0)
}

// Allow 检查 key 对应的令牌桶。
func (l *KeyedLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	bk, ok := l.buckets[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(l.r, l.b)}
		l.buckets[key] = bk
	}
	bk.lastSeen = now
	l.mu.Unlock()
	return bk.limiter.AllowN(now, 1), nil
}

// Sweep 回收空闲的令牌桶，返回回收数量。
func (l *KeyedLimiter) Sweep() int {
	cutoff := l.now().Add(-l.ttl)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, bk := range l.buckets {
		if bk.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Len 当前维护的令牌桶数量。
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// SetLimit 调整速率与容量，已有的令牌桶同步更新。
func (l *KeyedLimiter) SetLimit(r rate.Limit, b int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r, l.b = r, b
	for _, bk := range l.buckets {
		bk.limiter.SetLimit(r)
		bk.limiter.SetBurst(b)
	}
}

// ScheduleSweep 在 cron 调度器上注册周期回收任务，every 不足一秒时返回 ErrSweepInterval。
func (l *KeyedLimiter) ScheduleSweep(c *cron.Cron, every time.Duration) (cron.EntryID, error) {
	if every < time.Second {
		return 0, ErrSweepInterval
	}
	return c.Schedule(cron.Every(every), cron.FuncJob(func() { l.Sweep() })), nil
}
