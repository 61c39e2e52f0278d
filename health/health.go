// Package health 提供就绪检查：每个依赖注册一个 Checker，汇总后输出 UP/DOWN。
package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wyfcoding/bsengine/algorithm/finance"
	"github.com/wyfcoding/bsengine/cache"
	"github.com/wyfcoding/bsengine/fixedpoint"
)

// 检查结果状态。
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

const defaultTimeout = 2 * time.Second

// Checker 单项检查，返回 nil 表示健康。
type Checker func(ctx context.Context) error

// Report 汇总结果。
type Report struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

// Healthy 所有检查均通过。
func (r Report) Healthy() bool { return r.Status == StatusUp }

// Registry 已注册的检查项。
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	timeout  time.Duration
}

// NewRegistry 创建注册表，timeout 为单项检查的超时。
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Registry{checkers: make(map[string]Checker), timeout: timeout}
}

// Register 以名称注册检查项，同名覆盖。
func (r *Registry) Register(name string, c Checker) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = c
}

// Check 并发执行全部检查项。
func (r *Registry) Check(ctx context.Context) Report {
	r.mu.RLock()
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	results := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		r.mu.RLock()
		c := r.checkers[name]
		r.mu.RUnlock()
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			if err := c(cctx); err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = StatusUp
		}()
	}
	wg.Wait()

	report := Report{Status: StatusUp, Details: make(map[string]string, len(names))}
	for i, name := range names {
		report.Details[name] = results[i]
		if results[i] != StatusUp {
			report.Status = StatusDown
		}
	}
	return report
}

// EngineChecker 对一组固定输入定价并核对平价与参考值。
func EngineChecker() Checker {
	spot := fixedpoint.WadFromInt(100)
	strike := fixedpoint.WadFromInt(100)
	t := fixedpoint.One()
	rate := fixedpoint.MustParseWad("0.05")
	vol := fixedpoint.MustParseWad("0.2")
	lo := fixedpoint.MustParseWad("10.4505")
	hi := fixedpoint.MustParseWad("10.4506")

	return func(context.Context) error {
		p, err := finance.ComputePrices(spot, strike, t, rate, vol)
		if err != nil {
			return err
		}
		if p.Call.Lt(lo) || p.Call.Gt(hi) {
			return fmt.Errorf("canary call price %s out of range", p.Call)
		}
		if gap := finance.ParityGap(p, spot, strike); gap.Gt(finance.ParityTolerance) {
			return fmt.Errorf("canary parity gap %s exceeds tolerance", gap)
		}
		return nil
	}
}

// CacheChecker 对缓存做一次写读往返。
func CacheChecker(c cache.Cache) Checker {
	const checkKey = "health:check"
	return func(ctx context.Context) error {
		if c == nil {
			return errors.New("cache is nil")
		}
		if err := c.Set(ctx, checkKey, time.Now().Unix()); err != nil {
			return err
		}
		var v int64
		return c.Get(ctx, checkKey, &v)
	}
}
