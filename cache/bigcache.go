// Package cache 提供报价结果的本地内存缓存。
// 定价引擎对相同输入逐位返回相同结果，因此缓存命中与重新计算完全等价。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/wyfcoding/bsengine/config"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

// Cache 定义缓存接口
type Cache interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// BigCache 实现了 `Cache` 接口，使用 `allegro/bigcache` 作为底层存储。
type BigCache struct {
	cache *bigcache.BigCache
}

// NewBigCache 根据配置创建缓存。BigCache 对所有项使用统一的 LifeWindow 过期时间。
func NewBigCache(ctx context.Context, cfg config.CacheConfig) (*BigCache, error) {
	lifeWindow := cfg.LifeWindow
	if lifeWindow <= 0 {
		lifeWindow = 10 * time.Minute
	}
	bc := bigcache.DefaultConfig(lifeWindow)
	if cfg.CleanWindow > 0 {
		bc.CleanWindow = cfg.CleanWindow
	}
	if cfg.Shards > 0 {
		bc.Shards = cfg.Shards
	}
	if cfg.MaxEntrySize > 0 {
		bc.MaxEntrySize = cfg.MaxEntrySize
	}
	bc.HardMaxCacheSize = cfg.HardMaxCacheSize
	bc.Verbose = false

	c, err := bigcache.New(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("init bigcache failed: %w", err)
	}
	return &BigCache{cache: c}, nil
}

// Get 获取指定键的值并反序列化到 value，未命中返回 xerrors.ErrCacheMiss。
func (c *BigCache) Get(_ context.Context, key string, value any) error {
	data, err := c.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return xerrors.ErrCacheMiss.WithContext("key", key)
		}
		return err
	}
	return json.Unmarshal(data, value)
}

// Set 将 value 序列化为 JSON 后写入。
func (c *BigCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(key, data)
}

// Delete 删除一个或多个键，键不存在不报错。
func (c *BigCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			return err
		}
	}
	return nil
}

// Exists 检查是否存在指定的键。
func (c *BigCache) Exists(_ context.Context, key string) (bool, error) {
	_, err := c.cache.Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	}
	return false, err
}

// Len 当前缓存条目数。
func (c *BigCache) Len() int {
	return c.cache.Len()
}

// Close 关闭缓存，释放其占用的资源。
func (c *BigCache) Close() error {
	return c.cache.Close()
}

// QuoteKey 由报价类型与五个参数的原始整数值拼成缓存键。
func QuoteKey(kind string, spot, strike, t, rate, vol fixedpoint.Wad) string {
	var b strings.Builder
	b.Grow(len(kind) + 5*24)
	b.WriteString(kind)
	for _, w := range [...]fixedpoint.Wad{spot, strike, t, rate, vol} {
		b.WriteByte('|')
		b.WriteString(w.Raw())
	}
	return b.String()
}
