package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/bsengine/cache"
	"github.com/wyfcoding/bsengine/config"
)

func TestRegistryAllUp(t *testing.T) {
	c, err := cache.NewBigCache(context.Background(), config.CacheConfig{LifeWindow: time.Minute, Shards: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	r := NewRegistry(time.Second)
	r.Register("engine", EngineChecker())
	r.Register("cache", CacheChecker(c))

	rep := r.Check(context.Background())
	assert.True(t, rep.Healthy())
	assert.Equal(t, map[string]string{"engine": StatusUp, "cache": StatusUp}, rep.Details)
}

func TestRegistryReportsFailure(t *testing.T) {
	r := NewRegistry(0)
	r.Register("engine", EngineChecker())
	r.Register("broken", func(context.Context) error { return errors.New("unreachable") })
	r.Register("ignored", nil)

	rep := r.Check(context.Background())
	assert.False(t, rep.Healthy())
	assert.Equal(t, StatusDown, rep.Status)
	assert.Equal(t, "unreachable", rep.Details["broken"])
	assert.Equal(t, StatusUp, rep.Details["engine"])
	assert.NotContains(t, rep.Details, "ignored")
}

func TestCheckerTimeout(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	r.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	rep := r.Check(context.Background())
	assert.Equal(t, context.DeadlineExceeded.Error(), rep.Details["slow"])
}

func TestCacheCheckerNil(t *testing.T) {
	assert.Error(t, CacheChecker(nil)(context.Background()))
}
