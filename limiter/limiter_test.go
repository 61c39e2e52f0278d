package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/bsengine/config"
	"golang.org/x/time/rate"
)

func TestKeyedLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	l := NewKeyedLimiter(rate.Every(time.Hour), 1, time.Minute)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)
	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok, "independent bucket per key")
	assert.Equal(t, 2, l.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, l.Sweep())
	assert.Zero(t, l.Len())
}

func TestKeyedLimiterSetLimit(t *testing.T) {
	ctx := context.Background()
	l := NewKeyedLimiter(rate.Every(time.Hour), 1, time.Minute)

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)

	l.SetLimit(rate.Inf, 1)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok, "existing bucket picks up the new limit")
	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok)
}

func TestNewKeyedLimiterFromConfig(t *testing.T) {
	assert.Nil(t, NewKeyedLimiterFromConfig(config.RateLimitConfig{Enabled: false, Rate: 10, Burst: 1}))
	assert.Nil(t, NewKeyedLimiterFromConfig(config.RateLimitConfig{Enabled: true, Rate: 0, Burst: 1}))

	l := NewKeyedLimiterFromConfig(config.RateLimitConfig{Enabled: true, Rate: 1, Burst: 2})
	require.NotNil(t, l)
	ctx := context.Background()
	for range 2 {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)
}

func TestKeyedLimiterScheduleSweep(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewKeyedLimiter(rate.Inf, 1, time.Minute)
	l.now = func() time.Time { return now }
	_, _ = l.Allow(context.Background(), "a")

	c := cron.New()
	_, err := l.ScheduleSweep(c, time.Millisecond)
	assert.ErrorIs(t, err, ErrSweepInterval)
	assert.Empty(t, c.Entries())

	id, err := l.ScheduleSweep(c, time.Minute)
	require.NoError(t, err)
	entry := c.Entry(id)
	require.True(t, entry.Valid())
	assert.Equal(t, cron.Every(time.Minute), entry.Schedule)

	entry.Job.Run()
	assert.Equal(t, 1, l.Len(), "bucket still fresh")

	now = now.Add(2 * time.Minute)
	entry.Job.Run()
	assert.Zero(t, l.Len())
}
