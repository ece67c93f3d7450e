package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterval_FirstWaitIsImmediate(t *testing.T) {
	l := NewInterval("search", time.Hour)
	assert.Equal(t, "search", l.Name())

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewInterval_SecondWaitHonoursContext(t *testing.T) {
	l := NewInterval("search", time.Hour)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for search")
}

func TestNewInterval_Disabled(t *testing.T) {
	l := NewInterval("off", 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
}

func TestLimiter_Interval(t *testing.T) {
	assert.Equal(t, 2*time.Second, NewInterval("search", 2*time.Second).Interval())
	assert.Zero(t, NewInterval("off", 0).Interval())
	assert.Zero(t, NewInterval("off", -time.Second).Interval())
}
