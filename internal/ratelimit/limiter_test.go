package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_NoDelay(t *testing.T) {
	l := New(100, 100)
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWait_Unlimited(t *testing.T) {
	l := New(0, 0)
	start := time.Now()
	for range 50 {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWait_ContextCancelled(t *testing.T) {
	// 1 RPS limiter: the second call waits about 1s, and cancelling unblocks it.
	l := New(1, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}

func TestWait_JitterWithinBounds(t *testing.T) {
	// 2 RPS → expected delay ~500ms for the second token after burst exhausted.
	const runs = 3
	const expectedDelay = 500 * time.Millisecond
	const tolerance = 0.25 // allow slightly more than 20% for timer resolution

	for range runs {
		l := New(2, 1)
		require.NoError(t, l.Wait(context.Background()))

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := l.Wait(ctx)
		cancel()
		require.NoError(t, err)

		elapsed := time.Since(start)
		margin := time.Duration(float64(expectedDelay) * tolerance)
		assert.GreaterOrEqual(t, elapsed, expectedDelay-margin, "wait was too short")
		assert.LessOrEqual(t, elapsed, expectedDelay+margin, "wait was too long")
	}
}

func TestWithJitter_Negative(t *testing.T) {
	l := New(1, 1).WithJitter(-1)
	assert.Zero(t, l.jitter)
}
