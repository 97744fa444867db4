// Package ratelimit gates outbound requests with a jittered token bucket.
package ratelimit

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// DefaultJitter spreads each wait by ±20%.
const DefaultJitter = 0.20

// Limiter wraps a token-bucket rate limiter and adds jitter to wait intervals.
type Limiter struct {
	inner  *rate.Limiter
	jitter float64
}

// New creates a Limiter with the given requests-per-second rate and burst capacity.
// A non-positive rps disables limiting.
func New(rps float64, burst int) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Limiter{inner: rate.NewLimiter(limit, max(burst, 1)), jitter: DefaultJitter}
}

// WithJitter returns l with the jitter fraction set; 0 disables jitter.
func (l *Limiter) WithJitter(fraction float64) *Limiter {
	l.jitter = max(fraction, 0)
	return l
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	res := l.inner.Reserve()
	if !res.OK() {
		return ctx.Err()
	}

	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	if l.jitter > 0 {
		jitter := time.Duration(float64(delay) * l.jitter * (rand.Float64()*2 - 1)) //nolint:gosec // non-cryptographic random is fine for jitter
		delay = max(0, delay+jitter)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
