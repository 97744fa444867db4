package httpclient

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/imroc/req/v3"

	"github.com/tbckr/statuspane/internal/ratelimit"
)

const (
	// DefaultRetries is the retry budget used when RetryOptions.Count is zero.
	DefaultRetries = 3
	// retryAfterFallback is used when Retry-After header is absent or unparseable.
	retryAfterFallback = 5 * time.Second
	// retryAfterCap is the maximum sleep duration honoured from a Retry-After header.
	retryAfterCap = 60 * time.Second
	// defaultTransportRetryInterval is the wait between retries on transient connection errors.
	defaultTransportRetryInterval = 1 * time.Second
)

// RetryOptions configures AttachRateLimit. A negative Count disables retries.
type RetryOptions struct {
	Count             int
	TransportInterval time.Duration
}

// AttachRateLimit hooks a Limiter onto the client's request pipeline.
//
// Every outbound request first waits on the limiter. Responses with HTTP 429
// are retried after the Retry-After delay (capped at retryAfterCap), and
// transient transport errors are retried after TransportInterval, but only for
// idempotent methods: a POST may already have reached the server when the
// connection dropped. Context cancellation and deadlines are never retried.
func AttachRateLimit(client *req.Client, limiter *ratelimit.Limiter, opts RetryOptions) {
	client.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		return limiter.Wait(r.Context())
	})

	count := opts.Count
	switch {
	case count < 0:
		return
	case count == 0:
		count = DefaultRetries
	}
	interval := opts.TransportInterval
	if interval <= 0 {
		interval = defaultTransportRetryInterval
	}

	client.SetCommonRetryCount(count)
	client.AddCommonRetryCondition(func(resp *req.Response, _ error) bool {
		return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusTooManyRequests
	})
	client.AddCommonRetryCondition(func(resp *req.Response, err error) bool {
		if err == nil || !idempotent(resp) {
			return false
		}
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	})
	client.SetCommonRetryInterval(func(resp *req.Response, _ int) time.Duration {
		if resp == nil || resp.Response == nil {
			return interval
		}
		return parseRetryAfter(resp.Header.Get("Retry-After"))
	})
}

// idempotent reports whether resp belongs to a request that is safe to send twice.
func idempotent(resp *req.Response) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	method := resp.Request.Method
	if method == "" && resp.Request.RawRequest != nil {
		method = resp.Request.RawRequest.Method
	}
	switch method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete, http.MethodTrace:
		return true
	}
	return false
}

// parseRetryAfter parses a Retry-After header value (integer seconds or HTTP-date)
// and returns a capped sleep duration.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return retryAfterFallback
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return min(time.Duration(secs)*time.Second, retryAfterCap)
	}
	if t, err := http.ParseTime(header); err == nil {
		return min(max(time.Until(t), 0), retryAfterCap)
	}
	return retryAfterFallback
}
