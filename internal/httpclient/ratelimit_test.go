package httpclient

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/statuspane/internal/ratelimit"
)

func TestAttachRateLimit_TransportError_NoPanic(t *testing.T) {
	client, err := New(Options{}, nil, false)
	require.NoError(t, err)
	AttachRateLimit(client, ratelimit.New(1000, 1000), RetryOptions{Count: 1, TransportInterval: time.Millisecond})

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	// The retry condition receives a *req.Response whose embedded *http.Response is nil.
	_, err = client.R().Get("https://example.com/")
	assert.Error(t, err)
}

func TestAttachRateLimit_TransportError_Retries(t *testing.T) {
	client, err := New(Options{}, nil, false)
	require.NoError(t, err)
	AttachRateLimit(client, ratelimit.New(1000, 1000), RetryOptions{TransportInterval: time.Millisecond})

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	callCount := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(*http.Request) (*http.Response, error) {
			callCount++
			if callCount < 3 {
				return nil, errors.New("connection reset by peer")
			}
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	resp, err := client.R().Get("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, callCount, "expected 2 failures then 1 success")
}

func TestAttachRateLimit_RetriesDisabled(t *testing.T) {
	client, err := New(Options{}, nil, false)
	require.NoError(t, err)
	AttachRateLimit(client, ratelimit.New(1000, 1000), RetryOptions{Count: -1})

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	callCount := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(*http.Request) (*http.Response, error) {
			callCount++
			return nil, errors.New("connection reset by peer")
		})

	_, err = client.R().Get("https://example.com/")
	assert.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestAttachRateLimit_ContextCancel_NoRetry(t *testing.T) {
	client, err := New(Options{}, nil, false)
	require.NoError(t, err)
	AttachRateLimit(client, ratelimit.New(1000, 1000), RetryOptions{TransportInterval: time.Millisecond})

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	callCount := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(*http.Request) (*http.Response, error) {
			callCount++
			return nil, context.Canceled
		})

	_, err = client.R().SetContext(context.Background()).Get("https://example.com/")
	assert.Error(t, err)
	assert.Equal(t, 1, callCount, "context.Canceled must not be retried")
}

func TestAttachRateLimit_TransportError_RetriesOnlyIdempotent(t *testing.T) {
	tests := []struct {
		method string
		want   int
	}{
		{http.MethodGet, 3},
		{http.MethodPut, 3},
		{http.MethodDelete, 3},
		{http.MethodPost, 1},
		{http.MethodPatch, 1},
	}
	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			client, err := New(Options{}, nil, false)
			require.NoError(t, err)
			AttachRateLimit(client, ratelimit.New(1000, 1000), RetryOptions{Count: 2, TransportInterval: time.Millisecond})

			httpmock.ActivateNonDefault(client.GetClient())
			t.Cleanup(httpmock.DeactivateAndReset)

			callCount := 0
			httpmock.RegisterResponder(tc.method, "https://example.com/draw",
				func(*http.Request) (*http.Response, error) {
					callCount++
					return nil, errors.New("connection reset by peer")
				})

			_, err = client.R().Send(tc.method, "https://example.com/draw")
			assert.Error(t, err)
			assert.Equal(t, tc.want, callCount)
		})
	}
}

func TestAttachRateLimit_PostDroppedAfterReceipt(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	var received atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			if _, err := http.ReadRequest(bufio.NewReader(conn)); err == nil {
				received.Add(1)
			}
			_ = conn.Close()
		}
	}()

	client, err := New(Options{}, nil, false)
	require.NoError(t, err)
	AttachRateLimit(client, ratelimit.New(1000, 1000), RetryOptions{Count: 3, TransportInterval: time.Millisecond})

	_, err = client.R().SetBodyJsonString(`{"activityId":7}`).Post("http://" + ln.Addr().String() + "/draw")
	require.Error(t, err)
	assert.Equal(t, int32(1), received.Load())
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"empty", "", retryAfterFallback},
		{"seconds", "2", 2 * time.Second},
		{"capped", "3600", retryAfterCap},
		{"garbage", "soon", retryAfterFallback},
		{"past date", "Mon, 02 Jan 2006 15:04:05 GMT", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseRetryAfter(tc.header))
		})
	}
}
