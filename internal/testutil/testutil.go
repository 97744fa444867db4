// Package testutil provides shared test helpers.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewMockClient returns a req client whose transport is intercepted by httpmock.
// Responders are reset when the test ends.
func NewMockClient(t *testing.T) *req.Client {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}
