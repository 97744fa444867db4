package probe_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/statuspane/internal/apperr"
	"github.com/tbckr/statuspane/internal/probe"
	"github.com/tbckr/statuspane/internal/testutil"
)

func TestRun_OK(t *testing.T) {
	client := testutil.NewMockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://api.example.com/health",
		httpmock.NewStringResponder(http.StatusOK, `{"status":"up"}`))

	got, err := probe.NewService(client, testutil.NopLogger()).Run(context.Background(), "https://api.example.com/health")
	require.NoError(t, err)
	assert.Equal(t, &probe.Result{URL: "https://api.example.com/health", OK: true, Status: 200}, got)
}

func TestRun_Described(t *testing.T) {
	client := testutil.NewMockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://api.example.com/draw",
		httpmock.NewStringResponder(http.StatusConflict, `{"code":"NO_CHANCES","message":"no draws left"}`))

	got, err := probe.NewService(client, testutil.NopLogger()).Run(context.Background(), "https://api.example.com/draw")
	require.NoError(t, err)
	assert.False(t, got.OK)
	assert.Equal(t, 409, got.Status)
	assert.Equal(t, "NO_CHANCES", got.Code)
	assert.Equal(t, "no draws left", got.Message)
}

func TestRun_TransportError(t *testing.T) {
	client := testutil.NewMockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://api.example.com/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := probe.NewService(client, testutil.NopLogger()).Run(context.Background(), "https://api.example.com/")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
}

func TestValidateURL(t *testing.T) {
	for _, good := range []string{"https://example.com", "http://127.0.0.1:8080/api?x=1"} {
		assert.NoError(t, probe.ValidateURL(good), good)
	}
	for _, bad := range []string{"", "example.com", "ftp://example.com/", "/relative", "https://"} {
		err := probe.ValidateURL(bad)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	}
}

func TestMultiResult_Output(t *testing.T) {
	m := &probe.MultiResult{Results: []*probe.Result{
		{URL: "https://a.example/", OK: true, Status: 200},
		{URL: "https://b.example/", Status: 404, Code: "PARSE_ERROR", Message: "HTTP 404: Not Found"},
		{URL: "https://c.example/", Error: "request failed: dial tcp"},
	}}
	assert.Equal(t, 2, m.Failed())

	var plain bytes.Buffer
	require.NoError(t, m.WritePlain(&plain))
	assert.Equal(t,
		"https://a.example/\ttrue\t200\t\t\n"+
			"https://b.example/\tfalse\t404\tPARSE_ERROR\tHTTP 404: Not Found\n"+
			"https://c.example/\tfalse\t-\t\trequest failed: dial tcp\n",
		plain.String())

	var text bytes.Buffer
	require.NoError(t, m.WriteText(&text))
	assert.Contains(t, text.String(), "PARSE_ERROR")
	assert.Contains(t, text.String(), "https://c.example/")
}
