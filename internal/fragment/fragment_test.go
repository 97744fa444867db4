package fragment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/statuspane/internal/fragment"
)

func TestError(t *testing.T) {
	out, err := fragment.Error("draw failed", "NO_CHANCES")
	require.NoError(t, err)
	for _, class := range []string{"error", "error-header", "error-icon", "error-title", "error-code", "error-message"} {
		assert.Contains(t, out, `class="`+class+`"`)
	}
	assert.Contains(t, out, "(NO_CHANCES)")
	assert.Contains(t, out, ">draw failed<")
}

func TestError_NoCode(t *testing.T) {
	out, err := fragment.Error("boom", "")
	require.NoError(t, err)
	assert.NotContains(t, out, "error-code")
	assert.Contains(t, out, ">boom<")
}

func TestError_EscapesMarkup(t *testing.T) {
	out, err := fragment.Error(`<script>alert(1)</script>`, `<b>`)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "(&lt;b&gt;)")
}

func TestSuccess(t *testing.T) {
	out, err := fragment.Success("saved")
	require.NoError(t, err)
	for _, class := range []string{"success", "success-header", "success-icon", "success-title", "success-message"} {
		assert.Contains(t, out, `class="`+class+`"`)
	}
	assert.Contains(t, out, ">saved<")
}

func TestLoading(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"explicit message", "Drawing...", ">Drawing...<"},
		{"default message", "", ">" + fragment.DefaultLoadingMessage + "<"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := fragment.Loading(tc.message)
			require.NoError(t, err)
			assert.Contains(t, out, `class="loading-spinner"`)
			assert.Contains(t, out, tc.want)
		})
	}
}
