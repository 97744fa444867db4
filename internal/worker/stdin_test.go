package worker_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/statuspane/internal/worker"
)

func TestReadInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"basic", "https://a.example/\nhttps://b.example/\n", []string{"https://a.example/", "https://b.example/"}},
		{"trims whitespace", "  https://a.example/  \n\thttps://b.example/\t\n", []string{"https://a.example/", "https://b.example/"}},
		{"drops blank lines", "https://a.example/\n\n  \nhttps://b.example/", []string{"https://a.example/", "https://b.example/"}},
		{"drops comments", "# health checks\nhttps://a.example/\n  # disabled\n", []string{"https://a.example/"}},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := worker.ReadInputs(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestReadInputs_ReadError(t *testing.T) {
	_, err := worker.ReadInputs(failingReader{})
	require.Error(t, err)
}
