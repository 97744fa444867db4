package appdir_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/statuspane/internal/appdir"
)

func TestConfigDir(t *testing.T) {
	dir, err := appdir.ConfigDir()
	require.NoError(t, err)
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir), "expected absolute path, got %q", dir)
	assert.True(t, strings.HasSuffix(dir, "/statuspane") || strings.HasSuffix(dir, `\statuspane`),
		"expected path ending in /statuspane or \\statuspane, got %q", dir)
}

func TestEnsureFile_CreatesFileAndDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "subdir", "file.txt")

	err := appdir.EnsureFile(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnsureFile_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "file.txt")

	require.NoError(t, appdir.EnsureFile(path))
	require.NoError(t, appdir.EnsureFile(path)) // second call must not error
}

func TestDefaultConfigFile(t *testing.T) {
	path, err := appdir.DefaultConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "statuspane", filepath.Base(filepath.Dir(path)))
}

func TestWriteFile_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, appdir.WriteFile(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "page.html")
	assert.Error(t, appdir.WriteFile(path, []byte("x"), 0o644))
}
