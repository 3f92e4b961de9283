package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(RootEnv, dir+"/")
	assert.Equal(t, filepath.Clean(dir), RootPath())
}

func TestRootPathFallsBackToSourceTree(t *testing.T) {
	t.Setenv(RootEnv, "")
	root := RootPath()
	ok, err := Exists(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	ok, err := Exists(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}
