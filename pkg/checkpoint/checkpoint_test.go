// pkg/checkpoint/checkpoint_test.go
package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeReplacesDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/layer/python/a.py", []byte("print(1)\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/layer/python/bin/tool", []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, afero.WriteFile(fs, "/layer-orig/stale.txt", []byte("old"), 0o644))

	require.NoError(t, Take(fs, "/layer", "/layer-orig"))

	data, err := afero.ReadFile(fs, "/layer-orig/python/a.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", string(data))

	info, err := fs.Stat("/layer-orig/python/bin/tool")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	exists, err := afero.Exists(fs, "/layer-orig/stale.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// the source is untouched
	exists, err = afero.Exists(fs, "/layer/python/a.py")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCopyMissingSource(t *testing.T) {
	assert.Error(t, Copy(afero.NewMemMapFs(), "/nope", "/dst"))
}

func TestCopyKeepsSymlinks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "pkg", "real.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.Symlink("real.py", filepath.Join(src, "pkg", "alias.py")))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, Take(afero.NewOsFs(), src, dst))

	target, err := os.Readlink(filepath.Join(dst, "pkg", "alias.py"))
	require.NoError(t, err)
	assert.Equal(t, "real.py", target)
}

func TestSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/t/a", make([]byte, 100), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/t/sub/b", make([]byte, 23), 0o644))

	size, err := Size(fs, "/t")
	require.NoError(t, err)
	assert.Equal(t, int64(123), size)

	_, err = Size(fs, "/missing")
	assert.Error(t, err)
}
