package scan

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTree(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"data/s3/2006-03-01/service-2.json",
		"data/s3/2006-03-01/paginators-1.json",
		"data/s3/2006-03-01/README.txt",
		"data/iam/2010-05-08/service-2.json",
		"data/endpoints.json",
		"other/skip.json",
	} {
		require.NoError(t, afero.WriteFile(fs, filepath.FromSlash(p), []byte("{}"), 0o644))
	}
	return fs
}

func TestFilesMatchesSuffixAtAnyDepth(t *testing.T) {
	fs := setupTree(t)

	paths, err := Collect(Files(fs, "data", ".json"))
	require.NoError(t, err)
	sort.Strings(paths)

	assert.Equal(t, []string{
		filepath.FromSlash("data/endpoints.json"),
		filepath.FromSlash("data/iam/2010-05-08/service-2.json"),
		filepath.FromSlash("data/s3/2006-03-01/paginators-1.json"),
		filepath.FromSlash("data/s3/2006-03-01/service-2.json"),
	}, paths)
}

func TestFilesIsRestartable(t *testing.T) {
	fs := setupTree(t)
	seq := Files(fs, "data", ".json")

	first, err := Collect(seq)
	require.NoError(t, err)
	second, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFilesStopsEarly(t *testing.T) {
	fs := setupTree(t)

	n := 0
	for _, err := range Files(fs, "data", ".json") {
		require.NoError(t, err)
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestFilesMissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Collect(Files(fs, "nope", ".json"))
	require.Error(t, err)
}
