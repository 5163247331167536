// pkg/loader/loader_test.go
package loader

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/document"
)

// countingFs records directory listings, which go through Open
type countingFs struct {
	afero.Fs
	opens int
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.opens++
	return c.Fs.Open(name)
}

func dataTree(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/data/iam/2010-05-08/service-2.json":      `{"metadata":{"serviceId":"IAM"},"operations":{"ListUsers":{"http":{"method":"POST"}}}}`,
		"/data/iam/2010-05-08/paginators-1.json":   `{"pagination":{}}`,
		"/data/s3/2006-03-01/service-2.json":       `{"metadata":{"serviceId":"S3"},"version":2.0}`,
		"/data/sts/2011-06-15/paginators-1.json":   `{"pagination":{}}`,
		"/data/dynamodb/2011-12-05/service-2.json": `{"metadata":{"apiVersion":"2011-12-05"}}`,
		"/data/dynamodb/2012-08-10/service-2.json": `{"metadata":{"apiVersion":"2012-08-10"},"max":9223372036854775807}`,
		"/data/_retry.json":                        `{"retry":{}}`,
	}
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
	}
	return fs
}

func TestListAvailableServices(t *testing.T) {
	fs := dataTree(t)
	l := New(fs, NewJSONFileLoader(fs), nil, "/missing", "/data")

	services, err := l.ListAvailableServices("service-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"dynamodb", "iam", "s3"}, services)

	services, err = l.ListAvailableServices("paginators-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"iam", "sts"}, services)
}

func TestServiceIndexMemoizesScans(t *testing.T) {
	fs := &countingFs{Fs: dataTree(t)}
	index, err := NewServiceIndex(fs)
	require.NoError(t, err)

	first := New(fs, NewJSONFileLoader(fs), index, "/data")
	services, err := first.ListAvailableServices("service-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"dynamodb", "iam", "s3"}, services)
	scanned := fs.opens
	assert.Equal(t, 5, scanned)

	// a second loader over the same locations reuses the scan
	second := New(fs, NewJSONFileLoader(fs), index, "/data")
	again, err := second.ListAvailableServices("service-2")
	require.NoError(t, err)
	assert.Equal(t, services, again)
	assert.Equal(t, scanned, fs.opens)
	assert.Equal(t, 1, index.Len())

	// a different type is a different key
	_, err = second.ListAvailableServices("paginators-1")
	require.NoError(t, err)
	assert.Greater(t, fs.opens, scanned)
	assert.Equal(t, 2, index.Len())
}

func TestServiceIndexBounded(t *testing.T) {
	fs := dataTree(t)
	index, err := NewServiceIndex(fs)
	require.NoError(t, err)

	for i := 0; i < ScanCacheSize+5; i++ {
		_, err := index.ServicesByPath([]string{"/data"}, "type-"+string(rune('a'+i)))
		require.NoError(t, err)
	}
	assert.Equal(t, ScanCacheSize, index.Len())
}

func TestServicesByPathCandidates(t *testing.T) {
	index, err := NewServiceIndex(dataTree(t))
	require.NoError(t, err)

	paths, err := index.ServicesByPath([]string{"/data"}, "service-2")
	require.NoError(t, err)
	assert.Equal(t, []ServicePath{
		{Service: "dynamodb", Path: "/data/dynamodb/2011-12-05/service-2"},
		{Service: "dynamodb", Path: "/data/dynamodb/2012-08-10/service-2"},
		{Service: "iam", Path: "/data/iam/2010-05-08/service-2"},
		{Service: "s3", Path: "/data/s3/2006-03-01/service-2"},
		{Service: "sts", Path: "/data/sts/2011-06-15/service-2"},
	}, paths)

	_, err = index.ServicesByPath([]string{"/nope"}, "service-2")
	assert.Error(t, err)
}

func TestLoadServiceModelPicksLatest(t *testing.T) {
	fs := dataTree(t)
	l := New(fs, NewJSONFileLoader(fs), nil, "/data")

	version, err := l.LatestVersion("dynamodb", "service-2")
	require.NoError(t, err)
	assert.Equal(t, "2012-08-10", version)

	model, err := l.LoadServiceModel("dynamodb", "service-2")
	require.NoError(t, err)
	meta := model.(map[string]interface{})["metadata"].(map[string]interface{})
	assert.Equal(t, "2012-08-10", meta["apiVersion"])

	_, err = l.LoadServiceModel("sts", "service-2")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestBinaryFileLoaderAfterConversion(t *testing.T) {
	for _, c := range []codec.Codec{codec.Pickle{}, codec.Msgpack{}} {
		t.Run(c.Name(), func(t *testing.T) {
			fs := dataTree(t)
			want, err := document.ReadFile(fs, "/data/dynamodb/2012-08-10/service-2.json")
			require.NoError(t, err)

			n, err := codec.Convert(fs, "/data", c)
			require.NoError(t, err)
			assert.Equal(t, 7, n)

			files := NewBinaryFileLoader(fs, c)
			l := New(fs, files, nil, "/data")
			services, err := l.ListAvailableServices("service-2")
			require.NoError(t, err)
			assert.Equal(t, []string{"dynamodb", "iam", "s3"}, services)

			got, err := l.LoadServiceModel("dynamodb", "service-2")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// the stock loader sees nothing once JSON is gone
			plain := New(fs, NewJSONFileLoader(fs), nil, "/data")
			none, err := plain.ListAvailableServices("service-2")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestBinaryFileLoaderMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data/iam/v1/service-2.pickle", 0o755))
	files := NewBinaryFileLoader(fs, codec.Pickle{})

	assert.False(t, files.Exists("/data/iam/v1/service-2"))
	_, err := files.LoadFile("/data/iam/v1/service-2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = files.LoadFile("/data/iam/v1/paginators-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
