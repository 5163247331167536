// pkg/loader/index.go
package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

// ScanCacheSize bounds the number of memoized scans
const ScanCacheSize = 20

// ServicePath is one candidate model location of a service
type ServicePath struct {
	Service string
	Path    string // <location>/<service>/<api-version>/<type>, no extension
}

// ServiceIndex memoizes directory scans keyed on the search locations and
// the model type. Entries are never invalidated.
type ServiceIndex struct {
	fs    afero.Fs
	cache *lru.Cache[string, []ServicePath]
}

// NewServiceIndex creates an index over fs
func NewServiceIndex(fs afero.Fs) (*ServiceIndex, error) {
	cache, err := lru.New[string, []ServicePath](ScanCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating scan cache: %w", err)
	}
	return &ServiceIndex{fs: fs, cache: cache}, nil
}

// ServicesByPath lists every (service, candidate path) pair under the
// given locations. Results are sorted and shared between callers.
func (x *ServiceIndex) ServicesByPath(locations []string, typeName string) ([]ServicePath, error) {
	key := strings.Join(locations, "\x00") + "\x00\x00" + typeName
	if cached, ok := x.cache.Get(key); ok {
		return cached, nil
	}

	var out []ServicePath
	for _, location := range locations {
		entries, err := afero.ReadDir(x.fs, location)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", location, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(location, entry.Name())
			versions, err := afero.ReadDir(x.fs, dir)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", dir, err)
			}
			for _, v := range versions {
				out = append(out, ServicePath{
					Service: entry.Name(),
					Path:    filepath.Join(dir, v.Name(), typeName),
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Service != out[j].Service {
			return out[i].Service < out[j].Service
		}
		return out[i].Path < out[j].Path
	})
	x.cache.Add(key, out)
	return out, nil
}

// Len returns the number of memoized scans
func (x *ServiceIndex) Len() int {
	return x.cache.Len()
}
