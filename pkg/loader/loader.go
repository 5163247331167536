// pkg/loader/loader.go
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// ErrUnknownService indicates no search path holds the requested model
var ErrUnknownService = errors.New("unknown service")

// Loader resolves service models across search paths the way the patched
// botocore loader does
type Loader struct {
	fs          afero.Fs
	searchPaths []string
	files       FileLoader
	index       *ServiceIndex
}

// New creates a loader. A nil index disables scan memoization.
func New(fs afero.Fs, files FileLoader, index *ServiceIndex, searchPaths ...string) *Loader {
	return &Loader{
		fs:          fs,
		searchPaths: searchPaths,
		files:       files,
		index:       index,
	}
}

func (l *Loader) potentialLocations() []string {
	var out []string
	for _, p := range l.searchPaths {
		if isDir(l.fs, p) {
			out = append(out, p)
		}
	}
	return out
}

// ListAvailableServices returns the sorted names of services that have a
// model of the given type in any api version
func (l *Loader) ListAvailableServices(typeName string) ([]string, error) {
	index := l.index
	if index == nil {
		var err error
		if index, err = NewServiceIndex(l.fs); err != nil {
			return nil, err
		}
	}

	candidates, err := index.ServicesByPath(l.potentialLocations(), typeName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, c := range candidates {
		if seen[c.Service] || !l.files.Exists(c.Path) {
			continue
		}
		seen[c.Service] = true
		names = append(names, c.Service)
	}
	sort.Strings(names)
	return names, nil
}

// LatestVersion returns the newest api version of service providing the
// given model type
func (l *Loader) LatestVersion(service, typeName string) (string, error) {
	var versions []string
	for _, location := range l.potentialLocations() {
		dir := filepath.Join(location, service)
		entries, err := afero.ReadDir(l.fs, dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if l.files.Exists(filepath.Join(dir, e.Name(), typeName)) {
				versions = append(versions, e.Name())
			}
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnknownService, service, typeName)
	}
	sort.Strings(versions)
	return versions[len(versions)-1], nil
}

// LoadServiceModel loads the newest model of the given type for service.
// Earlier search paths win over later ones.
func (l *Loader) LoadServiceModel(service, typeName string) (interface{}, error) {
	version, err := l.LatestVersion(service, typeName)
	if err != nil {
		return nil, err
	}
	for _, location := range l.potentialLocations() {
		path := filepath.Join(location, service, version, typeName)
		if !l.files.Exists(path) {
			continue
		}
		return l.files.LoadFile(path)
	}
	return nil, fmt.Errorf("%w: %s/%s/%s", ErrUnknownService, service, version, typeName)
}
