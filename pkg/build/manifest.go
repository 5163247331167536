// pkg/build/manifest.go
package build

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ManifestSuffix is appended to the layer name for the manifest file
const ManifestSuffix = ".manifest.yaml"

// WriteManifest records a build result next to the layer tree
func WriteManifest(fs afero.Fs, path string, res *Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest
func ReadManifest(fs afero.Fs, path string) (*Result, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var res Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	res.Manifest = path
	return &res, nil
}
