// pkg/layout/layout.go
package layout

import (
	"path/filepath"
)

const (
	// DefaultRuntime is used when the interpreter version cannot be detected
	DefaultRuntime = "python3.8"

	// LoaderModule is botocore's model loader, relative to site-packages
	LoaderModule = "botocore/loaders.py"
)

// Stage suffixes of checkpoint copies taken during a build
const (
	StageOrig     = "orig"
	StageDedented = "dedented"
	StageDocless  = "dedented-docless"
)

// Layout names the paths of one layer tree:
// <root>/python/lib/<runtime>/site-packages
type Layout struct {
	Root    string
	Runtime string
}

// New creates a layout for root. An empty runtime means DefaultRuntime.
func New(root, runtime string) *Layout {
	if runtime == "" {
		runtime = DefaultRuntime
	}
	return &Layout{Root: root, Runtime: runtime}
}

// SitePackages is where pip-installed distributions live in the layer
func (l *Layout) SitePackages() string {
	return filepath.Join(l.Root, "python", "lib", l.Runtime, "site-packages")
}

// BotocoreData is botocore's bundled service model tree
func (l *Layout) BotocoreData() string {
	return filepath.Join(l.SitePackages(), "botocore", "data")
}

// Boto3Data is boto3's bundled resource model tree
func (l *Layout) Boto3Data() string {
	return filepath.Join(l.SitePackages(), "boto3", "data")
}

// DataRoots lists both model trees
func (l *Layout) DataRoots() []string {
	return []string{l.BotocoreData(), l.Boto3Data()}
}

// LoaderModule is the path of botocore/loaders.py
func (l *Layout) LoaderModule() string {
	return filepath.Join(l.SitePackages(), filepath.FromSlash(LoaderModule))
}

// StageRoot is the sibling directory a checkpoint of layer name goes to
func StageRoot(outDir, name, stage string) string {
	return filepath.Join(outDir, name+"-"+stage)
}

// Target returns the suffix used in layer and parameter names for a
// requested boto3 version
func Target(version string) string {
	if version == "" {
		return "latest"
	}
	return version
}
