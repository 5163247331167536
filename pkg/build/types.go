// pkg/build/types.go
package build

import (
	"errors"
	"fmt"

	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/distinfo"
	"github.com/arc-language/layerslim/pkg/prune"
)

// Build steps, in execution order
const (
	StepInstall    = "install"
	StepCruft      = "cruft"
	StepPrune      = "prune"
	StepCheckpoint = "checkpoint"
	StepCompact    = "compact"
	StepRedact     = "redact"
	StepConvert    = "convert"
	StepPatch      = "patch"
	StepVersions   = "versions"
	StepPack       = "pack"
	StepManifest   = "manifest"
)

// ErrInvalidRequest indicates a request the builder refuses to start
var ErrInvalidRequest = errors.New("invalid build request")

// StepError reports the step a build stopped at. The layer tree is left
// in whatever state the step reached.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Request describes one layer to build
type Request struct {
	Name         string      // layer name, also the output directory name
	Boto3Version string      // "" installs the latest release
	Services     []string    // services to keep; empty keeps all
	Codec        codec.Codec // nil keeps the models as JSON
	Pack         bool        // write <out>/<name>.tar.xz and compute the identity
}

// StageReport records the layer size after a step
type StageReport struct {
	Name string `yaml:"name"`
	Size int64  `yaml:"size"`
}

// Result describes a finished layer
type Result struct {
	Name          string             `yaml:"name"`
	Root          string             `yaml:"root"`
	SitePackages  string             `yaml:"site_packages"`
	Runtime       string             `yaml:"runtime"`
	Boto3Version  string             `yaml:"boto3_version"`
	Services      []string           `yaml:"services,omitempty"`
	Removed       []string           `yaml:"removed,omitempty"`
	Cruft         *prune.CruftReport `yaml:"cruft"`
	Documents     int                `yaml:"documents"`
	Codec         string             `yaml:"codec,omitempty"`
	Converted     int                `yaml:"converted,omitempty"`
	Versions      distinfo.Versions  `yaml:"versions"`
	Stages        []StageReport      `yaml:"stages"`
	Checkpoints   []string           `yaml:"checkpoints,omitempty"`
	Description   string             `yaml:"description"`
	LayerName     string             `yaml:"layer_name"`
	ParameterName string             `yaml:"parameter_name"`
	Archive       string             `yaml:"archive,omitempty"`
	Identity      string             `yaml:"identity,omitempty"`
	Manifest      string             `yaml:"-"`
}
