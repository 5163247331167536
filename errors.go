// errors.go
package layerslim

import (
	"errors"
	"fmt"

	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/distinfo"
	"github.com/arc-language/layerslim/pkg/document"
	"github.com/arc-language/layerslim/pkg/installer"
	"github.com/arc-language/layerslim/pkg/loaderpatch"
	"github.com/arc-language/layerslim/pkg/profile"
	"github.com/arc-language/layerslim/pkg/pyast"
)

var (
	// ErrLayerNotFound indicates no built layer with the given name exists
	ErrLayerNotFound = errors.New("layer not found")

	// ErrInstallFailed indicates the installer did not produce a tree
	ErrInstallFailed = installer.ErrInstallFailed

	// ErrMetadata indicates a dist-info directory without usable metadata
	ErrMetadata = distinfo.ErrMetadata

	// ErrMalformedDocument indicates a model file that is not valid JSON
	ErrMalformedDocument = document.ErrMalformedDocument

	// ErrAnchorNotFound indicates botocore's loader module changed shape
	ErrAnchorNotFound = loaderpatch.ErrAnchorNotFound

	// ErrNothingToPatch indicates a loader patch with no edit enabled
	ErrNothingToPatch = loaderpatch.ErrNothingToPatch

	// ErrUnsupportedSource indicates loader source the structural model
	// cannot represent
	ErrUnsupportedSource = pyast.ErrUnsupported

	// ErrUnknownCodec indicates a codec name that is not registered
	ErrUnknownCodec = codec.ErrUnknownCodec

	// ErrProfileNotFound indicates an unknown profile name
	ErrProfileNotFound = profile.ErrNotFound

	// ErrInvalidProfileName indicates a profile name containing a path
	ErrInvalidProfileName = profile.ErrInvalidName
)

// Error wraps an error with additional context
type Error struct {
	Op    string // Operation that failed
	Layer string // Layer name if applicable
	Step  string // Build step if applicable
	Err   error  // Underlying error
}

func (e *Error) Error() string {
	switch {
	case e.Layer != "" && e.Step != "":
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Layer, e.Step, e.Err)
	case e.Layer != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Layer, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
