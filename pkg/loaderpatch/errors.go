// pkg/loaderpatch/errors.go
package loaderpatch

import (
	"errors"
	"fmt"
)

var (
	// ErrAnchorNotFound indicates the loader module lacks a declaration an
	// edit hangs off, i.e. botocore changed shape
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrNothingToPatch indicates no edit was requested
	ErrNothingToPatch = errors.New("no loader edit requested")
)

// AnchorError names the declaration that could not be located
type AnchorError struct {
	Kind string // "class", "method", "assignment" or "import"
	Name string
	In   string // enclosing scope
}

func (e *AnchorError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no %s found in %s", e.Kind, e.In)
	}
	return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Name, e.In)
}

func (e *AnchorError) Unwrap() error {
	return ErrAnchorNotFound
}
