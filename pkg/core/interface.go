// pkg/core/interface.go
package core

import "context"

// Installer produces a site-packages directory holding boto3, botocore
// and their dependencies
type Installer interface {
	// Name returns the installer name (e.g., "pip")
	Name() string

	// Install installs the requested boto3 version ("" for latest) and
	// returns the directory it was installed into
	Install(ctx context.Context, version string) (string, error)
}

// InstallFunc adapts a function to the Installer interface
type InstallFunc func(ctx context.Context, version string) (string, error)

// Name implements Installer
func (f InstallFunc) Name() string { return "func" }

// Install implements Installer
func (f InstallFunc) Install(ctx context.Context, version string) (string, error) {
	return f(ctx, version)
}
