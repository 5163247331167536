// pkg/installer/pip.go
package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/arc-language/layerslim/pkg/layout"
)

// ErrInstallFailed indicates pip did not produce an install tree
var ErrInstallFailed = errors.New("install failed")

const (
	// DefaultPip is the pip of the project virtualenv
	DefaultPip = ".venv/bin/pip"

	// Package is the distribution every layer is built from
	Package = "boto3"
)

// Config configures the pip installer
type Config struct {
	Pip          string   // pip executable
	CachePath    string   // parent of the pkg_boto3_<version> directories
	Requirements []string // extra requirement specifiers installed alongside
	Logger       *zap.SugaredLogger
}

// Pip installs boto3 with `pip install -t` into a cache directory that is
// reused by later builds of the same version
type Pip struct {
	pip          string
	cachePath    string
	requirements []string
	logger       *zap.SugaredLogger
}

// New creates a pip installer
func New(cfg *Config) *Pip {
	if cfg == nil {
		cfg = &Config{}
	}

	// Set defaults
	p := &Pip{
		pip:          cfg.Pip,
		cachePath:    cfg.CachePath,
		requirements: append([]string(nil), cfg.Requirements...),
		logger:       cfg.Logger,
	}
	if p.pip == "" {
		p.pip = DefaultPip
	}
	if p.cachePath == "" {
		p.cachePath = os.TempDir()
	}
	if p.logger == nil {
		p.logger = zap.NewNop().Sugar()
	}
	sort.Strings(p.requirements)
	return p
}

// Name implements core.Installer
func (p *Pip) Name() string {
	return "pip"
}

// TargetDir is the cache directory an install of version lands in
func (p *Pip) TargetDir(version string) string {
	name := "pkg_" + Package + "_" + layout.Target(version)
	if len(p.requirements) > 0 {
		name += "_" + sanitize(strings.Join(p.requirements, "_"))
	}
	return filepath.Join(p.cachePath, name)
}

// Args returns the pip command line for installing version into dir
func (p *Pip) Args(version, dir string) []string {
	spec := Package
	if version != "" {
		spec = Package + "==" + version
	}
	args := []string{"install", "-t", dir, spec}
	return append(args, p.requirements...)
}

// Install implements core.Installer. An existing target directory is
// returned as-is; a failed install removes the partial directory.
func (p *Pip) Install(ctx context.Context, version string) (string, error) {
	dir := p.TargetDir(version)
	if _, err := os.Stat(dir); err == nil {
		p.logger.Infow("Reusing cached install", "dir", dir)
		return dir, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating install directory: %w", err)
	}

	args := p.Args(version, dir)
	p.logger.Infow("Installing", "pip", p.pip, "args", args)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, p.pip, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("%w: %s %s: %v\n%s", ErrInstallFailed, p.pip, strings.Join(args, " "), err, tail(out.String(), 20))
	}

	p.logger.Debugw("pip output", "output", out.String())
	p.logger.Infow("✓ Installed", "dir", dir)
	return dir, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}

// tail returns the last n lines of s
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
