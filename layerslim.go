// layerslim.go
package layerslim

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/arc-language/layerslim/pkg/archive"
	"github.com/arc-language/layerslim/pkg/build"
	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/core"
	"github.com/arc-language/layerslim/pkg/distinfo"
	"github.com/arc-language/layerslim/pkg/installer"
	"github.com/arc-language/layerslim/pkg/layout"
	"github.com/arc-language/layerslim/pkg/loader"
	"github.com/arc-language/layerslim/pkg/loaderpatch"
	"github.com/arc-language/layerslim/pkg/platform"
	"github.com/arc-language/layerslim/pkg/profile"
)

// Re-export types for convenience
type (
	Config       = core.Config
	Installer    = core.Installer
	Request      = build.Request
	Result       = build.Result
	StageReport  = build.StageReport
	Profile      = profile.Profile
	Versions     = distinfo.Versions
	Codec        = codec.Codec
	PatchOptions = loaderpatch.Options
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Manager builds, verifies and cleans layers under one output directory
type Manager struct {
	config    *core.Config
	fs        afero.Fs
	runtime   string
	installer core.Installer
	profiles  *profile.Registry
	logger    *zap.SugaredLogger
}

// Option customizes a Manager
type Option func(*Manager)

// WithFs runs every tree operation against fs instead of the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) { m.fs = fs }
}

// WithInstaller replaces the pip installer
func WithInstaller(inst core.Installer) Option {
	return func(m *Manager) { m.installer = inst }
}

// WithLogger sets the logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithRuntime pins the layer runtime and skips interpreter detection
func WithRuntime(rt string) Option {
	return func(m *Manager) { m.runtime = rt }
}

// NewManager creates a Manager. The runtime comes from the config, then
// from probing the configured python, then layout.DefaultRuntime.
func NewManager(ctx context.Context, config *Config, opts ...Option) (*Manager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}

	m := &Manager{config: config}
	for _, opt := range opts {
		opt(m)
	}
	if m.fs == nil {
		m.fs = afero.NewOsFs()
	}
	if m.logger == nil {
		m.logger = zap.NewNop().Sugar()
	}

	if m.runtime == "" {
		rt, err := platform.ResolveRuntime(ctx, config)
		if err != nil {
			return nil, &Error{Op: "init", Err: err}
		}
		m.runtime = rt
	} else if _, err := platform.ParseRuntime(m.runtime); err != nil {
		return nil, &Error{Op: "init", Err: err}
	}

	m.profiles = profile.New(config.ProfilesDir)
	return m, nil
}

// Runtime returns the python runtime layers are built for
func (m *Manager) Runtime() string {
	return m.runtime
}

// Profiles returns the profile registry
func (m *Manager) Profiles() *profile.Registry {
	return m.profiles
}

// Layout returns the paths of the layer called name
func (m *Manager) Layout(name string) *layout.Layout {
	return layout.New(filepath.Join(m.config.OutDir, name), m.runtime)
}

// RequestFromProfile turns a profile into a build request named after it
func (m *Manager) RequestFromProfile(p *Profile) (*Request, error) {
	req := &Request{
		Name:         p.Name,
		Boto3Version: p.Boto3Version,
		Services:     p.Services,
	}
	if p.Codec != "" {
		c, err := codec.Lookup(p.Codec)
		if err != nil {
			return nil, err
		}
		req.Codec = c
	}
	return req, nil
}

// Build builds one layer
func (m *Manager) Build(ctx context.Context, req *Request, extras ...string) (*Result, error) {
	if req == nil {
		return nil, &Error{Op: "build", Err: build.ErrInvalidRequest}
	}

	inst := m.installer
	if inst == nil {
		requirements := append([]string(nil), extras...)
		if req.Codec != nil {
			requirements = append(requirements, req.Codec.Python().Requirements...)
		}
		inst = installer.New(&installer.Config{
			Pip:          m.config.Pip,
			CachePath:    m.config.CachePath,
			Requirements: requirements,
			Logger:       m.logger,
		})
	}

	b, err := build.New(&build.Config{
		Fs:          m.fs,
		OutDir:      m.config.OutDir,
		Runtime:     m.runtime,
		Installer:   inst,
		Checkpoints: m.config.Checkpoints,
		Logger:      m.logger,
	})
	if err != nil {
		return nil, &Error{Op: "build", Layer: req.Name, Err: err}
	}

	res, err := b.Build(ctx, req)
	if err != nil {
		var se *build.StepError
		if errors.As(err, &se) {
			return nil, &Error{Op: "build", Layer: req.Name, Step: se.Step, Err: se.Err}
		}
		return nil, &Error{Op: "build", Layer: req.Name, Err: err}
	}
	return res, nil
}

// BuildProfile builds the layer a named profile describes
func (m *Manager) BuildProfile(ctx context.Context, name string) (*Result, error) {
	p, err := m.profiles.Load(name)
	if err != nil {
		return nil, &Error{Op: "build", Layer: name, Err: err}
	}
	req, err := m.RequestFromProfile(p)
	if err != nil {
		return nil, &Error{Op: "build", Layer: name, Err: err}
	}
	return m.Build(ctx, req, p.Extras...)
}

// PatchLoader rewrites loader source text
func (m *Manager) PatchLoader(src string, opts PatchOptions) (string, error) {
	out, err := loaderpatch.Patch(src, opts)
	if err != nil {
		return "", &Error{Op: "patch", Err: err}
	}
	return out, nil
}

// PatchLoaderFile rewrites the loader module at path in place
func (m *Manager) PatchLoaderFile(path string, opts PatchOptions) error {
	if err := loaderpatch.PatchFile(m.fs, path, opts); err != nil {
		return &Error{Op: "patch", Err: err}
	}
	return nil
}

// Manifest reads the manifest of a built layer
func (m *Manager) Manifest(name string) (*Result, error) {
	path := filepath.Join(m.config.OutDir, name+build.ManifestSuffix)
	ok, err := afero.Exists(m.fs, path)
	if err != nil {
		return nil, &Error{Op: "manifest", Layer: name, Err: err}
	}
	if !ok {
		return nil, &Error{Op: "manifest", Layer: name, Err: ErrLayerNotFound}
	}
	res, err := build.ReadManifest(m.fs, path)
	if err != nil {
		return nil, &Error{Op: "manifest", Layer: name, Err: err}
	}
	return res, nil
}

// Verify lists the services of a built layer the way its patched loader
// would, reading whichever model encoding the build left behind
func (m *Manager) Verify(name, typeName string) ([]string, error) {
	res, err := m.Manifest(name)
	if err != nil {
		return nil, err
	}

	var files loader.FileLoader = loader.NewJSONFileLoader(m.fs)
	if res.Codec != "" {
		c, err := codec.Lookup(res.Codec)
		if err != nil {
			return nil, &Error{Op: "verify", Layer: name, Err: err}
		}
		files = loader.NewBinaryFileLoader(m.fs, c)
	}

	index, err := loader.NewServiceIndex(m.fs)
	if err != nil {
		return nil, &Error{Op: "verify", Layer: name, Err: err}
	}
	lay := layout.New(res.Root, res.Runtime)
	services, err := loader.New(m.fs, files, index, lay.BotocoreData()).ListAvailableServices(typeName)
	if err != nil {
		return nil, &Error{Op: "verify", Layer: name, Err: err}
	}
	return services, nil
}

// Clean removes a layer with its checkpoints, archive and manifest. An
// empty name removes the whole output directory.
func (m *Manager) Clean(name string) error {
	if name == "" {
		if err := m.fs.RemoveAll(m.config.OutDir); err != nil {
			return &Error{Op: "clean", Err: err}
		}
		return nil
	}

	out := m.config.OutDir
	paths := []string{
		filepath.Join(out, name),
		layout.StageRoot(out, name, layout.StageOrig),
		layout.StageRoot(out, name, layout.StageDedented),
		layout.StageRoot(out, name, layout.StageDocless),
		filepath.Join(out, name+archive.Ext),
		filepath.Join(out, name+build.ManifestSuffix),
	}
	for _, p := range paths {
		if err := m.fs.RemoveAll(p); err != nil {
			return &Error{Op: "clean", Layer: name, Err: fmt.Errorf("removing %s: %w", p, err)}
		}
	}
	return nil
}
