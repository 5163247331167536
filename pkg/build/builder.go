// pkg/build/builder.go
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/docker/go-units"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/arc-language/layerslim/pkg/archive"
	"github.com/arc-language/layerslim/pkg/checkpoint"
	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/core"
	"github.com/arc-language/layerslim/pkg/distinfo"
	"github.com/arc-language/layerslim/pkg/document"
	"github.com/arc-language/layerslim/pkg/layout"
	"github.com/arc-language/layerslim/pkg/loaderpatch"
	"github.com/arc-language/layerslim/pkg/prune"
)

// Config configures a Builder
type Config struct {
	Fs          afero.Fs // defaults to the OS filesystem
	OutDir      string
	Runtime     string
	Installer   core.Installer
	Checkpoints bool // copy the tree aside after the orig, dedented and docless stages
	Logger      *zap.SugaredLogger
}

// Builder turns a pip install of boto3 into a slimmed layer tree.
// Builds targeting different layer names share no state.
type Builder struct {
	fs          afero.Fs
	outDir      string
	runtime     string
	installer   core.Installer
	checkpoints bool
	logger      *zap.SugaredLogger
}

// New creates a Builder
func New(cfg *Config) (*Builder, error) {
	if cfg == nil || cfg.Installer == nil {
		return nil, fmt.Errorf("%w: no installer configured", ErrInvalidRequest)
	}

	b := &Builder{
		fs:          cfg.Fs,
		outDir:      cfg.OutDir,
		runtime:     cfg.Runtime,
		installer:   cfg.Installer,
		checkpoints: cfg.Checkpoints,
		logger:      cfg.Logger,
	}
	if b.fs == nil {
		b.fs = afero.NewOsFs()
	}
	if b.outDir == "" {
		b.outDir = filepath.Join(".", "cdk.out", "layers")
	}
	if b.runtime == "" {
		b.runtime = layout.DefaultRuntime
	}
	if b.logger == nil {
		b.logger = zap.NewNop().Sugar()
	}
	return b, nil
}

// Layout returns the paths of the layer called name
func (b *Builder) Layout(name string) *layout.Layout {
	return layout.New(filepath.Join(b.outDir, name), b.runtime)
}

// Build runs every step for req. Nothing is retried; on failure the
// returned *StepError names the step and the output tree is not usable.
func (b *Builder) Build(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Name == "" {
		return nil, fmt.Errorf("%w: layer name required", ErrInvalidRequest)
	}

	lay := b.Layout(req.Name)
	services := append([]string(nil), req.Services...)
	sort.Strings(services)

	res := &Result{
		Name:         req.Name,
		Root:         lay.Root,
		SitePackages: lay.SitePackages(),
		Runtime:      b.runtime,
		Boto3Version: layout.Target(req.Boto3Version),
		Services:     services,
	}
	log := b.logger.With("layer", req.Name)

	run := func(step string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step, Err: err}
		}
		if err := fn(); err != nil {
			return &StepError{Step: step, Err: err}
		}
		return nil
	}

	// Step 1: Install and copy into a fresh layer root
	log.Infof("Step 1: Installing boto3 %s with %s", res.Boto3Version, b.installer.Name())
	err := run(StepInstall, func() error {
		source, err := b.installer.Install(ctx, req.Boto3Version)
		if err != nil {
			return err
		}
		if err := b.fs.RemoveAll(lay.Root); err != nil {
			return fmt.Errorf("removing %s: %w", lay.Root, err)
		}
		if err := b.fs.MkdirAll(filepath.Dir(lay.SitePackages()), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(lay.SitePackages()), err)
		}
		return checkpoint.Copy(b.fs, source, lay.SitePackages())
	})
	if err != nil {
		return nil, err
	}
	if err := b.measure(res, StepInstall, log); err != nil {
		return nil, err
	}

	// Step 2: Remove bytecode caches and stale examples
	log.Infof("Step 2: Removing cruft")
	err = run(StepCruft, func() error {
		report, err := prune.Cruft(b.fs, lay.SitePackages())
		res.Cruft = report
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Infof("  ✓ Removed %d cache dirs, %d compiled files, %d example files",
		res.Cruft.CacheDirs, res.Cruft.CompiledFiles, res.Cruft.ExampleFiles)
	if err := b.measure(res, StepCruft, log); err != nil {
		return nil, err
	}

	// Step 3: Prune services outside the allow list
	if len(services) > 0 {
		log.Infof("Step 3: Keeping only %v", services)
		err = run(StepPrune, func() error {
			return b.eachRoot(lay, func(root string) error {
				removed, err := prune.Services(b.fs, root, services)
				res.Removed = append(res.Removed, removed...)
				return err
			})
		})
		if err != nil {
			return nil, err
		}
		res.Removed = dedupe(res.Removed)
		log.Infof("  ✓ Removed %d services", len(res.Removed))
		if err := b.measure(res, StepPrune, log); err != nil {
			return nil, err
		}
	} else {
		log.Infof("Step 3: Keeping all services")
	}
	if err := b.checkpoint(res, lay, layout.StageOrig, log); err != nil {
		return nil, err
	}

	// Step 4: Compact JSON
	log.Infof("Step 4: Compacting JSON")
	err = run(StepCompact, func() error {
		return b.eachRoot(lay, func(root string) error {
			n, err := document.Walk(b.fs, root, document.CompactFile)
			res.Documents += n
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	if err := b.measure(res, StepCompact, log); err != nil {
		return nil, err
	}
	if err := b.checkpoint(res, lay, layout.StageDedented, log); err != nil {
		return nil, err
	}

	// Step 5: Redact documentation
	log.Infof("Step 5: Removing documentation")
	err = run(StepRedact, func() error {
		return b.eachRoot(lay, func(root string) error {
			_, err := document.Walk(b.fs, root, document.RedactFile)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	if err := b.measure(res, StepRedact, log); err != nil {
		return nil, err
	}
	if err := b.checkpoint(res, lay, layout.StageDocless, log); err != nil {
		return nil, err
	}

	// Step 6: Convert to a binary codec
	if req.Codec != nil {
		log.Infof("Step 6: Converting models to %s", req.Codec.Name())
		err = run(StepConvert, func() error {
			return b.eachRoot(lay, func(root string) error {
				n, err := codec.Convert(b.fs, root, req.Codec)
				res.Converted += n
				return err
			})
		})
		if err != nil {
			return nil, err
		}
		res.Codec = req.Codec.Name()
		if err := b.measure(res, StepConvert, log); err != nil {
			return nil, err
		}
	} else {
		log.Infof("Step 6: Keeping JSON models")
	}

	// Step 7: Patch the loader
	log.Infof("Step 7: Patching %s", layout.LoaderModule)
	err = run(StepPatch, func() error {
		return loaderpatch.PatchFile(b.fs, lay.LoaderModule(), loaderpatch.Options{
			Caching: true,
			Binary:  req.Codec,
		})
	})
	if err != nil {
		return nil, err
	}

	// Step 8: Read installed versions
	log.Infof("Step 8: Reading versions")
	err = run(StepVersions, func() error {
		versions, err := distinfo.ScanVersions(b.fs, lay.SitePackages())
		res.Versions = versions
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Description = Description(services, res.Versions)
	res.LayerName = LayerName(req.Name, req.Boto3Version)
	res.ParameterName = ParameterName(b.runtime, req.Name, req.Boto3Version)
	log.Infof("  ✓ %s", res.Description)

	// Step 9: Pack and fingerprint
	if req.Pack {
		log.Infof("Step 9: Packing")
		res.Archive = filepath.Join(b.outDir, req.Name+archive.Ext)
		err = run(StepPack, func() error {
			if err := archive.PackFile(b.fs, lay.Root, res.Archive); err != nil {
				return err
			}
			id, err := archive.Identity(b.fs, lay.Root)
			res.Identity = id
			return err
		})
		if err != nil {
			return nil, err
		}
		log.Infof("  ✓ %s (%s)", res.Archive, res.Identity)
	}

	res.Manifest = filepath.Join(b.outDir, req.Name+ManifestSuffix)
	err = run(StepManifest, func() error {
		return WriteManifest(b.fs, res.Manifest, res)
	})
	if err != nil {
		return nil, err
	}

	log.Infof("✓ Built %s", lay.Root)
	return res, nil
}

// eachRoot applies fn to the model trees that exist
func (b *Builder) eachRoot(lay *layout.Layout, fn func(root string) error) error {
	for _, root := range lay.DataRoots() {
		ok, err := afero.DirExists(b.fs, root)
		if err != nil {
			return err
		}
		if !ok {
			b.logger.Debugw("Skipping missing model tree", "root", root)
			continue
		}
		if err := fn(root); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) measure(res *Result, stage string, log *zap.SugaredLogger) error {
	size, err := checkpoint.Size(b.fs, res.Root)
	if err != nil {
		return &StepError{Step: stage, Err: err}
	}
	res.Stages = append(res.Stages, StageReport{Name: stage, Size: size})
	log.Infof("  ✓ Size %s", units.HumanSize(float64(size)))
	return nil
}

func (b *Builder) checkpoint(res *Result, lay *layout.Layout, stage string, log *zap.SugaredLogger) error {
	if !b.checkpoints {
		return nil
	}
	dst := layout.StageRoot(b.outDir, res.Name, stage)
	if err := checkpoint.Take(b.fs, lay.Root, dst); err != nil {
		return &StepError{Step: StepCheckpoint, Err: err}
	}
	res.Checkpoints = append(res.Checkpoints, dst)
	log.Debugw("Saved checkpoint", "path", dst)
	return nil
}

func dedupe(names []string) []string {
	sort.Strings(names)
	out := names[:0]
	for i, n := range names {
		if i == 0 || n != names[i-1] {
			out = append(out, n)
		}
	}
	return out
}
