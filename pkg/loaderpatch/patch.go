// pkg/loaderpatch/patch.go
package loaderpatch

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/pyast"
)

// Options selects the edits Patch applies
type Options struct {
	Caching bool
	Binary  codec.Codec // nil leaves the JSON loader in place
}

// Patch parses src once, applies the binary-load edit and then the caching
// edit as requested, and renders the result. Declarations no edit touches
// are emitted byte-for-byte.
func Patch(src string, opts Options) (string, error) {
	if !opts.Caching && opts.Binary == nil {
		return "", ErrNothingToPatch
	}

	mod, err := pyast.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing loader module: %w", err)
	}

	if opts.Binary != nil {
		if err := ApplyBinaryLoad(mod, opts.Binary); err != nil {
			return "", fmt.Errorf("applying %s loader: %w", opts.Binary.Name(), err)
		}
	}
	if opts.Caching {
		if err := ApplyCaching(mod); err != nil {
			return "", fmt.Errorf("applying scan cache: %w", err)
		}
	}
	return mod.String(), nil
}

// PatchFile rewrites the loader module at path in place
func PatchFile(fs afero.Fs, path string, opts Options) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := Patch(string(src), opts)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
