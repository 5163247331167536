// pkg/checkpoint/checkpoint.go
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrSymlinkUnsupported indicates a tree with symlinks on a filesystem that
// cannot create them
var ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")

// Take replaces dst with a full copy of src
func Take(fs afero.Fs, src, dst string) error {
	if err := fs.RemoveAll(dst); err != nil {
		return fmt.Errorf("removing %s: %w", dst, err)
	}
	return Copy(fs, src, dst)
}

// Copy copies the tree at src to dst, keeping permission bits and symlinks
func Copy(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			return copyLink(fs, path, target)
		case info.IsDir():
			if err := fs.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		case info.Mode().IsRegular():
			return copyFile(fs, path, target, info.Mode().Perm())
		default:
			// Ignore sockets, devices and pipes
			return nil
		}
	})
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

func copyLink(fs afero.Fs, src, dst string) error {
	linker, ok := fs.(afero.Symlinker)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSymlinkUnsupported, src)
	}
	target, err := linker.ReadlinkIfPossible(src)
	if err != nil {
		return fmt.Errorf("reading link %s: %w", src, err)
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return fmt.Errorf("creating symlink %s: %w", dst, err)
	}
	return nil
}

// Size returns the apparent size of every regular file under root
func Size(fs afero.Fs, root string) (int64, error) {
	var total int64
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measuring %s: %w", root, err)
	}
	return total, nil
}
