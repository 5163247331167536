// pkg/archive/archive.go
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
	"zombiezen.com/go/nix"
	"zombiezen.com/go/nix/nar"
)

// Ext is the extension of packed layer artifacts
const Ext = ".tar.xz"

// epoch is stamped on every tar entry so equal trees pack to equal bytes
var epoch = time.Unix(0, 0).UTC()

type entry struct {
	rel  string // slash-separated path relative to the root, "" for the root
	path string
	info os.FileInfo
}

// walk visits root in lexical order, which both tar reproducibility and
// NAR directory ordering rely on
func walk(fs afero.Fs, root string, fn func(e entry) error) error {
	return afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			rel = ""
		}
		return fn(entry{rel: filepath.ToSlash(rel), path: path, info: info})
	})
}

// Pack writes root as an xz-compressed tar stream with paths relative to root
func Pack(fs afero.Fs, root string, w io.Writer) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	err = walk(fs, root, func(e entry) error {
		if e.rel == "" {
			return nil
		}
		hdr := &tar.Header{
			Name:    e.rel,
			Mode:    int64(e.info.Mode().Perm()),
			ModTime: epoch,
			Format:  tar.FormatPAX,
		}
		switch {
		case e.info.IsDir():
			hdr.Typeflag = tar.TypeDir
			hdr.Name += "/"
		case e.info.Mode()&os.ModeSymlink != 0:
			target, err := readlink(fs, e.path)
			if err != nil {
				return err
			}
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = target
		case e.info.Mode().IsRegular():
			hdr.Typeflag = tar.TypeReg
			hdr.Size = e.info.Size()
		default:
			return nil
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing header for %s: %w", e.rel, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			return copyContent(fs, e.path, tw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("packing %s: %w", root, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar stream: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("closing xz stream: %w", err)
	}
	return nil
}

// PackFile packs root into the file dst
func PackFile(fs afero.Fs, root, dst string) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	f, err := fs.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := Pack(fs, root, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Identity returns the SRI form of the sha256 of root's NAR serialization.
// Two trees with the same content, layout and executable bits share an
// identity regardless of timestamps or ownership.
func Identity(fs afero.Fs, root string) (string, error) {
	h := nix.NewHasher(nix.SHA256)
	if err := WriteNAR(fs, root, h); err != nil {
		return "", err
	}
	return h.SumHash().SRI(), nil
}

// WriteNAR serializes root as a NAR
func WriteNAR(fs afero.Fs, root string, w io.Writer) error {
	nw := nar.NewWriter(w)

	err := walk(fs, root, func(e entry) error {
		hdr := &nar.Header{Path: e.rel}
		switch {
		case e.info.IsDir():
			hdr.Mode = os.ModeDir | 0o755
		case e.info.Mode()&os.ModeSymlink != 0:
			target, err := readlink(fs, e.path)
			if err != nil {
				return err
			}
			hdr.Mode = os.ModeSymlink | 0o777
			hdr.LinkTarget = target
		case e.info.Mode().IsRegular():
			hdr.Mode = 0o644
			if e.info.Mode()&0o111 != 0 {
				hdr.Mode = 0o755
			}
			hdr.Size = e.info.Size()
		default:
			return nil
		}

		if err := nw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing NAR entry %q: %w", e.rel, err)
		}
		if hdr.Mode.IsRegular() {
			return copyContent(fs, e.path, nw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("serializing %s: %w", root, err)
	}
	if err := nw.Close(); err != nil {
		return fmt.Errorf("closing NAR stream: %w", err)
	}
	return nil
}

func copyContent(fs afero.Fs, path string, w io.Writer) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copying %s: %w", path, err)
	}
	return nil
}

func readlink(fs afero.Fs, path string) (string, error) {
	lr, ok := fs.(afero.LinkReader)
	if !ok {
		return "", fmt.Errorf("reading link %s: filesystem does not support symlinks", path)
	}
	return lr.ReadlinkIfPossible(path)
}
