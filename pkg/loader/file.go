// pkg/loader/file.go
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/document"
)

// ErrNotFound indicates a data file that is missing or is a directory
var ErrNotFound = errors.New("data file not found")

// FileLoader reads one model file given its path without extension
type FileLoader interface {
	Exists(path string) bool
	LoadFile(path string) (interface{}, error)
}

// JSONFileLoader reads the stock ".json" layout
type JSONFileLoader struct {
	fs afero.Fs
}

// NewJSONFileLoader creates a loader for JSON model files
func NewJSONFileLoader(fs afero.Fs) *JSONFileLoader {
	return &JSONFileLoader{fs: fs}
}

// Exists reports whether path.json is a regular file
func (l *JSONFileLoader) Exists(path string) bool {
	return isFile(l.fs, path+document.Suffix)
}

// LoadFile decodes path.json
func (l *JSONFileLoader) LoadFile(path string) (interface{}, error) {
	full := path + document.Suffix
	if !isFile(l.fs, full) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, full)
	}
	return document.ReadFile(l.fs, full)
}

// BinaryFileLoader reads files a codec produced, the way the patched
// Python loader does
type BinaryFileLoader struct {
	fs    afero.Fs
	codec codec.Codec
}

// NewBinaryFileLoader creates a loader for c-encoded model files
func NewBinaryFileLoader(fs afero.Fs, c codec.Codec) *BinaryFileLoader {
	return &BinaryFileLoader{fs: fs, codec: c}
}

// Exists reports whether path plus the codec extension is a regular file
func (l *BinaryFileLoader) Exists(path string) bool {
	return isFile(l.fs, path+l.codec.Ext())
}

// LoadFile decodes path plus the codec extension
func (l *BinaryFileLoader) LoadFile(path string) (interface{}, error) {
	full := path + l.codec.Ext()
	if !isFile(l.fs, full) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, full)
	}
	data, err := afero.ReadFile(l.fs, full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, full)
		}
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}
	v, err := l.codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", full, err)
	}
	return v, nil
}

func isFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(fs afero.Fs, path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}
