// pkg/codec/convert.go
package codec

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/arc-language/layerslim/pkg/document"
	"github.com/arc-language/layerslim/pkg/scan"
)

// BinaryPath returns the sibling path a JSON data file converts to
func BinaryPath(jsonPath string, c Codec) string {
	return strings.TrimSuffix(jsonPath, document.Suffix) + c.Ext()
}

// ConvertFile replaces one JSON file with its binary encoding
func ConvertFile(fs afero.Fs, path string, c Codec) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	v, err := document.ReadFile(fs, path)
	if err != nil {
		return err
	}
	data, err := c.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s as %s: %w", path, c.Name(), err)
	}
	if err := afero.WriteFile(fs, BinaryPath(path, c), data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", BinaryPath(path, c), err)
	}
	if err := fs.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// Convert replaces every JSON file under root with its binary encoding and
// returns the number of converted files. The file list is taken before the
// first write so new files never show up in the walk.
func Convert(fs afero.Fs, root string, c Codec) (int, error) {
	paths, err := scan.Collect(scan.Files(fs, root, document.Suffix))
	if err != nil {
		return 0, fmt.Errorf("scanning %s: %w", root, err)
	}
	for i, path := range paths {
		if err := ConvertFile(fs, path, c); err != nil {
			return i, err
		}
	}
	return len(paths), nil
}
